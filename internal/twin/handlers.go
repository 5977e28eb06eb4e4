package twin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kiroskirin/firefox-ios/internal/observability"
)

// Wire types mirror the SDK's JSON. The twin keeps its own copies so
// the client package stays private and drift shows up in integration
// runs instead of compile errors hiding it.

type wireEvent struct {
	Event          string            `json:"event"`
	Params         map[string]string `json:"params,omitempty"`
	DeviceID       string            `json:"device_id"`
	AppID          string            `json:"app_id"`
	IdempotencyKey string            `json:"idempotency_key"`
	TimestampMs    int64             `json:"timestamp_ms"`
}

type trackRequest struct {
	Events []wireEvent `json:"events"`
}

type trackResponse struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
}

type startRequest struct {
	DeviceID    string         `json:"device_id"`
	AppID       string         `json:"app_id"`
	Environment string         `json:"environment"`
	SDKVersion  string         `json:"sdk_version"`
	Attributes  map[string]any `json:"attributes"`
}

type startResponse struct {
	SessionID string   `json:"session_id"`
	Actions   []string `json:"actions,omitempty"`
}

type attributesRequest struct {
	DeviceID   string         `json:"device_id"`
	AppID      string         `json:"app_id"`
	Attributes map[string]any `json:"attributes"`
}

// Handler implements the Engage SDK API plus admin extras.
type Handler struct {
	store    *Store
	dedup    *deduper
	scenario *Scenario
	metrics  *observability.Metrics
	log      *slog.Logger
}

// NewHandler wires the handler and starts the dedup rotation loop.
// Call Close to stop it.
func NewHandler(store *Store, scenario *Scenario, dedupCfg DedupConfig, metrics *observability.Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		store:    store,
		dedup:    newDeduper(dedupCfg),
		scenario: scenario,
		metrics:  metrics,
		log:      logger.With("component", "twin"),
	}
	h.dedup.start()
	return h
}

// Close stops the dedup rotation loop.
func (h *Handler) Close() {
	h.dedup.stop()
}

// Routes mounts the SDK API and the admin extras.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/v1/sdk/start", h.StartSession)
	r.Post("/v1/sdk/track", h.TrackEvents)
	r.Post("/v1/sdk/attributes", h.ReplaceAttributes)
	r.Get("/v1/sdk/resources", h.Resources)

	// Admin extras; no auth, meant for tests and local poking.
	r.Get("/admin/events", h.AdminListEvents)
	r.Get("/admin/devices", h.AdminListDevices)
	r.Delete("/admin/state", h.AdminReset)
}

// authorized enforces the scenario's credential list.
func (h *Handler) authorized(w http.ResponseWriter, r *http.Request) bool {
	if h.scenario.allowsKey(r.Header.Get(apiKeyHeader)) {
		return true
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"error": "invalid API key",
	})
	return false
}

// StartSession handles POST /v1/sdk/start.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed JSON"})
		return
	}
	if req.DeviceID == "" || req.AppID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "device_id and app_id are required"})
		return
	}

	h.store.RecordStart(req.DeviceID, req.AppID, req.Environment, req.Attributes, time.Now())
	h.metrics.SessionsStarted.Add(r.Context(), 1)
	if n := len(h.scenario.StartActions); n > 0 {
		h.metrics.ActionsTriggered.Add(r.Context(), int64(n))
	}

	h.log.Info("session started",
		"device_id", req.DeviceID,
		"app_id", req.AppID,
		"environment", req.Environment,
		"actions", len(h.scenario.StartActions),
	)

	writeJSON(w, http.StatusOK, startResponse{
		SessionID: uuid.New().String(),
		Actions:   h.scenario.StartActions,
	})
}

// TrackEvents handles POST /v1/sdk/track. Events whose idempotency key
// was seen within the dedup window are counted but not stored.
func (h *Handler) TrackEvents(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed JSON"})
		return
	}

	var resp trackResponse
	now := time.Now()
	for _, e := range req.Events {
		if e.IdempotencyKey != "" && h.dedup.isDuplicate(e.IdempotencyKey) {
			resp.Duplicates++
			continue
		}
		h.store.AppendEvent(CapturedEvent{
			ID:             uuid.New().String(),
			Event:          e.Event,
			Params:         e.Params,
			DeviceID:       e.DeviceID,
			AppID:          e.AppID,
			IdempotencyKey: e.IdempotencyKey,
			TimestampMs:    e.TimestampMs,
			ReceivedAt:     now,
		})
		resp.Accepted++
	}

	h.metrics.EventsReceived.Add(r.Context(), int64(resp.Accepted))
	if resp.Duplicates > 0 {
		h.metrics.EventsDeduplicated.Add(r.Context(), int64(resp.Duplicates))
	}

	h.log.Debug("events tracked", "accepted", resp.Accepted, "duplicates", resp.Duplicates)
	writeJSON(w, http.StatusOK, resp)
}

// ReplaceAttributes handles POST /v1/sdk/attributes. Snapshots replace
// the stored state wholesale.
func (h *Handler) ReplaceAttributes(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	var req attributesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed JSON"})
		return
	}
	if req.DeviceID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "device_id is required"})
		return
	}

	h.store.ReplaceAttributes(req.DeviceID, req.AppID, req.Attributes, time.Now())
	h.metrics.AttributeSnapshots.Add(r.Context(), 1)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Resources handles GET /v1/sdk/resources with an empty resource set.
func (h *Handler) Resources(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"resources": map[string]any{}})
}

// AdminListEvents handles GET /admin/events.
func (h *Handler) AdminListEvents(w http.ResponseWriter, r *http.Request) {
	events := h.store.Events()
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

// AdminListDevices handles GET /admin/devices.
func (h *Handler) AdminListDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"devices": h.store.Devices(),
	})
}

// AdminReset handles DELETE /admin/state, wiping the store and the
// dedup window.
func (h *Handler) AdminReset(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	h.dedup.reset()
	h.log.Info("state reset")
	w.WriteHeader(http.StatusNoContent)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
