package engage

import "github.com/kiroskirin/firefox-ios/marketing"

// Wire types for the Engage HTTP API. Events carry a client-generated
// idempotency key so server-side retries never double count.

// envelope is one tracked event on the wire. Taxonomy events keep their
// E_ names; campaign branch responses are sent as "A_<argument name>"
// with the template recorded in params.
type envelope struct {
	Event          string            `json:"event"`
	Params         map[string]string `json:"params,omitempty"`
	DeviceID       string            `json:"device_id"`
	AppID          string            `json:"app_id"`
	IdempotencyKey string            `json:"idempotency_key"`
	TimestampMs    int64             `json:"timestamp_ms"`
}

type trackRequest struct {
	Events []envelope `json:"events"`
}

type trackResponse struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
}

type startRequest struct {
	DeviceID    string               `json:"device_id"`
	AppID       string               `json:"app_id"`
	Environment string               `json:"environment"`
	SDKVersion  string               `json:"sdk_version"`
	Attributes  marketing.Attributes `json:"attributes,omitempty"`
}

// startResponse may name action templates the server wants triggered
// right away, e.g. the pre-push permission prompt.
type startResponse struct {
	SessionID string   `json:"session_id,omitempty"`
	Actions   []string `json:"actions,omitempty"`
}

type attributesRequest struct {
	DeviceID   string               `json:"device_id"`
	AppID      string               `json:"app_id"`
	Attributes marketing.Attributes `json:"attributes"`
}
