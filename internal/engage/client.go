// Package engage is the production implementation of the marketing
// client: a batching HTTP SDK for the Engage marketing platform.
//
// The client never surfaces transport failures to its callers. Batches
// that cannot be delivered after retries are dropped with a log line;
// the browser keeps running either way.
package engage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kiroskirin/firefox-ios/marketing"
)

// Client talks to an Engage-compatible server. It satisfies
// marketing.Client and is safe for concurrent use.
type Client struct {
	cfg       Config
	transport *httpTransport
	batcher   *batcher
	log       *slog.Logger

	mu       sync.Mutex
	id       identity
	bound    bool
	testMode bool
	actions  map[string]actionDef

	ctx       context.Context
	cancel    context.CancelFunc
	doneCh    chan struct{}
	closeOnce sync.Once
}

type identity struct {
	environment marketing.Environment
	appID       string
	key         string
	deviceID    string
}

type actionDef struct {
	kind      marketing.ActionKind
	args      []marketing.ActionArg
	responder marketing.ActionResponder
}

// New creates a client and starts its background flush loop. Call
// Close to flush remaining events and stop the goroutine.
func New(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	log := cfg.Logger.With("component", "engage")
	transport := newHTTPTransport(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		cfg:       cfg,
		transport: transport,
		batcher:   newBatcher(cfg.BatchSize, transport, log),
		log:       log,
		actions:   make(map[string]actionDef),
		ctx:       ctx,
		cancel:    cancel,
		doneCh:    make(chan struct{}),
	}

	go c.batcher.flushLoop(ctx, cfg.FlushInterval, c.apiKey, c.doneCh)
	return c, nil
}

// SetIdentity binds the client to an app registration and device.
func (c *Client) SetIdentity(env marketing.Environment, appID, key, deviceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = identity{environment: env, appID: appID, key: key, deviceID: deviceID}
	c.bound = true
}

func (c *Client) identitySnapshot() (identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id, c.bound
}

func (c *Client) apiKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id.key
}

func (c *Client) isTestMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.testMode
}

// SetTestMode toggles the non-transmitting mode. Entering it discards
// the queued batch so nothing leaks out after the user opted out.
func (c *Client) SetTestMode(enabled bool) {
	c.mu.Lock()
	c.testMode = enabled
	c.mu.Unlock()

	if enabled {
		if dropped := c.batcher.drain(); len(dropped) > 0 {
			c.log.Debug("test mode on, discarded queued events", "count", len(dropped))
		}
	}
}

// SyncResources refreshes remote interface resources in the background.
func (c *Client) SyncResources() {
	if c.isTestMode() {
		return
	}
	id, bound := c.identitySnapshot()
	if !bound {
		c.log.Warn("resource sync before identity was set")
		return
	}
	go func() {
		if err := c.transport.get(c.ctx, "/v1/sdk/resources", id.key, nil); err != nil {
			c.log.Warn("resource sync failed", "error", err)
			return
		}
		c.log.Debug("resources synced")
	}()
}

// DefineAction registers an action template and its responder. The
// server refers to templates by name when it triggers them.
func (c *Client) DefineAction(name string, kind marketing.ActionKind, args []marketing.ActionArg, responder marketing.ActionResponder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions[name] = actionDef{kind: kind, args: args, responder: responder}
}

// Start opens the session, reporting the initial attribute snapshot.
// done runs exactly once. Actions named by the server are triggered
// after done returns.
func (c *Client) Start(attrs marketing.Attributes, done func(err error)) {
	if done == nil {
		done = func(error) {}
	}
	if c.isTestMode() {
		c.log.Debug("test mode, skipping session start")
		done(nil)
		return
	}
	id, bound := c.identitySnapshot()
	if !bound {
		c.log.Warn("session start before identity was set")
		done(nil)
		return
	}

	go func() {
		req := startRequest{
			DeviceID:    id.deviceID,
			AppID:       id.appID,
			Environment: string(id.environment),
			SDKVersion:  sdkVersion,
			Attributes:  attrs,
		}
		var resp startResponse
		err := c.transport.post(c.ctx, "/v1/sdk/start", id.key, req, &resp)
		done(err)
		if err != nil {
			c.log.Warn("session start failed", "error", err)
			return
		}
		c.log.Debug("session started", "session_id", resp.SessionID, "actions", len(resp.Actions))
		for _, name := range resp.Actions {
			c.runAction(name)
		}
	}()
}

const sdkVersion = "1.4.0"

// Track enqueues one event for batched delivery. Non-blocking.
func (c *Client) Track(event marketing.Event, params map[string]string) {
	c.enqueue(string(event), params)
}

func (c *Client) enqueue(event string, params map[string]string) {
	c.mu.Lock()
	if c.testMode {
		c.mu.Unlock()
		c.log.Debug("test mode, dropping event", "event", event)
		return
	}
	id := c.id
	c.mu.Unlock()

	e := envelope{
		Event:          event,
		Params:         params,
		DeviceID:       id.deviceID,
		AppID:          id.appID,
		IdempotencyKey: uuid.New().String(),
		TimestampMs:    time.Now().UnixMilli(),
	}
	if c.batcher.add(e) {
		go func() {
			_ = c.batcher.flush(c.ctx, c.apiKey())
		}()
	}
}

// SetUserAttributes replaces the server-side attribute snapshot.
func (c *Client) SetUserAttributes(attrs marketing.Attributes) {
	if c.isTestMode() {
		return
	}
	id, bound := c.identitySnapshot()
	if !bound {
		return
	}
	go func() {
		req := attributesRequest{DeviceID: id.deviceID, AppID: id.appID, Attributes: attrs}
		if err := c.transport.post(c.ctx, "/v1/sdk/attributes", id.key, req, nil); err != nil {
			c.log.Warn("attribute update failed", "error", err)
		}
	}()
}

// Flush synchronously delivers the queued events.
func (c *Client) Flush() error {
	if c.isTestMode() {
		return nil
	}
	return c.batcher.flush(context.Background(), c.apiKey())
}

// Close stops the flush loop and delivers any remaining events. Safe to
// call multiple times.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		<-c.doneCh
		err = c.Flush()
	})
	return err
}
