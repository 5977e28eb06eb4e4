// Package marketing integrates the browser with the Engage marketing
// platform. It starts the SDK at most once per launch, forwards a fixed
// event taxonomy, maintains one-way companion-app flags, and handles
// the pre-push permission prompt that Engage campaigns trigger.
//
// All adapter work runs on an internal run loop, mirroring the host
// app's main-thread rule, so no operation blocks the caller. Marketing
// must never break browsing: every failure is logged and swallowed.
package marketing

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Config assembles everything the adapter needs from the host.
type Config struct {
	// Settings are the build-time Engage credentials.
	Settings Settings

	// Locale is the device locale, e.g. "en_US" or "en-US".
	Locale string

	Prefs   Prefs
	Probes  Probes
	Push    PushManager
	Dialogs DialogPresenter
	Client  Client

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// QueueSize bounds the run-loop backlog; 0 means the default.
	QueueSize int
}

func (c Config) validate() error {
	switch {
	case c.Prefs == nil:
		return fmt.Errorf("prefs store is required")
	case c.Probes == nil:
		return fmt.Errorf("device probes are required")
	case c.Push == nil:
		return fmt.Errorf("push manager is required")
	case c.Dialogs == nil:
		return fmt.Errorf("dialog presenter is required")
	case c.Client == nil:
		return fmt.Errorf("marketing client is required")
	}
	return nil
}

// Adapter owns the browser's side of the Engage integration. Construct
// one per profile with New and shut it down with Close.
type Adapter struct {
	settings Settings
	locale   string

	prefs   Prefs
	probes  Probes
	push    PushManager
	dialogs DialogPresenter
	client  Client
	log     *slog.Logger

	loop *runLoop

	// Loop-confined state. Only tasks running on the loop touch these.
	enabled      bool
	started      bool
	startHandled bool

	closeOnce sync.Once
	closeErr  error
}

// New wires up the adapter and starts its run loop. Missing
// collaborators are a programming error and fail construction; invalid
// settings are not, they just keep Start inert.
func New(cfg Config) (*Adapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("marketing: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &Adapter{
		settings: cfg.Settings,
		locale:   cfg.Locale,
		prefs:    cfg.Prefs,
		probes:   cfg.Probes,
		push:     cfg.Push,
		dialogs:  cfg.Dialogs,
		client:   cfg.Client,
		log:      logger.With("component", "marketing"),
		loop:     newRunLoop(cfg.QueueSize),
		enabled:  ShouldEnable(cfg.Prefs),
	}
	a.loop.start()
	return a, nil
}

// ShouldEnable reports whether the integration should run at all: the
// build must carry the feature and the user must not have switched off
// "send usage data". An unset preference counts as consent, matching
// the default state of the settings screen.
func ShouldEnable(prefs Prefs) bool {
	if !featureFlag {
		return false
	}
	if v, ok := prefs.Bool(PrefKeySendUsageData); ok {
		return v
	}
	return true
}

// Start brings the SDK up. Safe to call from any goroutine and safe to
// call repeatedly; only the first successful attempt starts the SDK.
// Unmet preconditions (unsupported locale, bad settings, disabled
// integration) log and leave the adapter inert.
func (a *Adapter) Start() {
	a.loop.dispatch(a.start)
}

func (a *Adapter) start() {
	switch {
	case a.started:
		a.log.Debug("marketing already started")
		return
	case !a.enabled:
		a.log.Debug("marketing disabled, not starting")
		return
	case !localeSupported(a.locale):
		a.log.Info("locale not supported, marketing stays off", "locale", a.locale)
		return
	}
	if err := a.settings.validate(); err != nil {
		a.log.Info("invalid marketing settings, marketing stays off", "error", err)
		return
	}

	a.client.SetIdentity(a.settings.Environment, a.settings.AppID, a.settings.Key, a.deviceID())
	a.client.SyncResources()

	// Record what is installed right now so the post-start latch pass
	// only reports changes, not the preexisting state.
	a.seedFlag(prefKeyFocusInstalled, a.probes.CanOpenURL(schemeFocus))
	a.seedFlag(prefKeyPocketInstalled, a.probes.CanOpenURL(schemePocket))

	a.registerActions()

	a.started = true
	a.client.Start(a.attributeSnapshot(), func(err error) {
		a.loop.dispatch(func() { a.startDone(err) })
	})
}

// startDone runs once per process after the SDK session opened.
func (a *Adapter) startDone(err error) {
	if a.startHandled {
		return
	}
	a.startHandled = true

	if err != nil {
		a.log.Warn("marketing start failed", "error", err)
		return
	}
	a.log.Info("marketing started",
		"environment", string(a.settings.Environment),
		"app_id", a.settings.AppID,
	)

	a.track(EventOpenedApp, nil)

	// At most one of the run milestones fires per launch. First run is
	// "onboarding not seen yet"; second run is the first launch after
	// onboarding, recorded through its own flag.
	if _, seen := a.prefs.Bool(PrefKeyIntroSeen); !seen {
		a.track(EventFirstRun, nil)
	} else if _, ok := a.prefs.Bool(prefKeySecondRunSeen); !ok {
		a.prefs.SetBool(prefKeySecondRunSeen, true)
		a.track(EventSecondRun, nil)
	}

	a.latchFlag(prefKeyFocusInstalled, a.probes.CanOpenURL(schemeFocus), EventDownloadedFocus)
	a.latchFlag(prefKeyPocketInstalled, a.probes.CanOpenURL(schemePocket), EventDownloadedPocket)
}

// deviceID returns the persisted ad-hoc device identifier, minting one
// on first use. Development builds surface it on the Engage dashboard
// so test devices can be targeted.
func (a *Adapter) deviceID() string {
	if id, ok := a.prefs.String(prefKeyDeviceID); ok && id != "" {
		return id
	}
	id := uuid.New().String()
	a.prefs.SetString(prefKeyDeviceID, id)
	return id
}

// attributeSnapshot reads every probe-derived user attribute.
func (a *Adapter) attributeSnapshot() Attributes {
	return Attributes{
		AttributeFocusInstalled:  a.probes.CanOpenURL(schemeFocus),
		AttributeKlarInstalled:   a.probes.CanOpenURL(schemeKlar),
		AttributePocketInstalled: a.probes.CanOpenURL(schemePocket),
		AttributeSignedInSync:    a.probes.IsSyncSignedIn(),
		AttributeMailtoIsDefault: a.probes.IsDefaultMailHandler(),
	}
}

// Track forwards one event to the platform. It is a silent no-op while
// the integration is disabled, before the SDK started, in private
// browsing, or for events outside the taxonomy.
func (a *Adapter) Track(event Event, params map[string]string) {
	a.loop.dispatch(func() { a.track(event, params) })
}

func (a *Adapter) track(event Event, params map[string]string) {
	if !a.canSend() {
		return
	}
	if !event.Valid() {
		a.log.Warn("dropping unknown marketing event", "event", string(event))
		return
	}
	a.client.Track(event, params)
}

// SetAttributes replaces the server-side user attribute snapshot. The
// same guards as Track apply.
func (a *Adapter) SetAttributes(attrs Attributes) {
	snapshot := attrs.clone()
	a.loop.dispatch(func() { a.setAttributes(snapshot) })
}

func (a *Adapter) setAttributes(attrs Attributes) {
	if !a.canSend() {
		return
	}
	a.client.SetUserAttributes(attrs)
}

func (a *Adapter) canSend() bool {
	switch {
	case !a.enabled:
		return false
	case !a.started:
		return false
	case a.probes.IsPrivateMode():
		return false
	}
	return true
}

// SetEnabled follows the host's "send usage data" toggle. Disabling
// suppresses every future Track and SetAttributes call and flips the
// client into its non-transmitting test mode; enabling reverses that
// and starts the SDK if it never started.
func (a *Adapter) SetEnabled(enabled bool) {
	a.loop.dispatch(func() { a.setEnabled(enabled) })
}

func (a *Adapter) setEnabled(enabled bool) {
	if a.enabled == enabled {
		return
	}
	a.enabled = enabled
	a.client.SetTestMode(!enabled)
	a.log.Info("marketing toggled", "enabled", enabled)
	if enabled && !a.started {
		a.start()
	}
}

// Close runs the remaining queued work, stops the run loop, and closes
// the client. The adapter must not be used afterwards.
func (a *Adapter) Close() error {
	a.closeOnce.Do(func() {
		a.loop.stop()
		a.closeErr = a.client.Close()
	})
	return a.closeErr
}
