package marketing

// Attributes is a snapshot of user facts reported to the marketing
// platform. A snapshot always replaces the previous server-side state;
// partial updates are not supported by the platform.
type Attributes map[string]any

// clone returns a shallow copy so callers can keep mutating their map
// after handing it to the adapter.
func (a Attributes) clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Prefs is the durable preference store owned by the host profile. The
// adapter persists its latch flags and device identifier through it and
// reads host-owned preferences such as the usage-data opt-out.
//
// Implementations report a miss through ok=false rather than an error;
// a degraded store behaves like an empty one.
type Prefs interface {
	Bool(key string) (value, ok bool)
	SetBool(key string, value bool)
	String(key string) (value string, ok bool)
	SetString(key, value string)
}

// Probes answers live questions about the device the browser runs on.
// All probes are cheap and safe to call repeatedly.
type Probes interface {
	// CanOpenURL reports whether another installed app claims the scheme.
	CanOpenURL(scheme string) bool
	// IsDefaultMailHandler reports whether mailto: links open in this app.
	IsDefaultMailHandler() bool
	// IsSyncSignedIn reports whether the profile has a Sync account.
	IsSyncSignedIn() bool
	// IsPrivateMode reports whether the selected tab is private.
	IsPrivateMode() bool
}

// PushManager drives the OS push-notification permission flow.
type PushManager interface {
	// RequestAuthorization shows the system permission prompt.
	RequestAuthorization()
	// ReadyForSync tells the push machinery to proceed with whatever
	// registration state the OS already granted.
	ReadyForSync()
}

// Dialog describes a two-button modal the host renders on behalf of a
// remote message. Colors are "#RRGGBB" strings.
type Dialog struct {
	Title        string
	TitleColor   string
	Message      string
	MessageColor string
	AcceptText   string
	CancelText   string
}

// DialogPresenter shows a modal dialog over the host's current view and
// reports which button the user chose. Exactly one of the callbacks is
// invoked, possibly from an arbitrary goroutine.
type DialogPresenter interface {
	Present(d Dialog, accept func(), cancel func())
}

// Client is the remote marketing SDK surface the adapter drives. The
// production implementation lives in internal/engage; tests substitute
// recording fakes.
type Client interface {
	// SetIdentity binds the client to an app and device before Start.
	SetIdentity(env Environment, appID, key, deviceID string)

	// SyncResources kicks off an asynchronous refresh of remote
	// interface resources. Failures are the client's to swallow.
	SyncResources()

	// DefineAction registers an action template the server may trigger.
	DefineAction(name string, kind ActionKind, args []ActionArg, responder ActionResponder)

	// Start opens the session and reports the initial attribute
	// snapshot. done is invoked exactly once, possibly before Start
	// returns, and never with the adapter's internal locks held.
	Start(attrs Attributes, done func(err error))

	// Track records one event with optional string parameters.
	Track(event Event, params map[string]string)

	// SetUserAttributes replaces the server-side attribute snapshot.
	SetUserAttributes(attrs Attributes)

	// SetTestMode toggles a non-transmitting mode in which the client
	// accepts calls but sends nothing over the wire.
	SetTestMode(enabled bool)

	// Close releases the client's resources and flushes pending events.
	Close() error
}
