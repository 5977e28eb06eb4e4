package marketing

// ActionKind classifies an action template on the Engage dashboard.
type ActionKind int

const (
	// ActionKindMessage is a user-visible message template.
	ActionKindMessage ActionKind = iota + 1
	// ActionKindAction is an invisible automation template.
	ActionKindAction
)

// ArgKind is the dashboard editor type of a template argument.
type ArgKind int

const (
	ArgString ArgKind = iota
	ArgColor
)

// ActionArg declares one argument of an action template together with
// the default used when a campaign leaves it untouched.
type ActionArg struct {
	Name    string
	Kind    ArgKind
	Default string
}

// StringArg declares a free-text template argument.
func StringArg(name, def string) ActionArg {
	return ActionArg{Name: name, Kind: ArgString, Default: def}
}

// ColorArg declares a "#RRGGBB" color template argument.
func ColorArg(name, def string) ActionArg {
	return ActionArg{Name: name, Kind: ArgColor, Default: def}
}

// ActionContext is handed to a responder when the platform triggers its
// action. It serves the campaign's argument values and records which
// branch the user took.
type ActionContext interface {
	// ActionName returns the name of the triggered template.
	ActionName() string
	// StringNamed returns the campaign value of the named argument,
	// falling back to the declared default.
	StringNamed(name string) string
	// RunTrackedAction reports the branch bound to the named argument
	// back to the platform so campaign funnels line up.
	RunTrackedAction(name string)
}

// ActionResponder handles one triggered action. Responders must not
// assume which goroutine they run on.
type ActionResponder func(ctx ActionContext)

// ActionPrePushPermission is the message template shown before the OS
// push-permission prompt. Asking our own question first keeps a "no"
// recoverable: the OS prompt can only be shown once.
const ActionPrePushPermission = "PrePush Permission v1"

// Argument names of the pre-push template, mirrored on the dashboard.
const (
	argTitleText        = "Title.Text"
	argTitleColor       = "Title.Color"
	argMessageText      = "Message.Text"
	argMessageColor     = "Message.Color"
	argAcceptButtonText = "Accept button.Text"
	argCancelButtonText = "Cancel button.Text"
	argAcceptAction     = "Accept action"
	argCancelAction     = "Cancel action"
)

func prePushArgs() []ActionArg {
	return []ActionArg{
		StringArg(argTitleText, "Firefox Sync Requires Push"),
		ColorArg(argTitleColor, "#000000"),
		StringArg(argMessageText, "Firefox will stay in sync faster with Push Notifications enabled."),
		ColorArg(argMessageColor, "#333333"),
		StringArg(argAcceptButtonText, "Enable Notifications"),
		StringArg(argCancelButtonText, "Not Now"),
		StringArg(argAcceptAction, ""),
		StringArg(argCancelAction, ""),
	}
}

// registerActions declares every template the browser understands.
// Registration happens before the client starts so a campaign triggered
// by the start response can already resolve its responder.
func (a *Adapter) registerActions() {
	a.client.DefineAction(ActionPrePushPermission, ActionKindMessage, prePushArgs(), a.onPrePushTriggered)
}

// onPrePushTriggered hops onto the run loop; the client may invoke
// responders from its own goroutines.
func (a *Adapter) onPrePushTriggered(ctx ActionContext) {
	a.loop.dispatch(func() { a.showPrePush(ctx) })
}

func (a *Adapter) showPrePush(ctx ActionContext) {
	if requested, _ := a.prefs.Bool(prefKeyPushRequested); requested {
		// Permission was already decided in a previous session, so
		// there is nothing to ask. Let sync carry on.
		a.log.Debug("push permission already requested, skipping prompt")
		a.push.ReadyForSync()
		return
	}

	d := Dialog{
		Title:        ctx.StringNamed(argTitleText),
		TitleColor:   ctx.StringNamed(argTitleColor),
		Message:      ctx.StringNamed(argMessageText),
		MessageColor: ctx.StringNamed(argMessageColor),
		AcceptText:   ctx.StringNamed(argAcceptButtonText),
		CancelText:   ctx.StringNamed(argCancelButtonText),
	}
	a.dialogs.Present(d,
		func() { a.loop.dispatch(func() { a.acceptPrePush(ctx) }) },
		func() { a.loop.dispatch(func() { a.cancelPrePush(ctx) }) },
	)
}

func (a *Adapter) acceptPrePush(ctx ActionContext) {
	ctx.RunTrackedAction(argAcceptAction)
	a.push.RequestAuthorization()
	a.prefs.SetBool(prefKeyPushRequested, true)
}

func (a *Adapter) cancelPrePush(ctx ActionContext) {
	ctx.RunTrackedAction(argCancelAction)
	a.push.ReadyForSync()
}
