package marketing

// Event identifies one trackable user action. The names are the wire
// values the Engage dashboard filters on, so they never change once
// shipped, even when the in-app feature is renamed.
type Event string

const (
	EventFirstRun              Event = "E_First_Run"
	EventSecondRun             Event = "E_Second_Run"
	EventOpenedApp             Event = "E_Opened_App"
	EventDismissedOnboarding   Event = "E_Dismissed_Onboarding"
	EventOpenedNewTab          Event = "E_Opened_New_Tab"
	EventOpenedBookmark        Event = "E_Opened_Bookmark"
	EventSavedBookmark         Event = "E_Saved_Bookmark"
	EventInteractedWithURLBar  Event = "E_Interacted_With_Search_URL_Area"
	EventPerformedSearch       Event = "E_Performed_Search"
	EventOpenedTelephoneLink   Event = "E_Opened_Telephone_Link"
	EventOpenedMailtoLink      Event = "E_Opened_Mailto_Link"
	EventSavedImage            Event = "E_Saved_Image"
	EventSavedLoginAndPassword Event = "E_Saved_Login_And_Password"
	EventClearedPrivateData    Event = "E_Cleared_Private_Data"
	EventSharedWebPage         Event = "E_Shared_Web_Page"
	EventUsedReaderView        Event = "E_Used_Reader_View"
	EventOpenedPocketStory     Event = "E_Opened_Pocket_Story"
	EventSignedInToSync        Event = "E_Signed_In_To_Sync"
	EventDownloadedFocus       Event = "E_User_Downloaded_Focus"
	EventDownloadedPocket      Event = "E_User_Downloaded_Pocket"
)

var validEvents = map[Event]struct{}{
	EventFirstRun:              {},
	EventSecondRun:             {},
	EventOpenedApp:             {},
	EventDismissedOnboarding:   {},
	EventOpenedNewTab:          {},
	EventOpenedBookmark:        {},
	EventSavedBookmark:         {},
	EventInteractedWithURLBar:  {},
	EventPerformedSearch:       {},
	EventOpenedTelephoneLink:   {},
	EventOpenedMailtoLink:      {},
	EventSavedImage:            {},
	EventSavedLoginAndPassword: {},
	EventClearedPrivateData:    {},
	EventSharedWebPage:         {},
	EventUsedReaderView:        {},
	EventOpenedPocketStory:     {},
	EventSignedInToSync:        {},
	EventDownloadedFocus:       {},
	EventDownloadedPocket:      {},
}

// Valid reports whether e belongs to the tracked taxonomy. Unknown
// events are dropped before they reach the wire.
func (e Event) Valid() bool {
	_, ok := validEvents[e]
	return ok
}

// User attribute names as they appear on the Engage dashboard.
const (
	AttributeFocusInstalled  = "Focus Installed"
	AttributeKlarInstalled   = "Klar Installed"
	AttributePocketInstalled = "Pocket Installed"
	AttributeSignedInSync    = "Signed In Sync"
	AttributeMailtoIsDefault = "Mailto Is Default"
)

// URL schemes probed to detect companion apps.
const (
	schemeFocus  = "firefox-focus://"
	schemeKlar   = "firefox-klar://"
	schemePocket = "pocket://"
)

// Preference keys. PrefKeyIntroSeen and PrefKeySendUsageData are owned
// by the host and only read here; the marketing.* keys are private to
// the adapter.
const (
	PrefKeyIntroSeen     = "IntroViewControllerSeen"
	PrefKeySendUsageData = "settings.sendUsageData"

	prefKeySecondRunSeen   = "marketing.secondRunSeen"
	prefKeyFocusInstalled  = "marketing.hasFocusInstalled"
	prefKeyPocketInstalled = "marketing.hasPocketInstalled"
	prefKeyPushRequested   = "marketing.pushPermissionRequested"
	prefKeyDeviceID        = "marketing.deviceID"
)
