package marketing

import (
	"sync"
)

// fakePrefs is an in-memory Prefs implementation.
type fakePrefs struct {
	mu      sync.Mutex
	bools   map[string]bool
	strings map[string]string
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{
		bools:   make(map[string]bool),
		strings: make(map[string]string),
	}
}

func (p *fakePrefs) Bool(key string) (bool, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.bools[key]
	return v, ok
}

func (p *fakePrefs) SetBool(key string, value bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bools[key] = value
}

func (p *fakePrefs) String(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.strings[key]
	return v, ok
}

func (p *fakePrefs) SetString(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strings[key] = value
}

// fakeProbes answers device questions from settable fields.
type fakeProbes struct {
	mu          sync.Mutex
	schemes     map[string]bool
	defaultMail bool
	signedIn    bool
	private     bool
}

func newFakeProbes() *fakeProbes {
	return &fakeProbes{schemes: make(map[string]bool)}
}

func (p *fakeProbes) setScheme(scheme string, installed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.schemes[scheme] = installed
}

func (p *fakeProbes) setPrivate(private bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.private = private
}

func (p *fakeProbes) CanOpenURL(scheme string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.schemes[scheme]
}

func (p *fakeProbes) IsDefaultMailHandler() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.defaultMail
}

func (p *fakeProbes) IsSyncSignedIn() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signedIn
}

func (p *fakeProbes) IsPrivateMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.private
}

// fakePush counts permission-flow calls.
type fakePush struct {
	mu             sync.Mutex
	authorizations int
	readyForSync   int
}

func (p *fakePush) RequestAuthorization() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.authorizations++
}

func (p *fakePush) ReadyForSync() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readyForSync++
}

func (p *fakePush) counts() (authorizations, readyForSync int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.authorizations, p.readyForSync
}

// fakeDialogs records presentations and lets the test press a button.
type fakeDialogs struct {
	mu        sync.Mutex
	presented []Dialog
	accept    func()
	cancel    func()
}

func (d *fakeDialogs) Present(dialog Dialog, accept, cancel func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.presented = append(d.presented, dialog)
	d.accept = accept
	d.cancel = cancel
}

func (d *fakeDialogs) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.presented)
}

func (d *fakeDialogs) last() Dialog {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.presented[len(d.presented)-1]
}

func (d *fakeDialogs) tapAccept() {
	d.mu.Lock()
	accept := d.accept
	d.mu.Unlock()
	accept()
}

func (d *fakeDialogs) tapCancel() {
	d.mu.Lock()
	cancel := d.cancel
	d.mu.Unlock()
	cancel()
}

// fakeClient records every SDK call the adapter makes.
type fakeClient struct {
	mu         sync.Mutex
	env        Environment
	appID      string
	key        string
	deviceID   string
	syncs      int
	actions    map[string]fakeAction
	starts     int
	startErr   error
	startAttrs Attributes
	tracked    []trackedCall
	attrSets   []Attributes
	testModes  []bool
	closes     int
}

type fakeAction struct {
	kind      ActionKind
	args      []ActionArg
	responder ActionResponder
}

type trackedCall struct {
	event  Event
	params map[string]string
}

func newFakeClient() *fakeClient {
	return &fakeClient{actions: make(map[string]fakeAction)}
}

func (c *fakeClient) SetIdentity(env Environment, appID, key, deviceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.env, c.appID, c.key, c.deviceID = env, appID, key, deviceID
}

func (c *fakeClient) SyncResources() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncs++
}

func (c *fakeClient) DefineAction(name string, kind ActionKind, args []ActionArg, responder ActionResponder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions[name] = fakeAction{kind: kind, args: args, responder: responder}
}

func (c *fakeClient) Start(attrs Attributes, done func(error)) {
	c.mu.Lock()
	c.starts++
	c.startAttrs = attrs
	err := c.startErr
	c.mu.Unlock()
	done(err)
}

func (c *fakeClient) Track(event Event, params map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracked = append(c.tracked, trackedCall{event: event, params: params})
}

func (c *fakeClient) SetUserAttributes(attrs Attributes) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrSets = append(c.attrSets, attrs)
}

func (c *fakeClient) SetTestMode(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.testModes = append(c.testModes, enabled)
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

func (c *fakeClient) startCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starts
}

func (c *fakeClient) syncCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncs
}

func (c *fakeClient) identity() (Environment, string, string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.env, c.appID, c.key, c.deviceID
}

func (c *fakeClient) trackedEvents() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.tracked))
	for i, tc := range c.tracked {
		out[i] = tc.event
	}
	return out
}

func (c *fakeClient) trackedCalls() []trackedCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]trackedCall, len(c.tracked))
	copy(out, c.tracked)
	return out
}

func (c *fakeClient) attributeSets() []Attributes {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Attributes, len(c.attrSets))
	copy(out, c.attrSets)
	return out
}

func (c *fakeClient) testModeHistory() []bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]bool, len(c.testModes))
	copy(out, c.testModes)
	return out
}

func (c *fakeClient) responder(name string) ActionResponder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actions[name].responder
}

func (c *fakeClient) actionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.actions)
}

// countEvents returns how many times event appears in tracked calls.
func (c *fakeClient) countEvents(event Event) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, tc := range c.tracked {
		if tc.event == event {
			n++
		}
	}
	return n
}

// fakeActionContext stands in for a campaign-provided context.
type fakeActionContext struct {
	name    string
	values  map[string]string
	mu      sync.Mutex
	tracked []string
}

func newFakeActionContext(name string, values map[string]string) *fakeActionContext {
	if values == nil {
		values = make(map[string]string)
	}
	return &fakeActionContext{name: name, values: values}
}

func (x *fakeActionContext) ActionName() string { return x.name }

func (x *fakeActionContext) StringNamed(name string) string { return x.values[name] }

func (x *fakeActionContext) RunTrackedAction(name string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.tracked = append(x.tracked, name)
}

func (x *fakeActionContext) trackedActions() []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := make([]string, len(x.tracked))
	copy(out, x.tracked)
	return out
}
