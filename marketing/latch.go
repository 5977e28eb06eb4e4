package marketing

// Latch flags record one-way facts about the device ("the user has
// installed Focus at some point"). Each flag starts from whatever the
// probe reports the first time we look, then can only flip false→true,
// firing its event exactly once on the flip. Wiping the preference
// store reseeds the flag from the live probe and the latch can fire
// again.

// seedFlag persists the probe value under key when nothing is stored
// yet. Seeding never fires an event.
func (a *Adapter) seedFlag(key string, probe bool) {
	if _, ok := a.prefs.Bool(key); !ok {
		a.prefs.SetBool(key, probe)
	}
}

// latchFlag flips the stored flag false→true when the probe now reports
// true, firing event on the transition. true→false never happens; an
// absent flag is seeded silently instead of fired.
func (a *Adapter) latchFlag(key string, probe bool, event Event) {
	stored, ok := a.prefs.Bool(key)
	if !ok {
		a.prefs.SetBool(key, probe)
		return
	}
	if probe && !stored {
		a.prefs.SetBool(key, true)
		a.track(event, nil)
	}
}
