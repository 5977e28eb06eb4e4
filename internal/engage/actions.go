package engage

import "github.com/kiroskirin/firefox-ios/marketing"

// runAction resolves a server-triggered action template and invokes its
// responder on a fresh goroutine. Unknown names are logged and ignored;
// the server may know templates this build never registered.
func (c *Client) runAction(name string) {
	c.mu.Lock()
	def, ok := c.actions[name]
	c.mu.Unlock()

	if !ok {
		c.log.Warn("server triggered unknown action", "action", name)
		return
	}

	values := make(map[string]string, len(def.args))
	for _, arg := range def.args {
		values[arg.Name] = arg.Default
	}
	// Campaign argument overrides would be merged here; the start
	// response currently carries template names only.

	go def.responder(&actionContext{client: c, name: name, values: values})
}

// actionContext is the campaign context handed to responders. It serves
// argument values and reports chosen branches back as A_ events.
type actionContext struct {
	client *Client
	name   string
	values map[string]string
}

func (x *actionContext) ActionName() string { return x.name }

func (x *actionContext) StringNamed(name string) string { return x.values[name] }

func (x *actionContext) RunTrackedAction(name string) {
	x.client.enqueue("A_"+name, map[string]string{"template": x.name})
}

// actionContext satisfies marketing.ActionContext.
var _ marketing.ActionContext = (*actionContext)(nil)
