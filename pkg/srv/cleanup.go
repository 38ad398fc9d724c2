package srv

import "context"

// hook is a Service with nothing to start. It releases a resource on
// Shutdown, so it belongs early in the list to run after its users stop.
type hook struct {
	fn func() error
}

func (h hook) Start(context.Context) error { return nil }

func (h hook) Shutdown(context.Context) error {
	if h.fn == nil {
		return nil
	}
	return h.fn()
}

// NewCleanup wraps fn (typically a Close method) as a Service.
func NewCleanup(fn func() error) Service {
	return hook{fn: fn}
}
