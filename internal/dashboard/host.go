package dashboard

import (
	"sync"

	"journal-dashboard/internal/models"
	"journal-dashboard/internal/services"
)

// Factory builds a controller for a signed-in session.
type Factory func(session *models.Session) *Controller

// Host owns the dashboard of the session currently signed in. A new token
// replaces the previous controller and its charts.
type Host struct {
	factory Factory

	mu      sync.Mutex
	token   string
	current *Controller
}

func NewHost(factory Factory) *Host {
	return &Host{factory: factory}
}

// For returns the controller of session, creating it when the token changed.
// The second result is true when the controller was just created and still
// needs an Init.
func (h *Host) For(session *models.Session) (*Controller, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil && h.token == session.Token {
		return h.current, false
	}
	if h.current != nil {
		h.current.Close()
	}
	h.token = session.Token
	h.current = h.factory(session)
	return h.current, true
}

// Current returns the active dashboard as a refresher, or nil when nobody is
// signed in.
func (h *Host) Current() services.Refresher {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return nil
	}
	return h.current
}

// Reset drops the active dashboard.
func (h *Host) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current != nil {
		h.current.Close()
	}
	h.current = nil
	h.token = ""
}
