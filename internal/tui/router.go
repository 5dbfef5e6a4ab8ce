package tui

import (
	"sync"

	"github.com/felixgeelhaar/scribe/internal/resource"
)

// Router is the terminal UI's resource.Navigator. Hooks and the gateway's
// 401 handler call it from command goroutines; the model picks the new
// route up on its next update.
type Router struct {
	mu      sync.Mutex
	current resource.Route
	scroll  bool
}

// NewRouter starts at route
func NewRouter(route resource.Route) *Router {
	return &Router{current: route}
}

// Navigate switches to route
func (r *Router) Navigate(route resource.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = route
}

// Current returns the route being shown
func (r *Router) Current() resource.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// ScrollToTop asks the active list to move its cursor back to the first row
func (r *Router) ScrollToTop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scroll = true
}

// takeScroll reports and resets a pending ScrollToTop
func (r *Router) takeScroll() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.scroll
	r.scroll = false
	return s
}

var _ resource.Navigator = (*Router)(nil)
