package resource

import (
	"strconv"
	"strings"
)

// Route is an application view, addressed by path
type Route string

// Views of the application
const (
	RouteHome       Route = "/"
	RouteLogin      Route = "/login"
	RouteRegister   Route = "/register"
	RouteFeed       Route = "/feed"
	RouteCreatePost Route = "/posts/create"
	RouteNotFound   Route = "/404"
)

// PostRoute is the detail view of post id
func PostRoute(id int64) Route {
	return Route("/posts/" + strconv.FormatInt(id, 10))
}

// PostID returns the post a detail route points at
func (r Route) PostID() (int64, bool) {
	rest, ok := strings.CutPrefix(string(r), "/posts/")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// IsAuth reports whether r is the login or register view
func (r Route) IsAuth() bool {
	return r == RouteLogin || r == RouteRegister
}

// RequiresAuth reports whether r is only reachable when signed in
func (r Route) RequiresAuth() bool {
	if r == RouteFeed || r == RouteCreatePost {
		return true
	}
	_, ok := r.PostID()
	return ok
}

// Resolve maps a path onto a known route, or RouteNotFound
func Resolve(path string) Route {
	if path == "" {
		return RouteHome
	}
	r := Route("/" + strings.Trim(path, "/"))
	switch r {
	case RouteHome, RouteLogin, RouteRegister, RouteFeed, RouteCreatePost:
		return r
	}
	if id, ok := r.PostID(); ok {
		return PostRoute(id)
	}
	return RouteNotFound
}

// Guard redirects signed-out users away from protected views and signed-in
// users away from login and register
func Guard(r Route, authenticated bool) Route {
	switch {
	case r.RequiresAuth() && !authenticated:
		return RouteLogin
	case r.IsAuth() && authenticated:
		return RouteFeed
	default:
		return r
	}
}

// Navigator moves the user between views
type Navigator interface {
	Navigate(Route)
	Current() Route
	ScrollToTop()
}

// UnauthorizedHandler returns the gateway's 401 callback: the session is
// reset and, unless the user is already on an auth view, sent to login
func UnauthorizedHandler(session SessionStore, nav Navigator) func() {
	return func() {
		session.ClearAuth()
		if nav != nil && !nav.Current().IsAuth() {
			nav.Navigate(RouteLogin)
		}
	}
}
