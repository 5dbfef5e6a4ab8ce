package domain

// Session is the client's current authentication state.
// Exactly one exists per running client; see session.Store.
type Session struct {
	User            *User  `json:"user" yaml:"user"`
	Token           string `json:"-" yaml:"-"`
	IsAuthenticated bool   `json:"is_authenticated" yaml:"is_authenticated"`
	IsLoading       bool   `json:"is_loading" yaml:"is_loading"`
}

// AnonymousSession returns the settled signed-out state
func AnonymousSession() Session {
	return Session{}
}

// AuthenticatedSession returns the settled signed-in state for user and token
func AuthenticatedSession(user User, token string) Session {
	return Session{
		User:            &user,
		Token:           token,
		IsAuthenticated: token != "",
	}
}

// Consistent reports whether IsAuthenticated agrees with the presence of
// both a user and a token
func (s Session) Consistent() bool {
	return s.IsAuthenticated == (s.User != nil && s.Token != "")
}

// Clone returns a copy that shares no memory with s
func (s Session) Clone() Session {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}
