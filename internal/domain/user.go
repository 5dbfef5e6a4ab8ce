package domain

import "fmt"

// User is the identity record returned by the API on register and login.
// The client never edits it; a new record only arrives through re-authentication.
type User struct {
	ID        int64     `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	CreatedAt Timestamp `json:"created_at" yaml:"created_at"`
	UpdatedAt Timestamp `json:"updated_at" yaml:"updated_at"`
}

// Validate checks the fields a stored user record must carry to be usable
func (u User) Validate() error {
	if u.ID <= 0 {
		return fmt.Errorf("invalid user id %d", u.ID)
	}
	if u.Name == "" && u.Email == "" {
		return fmt.Errorf("user %d has neither name nor email", u.ID)
	}
	return nil
}

// Author is the abbreviated user embedded in posts and comments
type Author struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// AuthData is the payload of a successful register or login call
type AuthData struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// owns reports whether u is the author identified by authorID.
// Ownership only gates which controls are shown; the API enforces it.
func owns(u *User, authorID int64) bool {
	return u != nil && u.ID == authorID
}
