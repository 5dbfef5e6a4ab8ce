package domain

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreatePostRequest is the body of POST /posts
type CreatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreateCommentRequest is the body of POST /comments
type CreateCommentRequest struct {
	PostID int64  `json:"post_id"`
	Body   string `json:"body"`
}

// UpdateCommentRequest is the body of PUT /comments/:id
type UpdateCommentRequest struct {
	Body string `json:"body"`
}
