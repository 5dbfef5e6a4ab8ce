package domain

// Post is a blog post owned by exactly one author
type Post struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Body      string    `json:"body" yaml:"body"`
	User      Author    `json:"user" yaml:"author"`
	CreatedAt Timestamp `json:"created_at" yaml:"created_at"`
	UpdatedAt Timestamp `json:"updated_at" yaml:"updated_at"`
}

// OwnedBy reports whether u wrote the post
func (p Post) OwnedBy(u *User) bool {
	return owns(u, p.User.ID)
}

// Comment belongs to exactly one post
type Comment struct {
	ID        int64     `json:"id" yaml:"id"`
	PostID    int64     `json:"post_id" yaml:"post_id"`
	Body      string    `json:"body" yaml:"body"`
	User      Author    `json:"user" yaml:"author"`
	CreatedAt Timestamp `json:"created_at" yaml:"created_at"`
	UpdatedAt Timestamp `json:"updated_at" yaml:"updated_at"`
}

// OwnedBy reports whether u wrote the comment
func (c Comment) OwnedBy(u *User) bool {
	return owns(u, c.User.ID)
}
