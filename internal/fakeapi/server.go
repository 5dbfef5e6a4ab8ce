// Package fakeapi is an in-memory implementation of the blog REST API.
// It backs the client's tests and the `scribe sandbox` command.
package fakeapi

import (
	"crypto/rand"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/gateway"
	"github.com/felixgeelhaar/scribe/internal/log"
)

// BasePath is where the API is mounted
const BasePath = "/api/v1"

type account struct {
	user domain.User
	hash []byte
}

type failure struct {
	status  int
	message string
}

// Server holds the API state. All methods are safe for concurrent use.
type Server struct {
	mu       sync.Mutex
	secret   []byte
	now      func() time.Time
	logger   *log.Logger
	tokenTTL time.Duration

	users    map[int64]*account
	posts    map[int64]domain.Post
	comments map[int64]domain.Comment
	revoked  map[string]bool

	nextUser    int64
	nextPost    int64
	nextComment int64

	failures map[string]failure
	hits     map[string]int
}

// Option configures a Server
type Option func(*Server)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithSecret sets the token signing key
func WithSecret(secret []byte) Option {
	return func(s *Server) {
		s.secret = secret
	}
}

// WithLogger logs each request at debug level
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates an empty server
func New(opts ...Option) *Server {
	s := &Server{
		now:      time.Now,
		logger:   log.Discard(),
		tokenTTL: 24 * time.Hour,
		users:    make(map[int64]*account),
		posts:    make(map[int64]domain.Post),
		comments: make(map[int64]domain.Comment),
		revoked:  make(map[string]bool),
		failures: make(map[string]failure),
		hits:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.secret) == 0 {
		s.secret = make([]byte, 32)
		_, _ = rand.Read(s.secret)
	}
	return s
}

// Handler returns the API router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", gateway.RequestIDHeader},
		ExposedHeaders: []string{gateway.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(s.instrument)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found.", nil)
	})

	r.Route(BasePath, func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Post("/logout", s.logout)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", s.listPosts)
				r.Post("/", s.createPost)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.getPost)
					r.Delete("/", s.deletePost)
					r.Get("/comments", s.listComments)
				})
			})

			r.Route("/comments", func(r chi.Router) {
				r.Post("/", s.createComment)
				r.Put("/{id}", s.updateComment)
				r.Delete("/{id}", s.deleteComment)
			})
		})
	})

	return r
}

// instrument echoes the request id, counts hits and applies injected failures
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(gateway.RequestIDHeader, middleware.GetReqID(r.Context()))

		key := routeKey(r.Method, strings.TrimPrefix(r.URL.Path, BasePath))

		s.mu.Lock()
		s.hits[key]++
		f, failing := s.failures[key]
		s.mu.Unlock()

		s.logger.Debug("fake api request", "route", key)

		if failing {
			writeError(w, f.status, f.message, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func routeKey(method, path string) string {
	return method + " " + gateway.Route(path)
}

// FailWith makes every request to route (e.g. "/posts/:id") answer with
// status and message until Recover is called
func (s *Server) FailWith(method, route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+route] = failure{status: status, message: message}
}

// Recover removes every injected failure
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]failure)
}

// Hits returns how many requests reached route (e.g. "/posts/:id/comments")
func (s *Server) Hits(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+route]
}

// AddUser registers a user directly
func (s *Server) AddUser(name, email, password string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, mustHash(password))
}

// AddPost stores a post written by authorID
func (s *Server) AddPost(authorID int64, title, body string) domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPostLocked(authorID, title, body)
}

// AddComment stores a comment on postID written by authorID
func (s *Server) AddComment(postID, authorID int64, body string) domain.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCommentLocked(postID, authorID, body)
}

// Post returns a stored post
func (s *Server) Post(id int64) (domain.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	return p, ok
}

// CommentCount returns how many comments postID has
func (s *Server) CommentCount(postID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.commentsOfLocked(postID))
}

// Stats counts the stored records
type Stats struct {
	Users    int `json:"users"`
	Posts    int `json:"posts"`
	Comments int `json:"comments"`
}

func (s *Server) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Users: len(s.users), Posts: len(s.posts), Comments: len(s.comments)}
}

// Seed fills the server with a demo account and a few pages of posts.
// The demo account is demo@example.com / password.
func (s *Server) Seed() domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	demo := s.addUserLocked("Demo Writer", "demo@example.com", mustHash("password"))
	other := s.addUserLocked("Grace Hopper", "grace@example.com", mustHash("password"))

	for i := 1; i <= 23; i++ {
		author := demo.ID
		if i%3 == 0 {
			author = other.ID
		}
		p := s.addPostLocked(author, seedTitle(i), seedBody(i))
		if i%4 == 0 {
			s.addCommentLocked(p.ID, other.ID, "Great read, thanks for sharing.")
			s.addCommentLocked(p.ID, demo.ID, "Glad you enjoyed it!")
		}
	}
	return demo
}

func (s *Server) addUserLocked(name, email string, hash []byte) domain.User {
	s.nextUser++
	now := domain.NewTimestamp(s.now().UTC())
	u := domain.User{ID: s.nextUser, Name: name, Email: strings.ToLower(email), CreatedAt: now, UpdatedAt: now}
	s.users[u.ID] = &account{user: u, hash: hash}
	return u
}

func (s *Server) addPostLocked(authorID int64, title, body string) domain.Post {
	s.nextPost++
	now := domain.NewTimestamp(s.now().UTC())
	p := domain.Post{
		ID:        s.nextPost,
		Title:     title,
		Body:      body,
		User:      s.authorLocked(authorID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.posts[p.ID] = p
	return p
}

func (s *Server) addCommentLocked(postID, authorID int64, body string) domain.Comment {
	s.nextComment++
	now := domain.NewTimestamp(s.now().UTC())
	c := domain.Comment{
		ID:        s.nextComment,
		PostID:    postID,
		Body:      body,
		User:      s.authorLocked(authorID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.comments[c.ID] = c
	return c
}

func (s *Server) authorLocked(id int64) domain.Author {
	if a, ok := s.users[id]; ok {
		return domain.Author{ID: a.user.ID, Name: a.user.Name}
	}
	return domain.Author{ID: id}
}

func (s *Server) userByEmailLocked(email string) *account {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range s.users {
		if a.user.Email == email {
			return a
		}
	}
	return nil
}

// newest first
func (s *Server) sortedPostsLocked() []domain.Post {
	out := make([]domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// newest first
func (s *Server) commentsOfLocked(postID int64) []domain.Comment {
	var out []domain.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
