package fakeapi

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
)

const maxPerPage = 100

func intParam(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func paginate[T any](items []T, page, perPage int) domain.Page[T] {
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	total := len(items)
	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	data := make([]T, end-start)
	copy(data, items[start:end])
	return domain.Page[T]{
		Data: data,
		Meta: domain.PageMeta{CurrentPage: page, LastPage: last, PerPage: perPage, Total: total},
	}
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	page := intParam(r, "page", 1)
	perPage := intParam(r, "per_page", 10)

	s.mu.Lock()
	posts := s.sortedPostsLocked()
	s.mu.Unlock()

	writeData(w, http.StatusOK, "Posts retrieved successfully", paginate(posts, page, perPage))
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found.", nil)
		return
	}

	s.mu.Lock()
	p, exists := s.posts[id]
	s.mu.Unlock()

	if !exists {
		writeError(w, http.StatusNotFound, "Post not found.", nil)
		return
	}
	writeData(w, http.StatusOK, "Post retrieved successfully", p)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePostRequest
	if !decode(w, r, &req) {
		return
	}

	var fields errors.FieldErrors
	title := strings.TrimSpace(req.Title)
	switch {
	case title == "":
		fields.Add("title", "The title field is required.")
	case utf8.RuneCountInString(title) > 255:
		fields.Add("title", "The title must not be greater than 255 characters.")
	}
	if strings.TrimSpace(req.Body) == "" {
		fields.Add("body", "The body field is required.")
	}
	if len(fields) > 0 {
		writeInvalid(w, fields)
		return
	}

	s.mu.Lock()
	p := s.addPostLocked(current(r).user.ID, title, req.Body)
	s.mu.Unlock()

	writeData(w, http.StatusCreated, "Post created successfully", p)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found.", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists {
		writeError(w, http.StatusNotFound, "Post not found.", nil)
		return
	}
	if p.User.ID != current(r).user.ID {
		writeError(w, http.StatusForbidden, "This action is unauthorized.", nil)
		return
	}

	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	writeData[any](w, http.StatusOK, "Post deleted successfully", nil)
}
