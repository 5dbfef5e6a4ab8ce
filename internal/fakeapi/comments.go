package fakeapi

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
)

const maxCommentLength = 500

func validateCommentBody(body string, fields *errors.FieldErrors) {
	switch {
	case strings.TrimSpace(body) == "":
		fields.Add("body", "The body field is required.")
	case utf8.RuneCountInString(body) > maxCommentLength:
		fields.Add("body", "The body must not be greater than 500 characters.")
	}
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found.", nil)
		return
	}

	s.mu.Lock()
	_, exists := s.posts[id]
	comments := s.commentsOfLocked(id)
	s.mu.Unlock()

	if !exists {
		writeError(w, http.StatusNotFound, "Post not found.", nil)
		return
	}

	page := intParam(r, "page", 1)
	perPage := intParam(r, "per_page", 50)
	writeData(w, http.StatusOK, "Comments retrieved successfully", paginate(comments, page, perPage))
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCommentRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var fields errors.FieldErrors
	if req.PostID <= 0 {
		fields.Add("post_id", "The post id field is required.")
	} else if _, exists := s.posts[req.PostID]; !exists {
		fields.Add("post_id", "The selected post id is invalid.")
	}
	validateCommentBody(req.Body, &fields)
	if len(fields) > 0 {
		writeInvalid(w, fields)
		return
	}

	c := s.addCommentLocked(req.PostID, current(r).user.ID, req.Body)
	writeData(w, http.StatusCreated, "Comment created successfully", c)
}

func (s *Server) updateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Comment not found.", nil)
		return
	}

	var req domain.UpdateCommentRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.comments[id]
	if !exists {
		writeError(w, http.StatusNotFound, "Comment not found.", nil)
		return
	}
	if c.User.ID != current(r).user.ID {
		writeError(w, http.StatusForbidden, "This action is unauthorized.", nil)
		return
	}

	var fields errors.FieldErrors
	validateCommentBody(req.Body, &fields)
	if len(fields) > 0 {
		writeInvalid(w, fields)
		return
	}

	c.Body = req.Body
	c.UpdatedAt = domain.NewTimestamp(s.now().UTC())
	s.comments[id] = c
	writeData(w, http.StatusOK, "Comment updated successfully", c)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Comment not found.", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.comments[id]
	if !exists {
		writeError(w, http.StatusNotFound, "Comment not found.", nil)
		return
	}
	if c.User.ID != current(r).user.ID {
		writeError(w, http.StatusForbidden, "This action is unauthorized.", nil)
		return
	}

	delete(s.comments, id)
	writeData[any](w, http.StatusOK, "Comment deleted successfully", nil)
}
