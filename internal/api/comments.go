package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/felixgeelhaar/scribe/internal/domain"
)

// CommentService covers comments on posts
type CommentService struct {
	doer Doer
}

// NewCommentService creates a CommentService
func NewCommentService(d Doer) *CommentService {
	return &CommentService{doer: d}
}

// GetByPost fetches the comments of a post
func (s *CommentService) GetByPost(ctx context.Context, postID int64) (domain.Page[domain.Comment], error) {
	return call[domain.Page[domain.Comment]](ctx, s.doer, http.MethodGet, fmt.Sprintf("/posts/%d/comments", postID), nil, nil)
}

// GetByPostPage fetches one page of the comments of a post. A non-positive
// perPage leaves the page size to the API.
func (s *CommentService) GetByPostPage(ctx context.Context, postID int64, page, perPage int) (domain.Page[domain.Comment], error) {
	if page < 1 {
		page = 1
	}
	query := url.Values{"page": {strconv.Itoa(page)}}
	if perPage > 0 {
		query.Set("per_page", strconv.Itoa(perPage))
	}
	return call[domain.Page[domain.Comment]](ctx, s.doer, http.MethodGet, fmt.Sprintf("/posts/%d/comments", postID), query, nil)
}

// Create adds a comment
func (s *CommentService) Create(ctx context.Context, req domain.CreateCommentRequest) (domain.Comment, error) {
	return call[domain.Comment](ctx, s.doer, http.MethodPost, "/comments", nil, req)
}

// Update replaces a comment's body
func (s *CommentService) Update(ctx context.Context, id int64, req domain.UpdateCommentRequest) (domain.Comment, error) {
	return call[domain.Comment](ctx, s.doer, http.MethodPut, fmt.Sprintf("/comments/%d", id), nil, req)
}

// Delete removes a comment
func (s *CommentService) Delete(ctx context.Context, id int64) error {
	return send(ctx, s.doer, http.MethodDelete, fmt.Sprintf("/comments/%d", id), nil)
}
