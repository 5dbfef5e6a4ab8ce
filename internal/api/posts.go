package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/felixgeelhaar/scribe/internal/domain"
)

// DefaultPerPage is the page size used when none is given
const DefaultPerPage = 10

// PostService covers the posts collection
type PostService struct {
	doer Doer
}

// NewPostService creates a PostService
func NewPostService(d Doer) *PostService {
	return &PostService{doer: d}
}

// GetAll fetches one page of posts. Non-positive arguments fall back to
// page 1 and DefaultPerPage.
func (s *PostService) GetAll(ctx context.Context, page, perPage int) (domain.Page[domain.Post], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	query := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}
	return call[domain.Page[domain.Post]](ctx, s.doer, http.MethodGet, "/posts", query, nil)
}

// GetByID fetches a single post
func (s *PostService) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	return call[domain.Post](ctx, s.doer, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, nil)
}

// Create publishes a new post
func (s *PostService) Create(ctx context.Context, req domain.CreatePostRequest) (domain.Post, error) {
	return call[domain.Post](ctx, s.doer, http.MethodPost, "/posts", nil, req)
}

// Delete removes a post
func (s *PostService) Delete(ctx context.Context, id int64) error {
	return send(ctx, s.doer, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil)
}
