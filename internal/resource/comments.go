package resource

import (
	"context"

	"github.com/felixgeelhaar/scribe/internal/domain"
)

// Comments holds the comment list of one post. Writes edit the list only
// after the API confirmed them, and never trigger a refetch.
type Comments struct {
	svc    CommentService
	postID int64
	fetch  *fetcher[[]domain.Comment]
}

// NewComments creates the comment state for postID
func NewComments(svc CommentService, postID int64, onChange ...func()) *Comments {
	var fn func()
	if len(onChange) > 0 {
		fn = onChange[0]
	}
	return &Comments{svc: svc, postID: postID, fetch: newFetcher[[]domain.Comment](fn)}
}

// PostID returns the post the comments belong to
func (c *Comments) PostID() int64 {
	return c.postID
}

// Load fetches the comments
func (c *Comments) Load(ctx context.Context) error {
	_, err := c.fetch.run(ctx, func(ctx context.Context) ([]domain.Comment, error) {
		page, err := c.svc.GetByPost(ctx, c.postID)
		if err != nil {
			return nil, err
		}
		if page.Data == nil {
			return []domain.Comment{}, nil
		}
		return page.Data, nil
	})
	return err
}

// Refetch reloads the comments
func (c *Comments) Refetch(ctx context.Context) error {
	return c.Load(ctx)
}

// Add creates a comment and puts it first in the list
func (c *Comments) Add(ctx context.Context, body string) (domain.Comment, error) {
	created, err := c.svc.Create(ctx, domain.CreateCommentRequest{PostID: c.postID, Body: body})
	if err != nil {
		c.fetch.fail(err)
		return domain.Comment{}, err
	}

	c.fetch.update(func(s *State[[]domain.Comment]) {
		next := make([]domain.Comment, 0, len(s.Data)+1)
		next = append(next, created)
		s.Data = append(next, s.Data...)
		s.Err, s.Cause = "", nil
	})
	return created, nil
}

// Update edits a comment and replaces it in place
func (c *Comments) Update(ctx context.Context, id int64, body string) (domain.Comment, error) {
	updated, err := c.svc.Update(ctx, id, domain.UpdateCommentRequest{Body: body})
	if err != nil {
		c.fetch.fail(err)
		return domain.Comment{}, err
	}

	c.fetch.update(func(s *State[[]domain.Comment]) {
		next := make([]domain.Comment, len(s.Data))
		for i, existing := range s.Data {
			if existing.ID == id {
				next[i] = updated
			} else {
				next[i] = existing
			}
		}
		s.Data = next
		s.Err, s.Cause = "", nil
	})
	return updated, nil
}

// Delete removes a comment and drops it from the list
func (c *Comments) Delete(ctx context.Context, id int64) error {
	if err := c.svc.Delete(ctx, id); err != nil {
		c.fetch.fail(err)
		return err
	}

	c.fetch.update(func(s *State[[]domain.Comment]) {
		next := make([]domain.Comment, 0, len(s.Data))
		for _, existing := range s.Data {
			if existing.ID != id {
				next = append(next, existing)
			}
		}
		s.Data = next
		s.Err, s.Cause = "", nil
	})
	return nil
}

// Snapshot returns the current state
func (c *Comments) Snapshot() State[[]domain.Comment] {
	return c.fetch.snapshot()
}
