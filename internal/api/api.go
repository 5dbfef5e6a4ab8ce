// Package api maps each remote blog operation onto exactly one gateway call
// and unwraps the {success, message, data} envelope.
package api

import (
	"context"
	"net/url"

	"github.com/felixgeelhaar/scribe/internal/domain"
)

// Doer sends one request. *gateway.Client implements it.
type Doer interface {
	Do(ctx context.Context, method, path string, query url.Values, body, out any) error
}

// call sends the request and returns the envelope's data
func call[T any](ctx context.Context, d Doer, method, path string, query url.Values, body any) (T, error) {
	var env domain.Envelope[T]
	if err := d.Do(ctx, method, path, query, body, &env); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

// send is call for operations whose data is null
func send(ctx context.Context, d Doer, method, path string, body any) error {
	return d.Do(ctx, method, path, nil, body, nil)
}
