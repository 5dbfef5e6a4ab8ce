// Package health runs dependency checks for the client and the sandbox API.
//
// A Manager runs registered Checkers in parallel and aggregates them into a
// single Status. The doctor command checks the configured API and the
// session storage; the sandbox server exposes the same results as probes.
package health

import (
	"context"
	"time"
)

// Checker verifies one dependency.
type Checker interface {
	// Name is a short lowercase identifier such as "api" or "storage".
	Name() string

	// Check must honor the context deadline.
	Check(ctx context.Context) *Result
}

// Status is the outcome of a check.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) String() string {
	return string(s)
}

// Result describes a single check.
type Result struct {
	Status  Status         `json:"status" yaml:"status"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration  `json:"latency" yaml:"latency"`
}

func NewResult(status Status, message string) *Result {
	return &Result{Status: status, Message: message, Details: make(map[string]any)}
}

// WithDetail records key and returns r for chaining.
func (r *Result) WithDetail(key string, value any) *Result {
	r.Details[key] = value
	return r
}

func (r *Result) WithLatency(latency time.Duration) *Result {
	r.Latency = latency
	return r
}

func Healthy(message string) *Result   { return NewResult(StatusHealthy, message) }
func Degraded(message string) *Result  { return NewResult(StatusDegraded, message) }
func Unhealthy(message string) *Result { return NewResult(StatusUnhealthy, message) }

// CheckFunc adapts a function into a Checker.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) *Result
}

func NewCheckFunc(name string, fn func(ctx context.Context) *Result) *CheckFunc {
	return &CheckFunc{name: name, fn: fn}
}

func (c *CheckFunc) Name() string { return c.name }

func (c *CheckFunc) Check(ctx context.Context) *Result { return c.fn(ctx) }
