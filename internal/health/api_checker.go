package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// APIChecker probes the blog API by requesting the first page of posts.
// Any HTTP answer below 500 means the API is reachable.
type APIChecker struct {
	baseURL string
	client  *http.Client
}

func NewAPIChecker(baseURL string, client *http.Client) *APIChecker {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &APIChecker{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *APIChecker) Name() string { return "api" }

func (c *APIChecker) Check(ctx context.Context) *Result {
	start := time.Now()
	url := c.baseURL + "/posts?page=1&per_page=1"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Unhealthy("invalid API URL").WithDetail("error", err.Error())
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Unhealthy("API unreachable").
			WithDetail("url", c.baseURL).
			WithDetail("error", err.Error()).
			WithLatency(time.Since(start))
	}
	defer resp.Body.Close()

	latency := time.Since(start)
	if resp.StatusCode >= http.StatusInternalServerError {
		return Degraded(fmt.Sprintf("API answered %d", resp.StatusCode)).
			WithDetail("url", c.baseURL).
			WithDetail("status", resp.StatusCode).
			WithLatency(latency)
	}
	return Healthy("API reachable").
		WithDetail("url", c.baseURL).
		WithDetail("status", resp.StatusCode).
		WithLatency(latency)
}
