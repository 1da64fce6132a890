package api

import (
	"context"
	"net/http"

	"github.com/mmcdole/instrumenta/internal/domain"
)

// ServerHealth queries /health on the unversioned root. Health answers are
// not wrapped in the response envelope.
func (c *Client) ServerHealth(ctx context.Context) (domain.ServerHealth, error) {
	var out domain.ServerHealth
	err := c.do(ctx, request{method: http.MethodGet, path: "/health", root: true}, &out)
	return out, err
}

// DatabaseHealth queries /db-health on the unversioned root.
func (c *Client) DatabaseHealth(ctx context.Context) (domain.DatabaseHealth, error) {
	var out domain.DatabaseHealth
	err := c.do(ctx, request{method: http.MethodGet, path: "/db-health", root: true}, &out)
	return out, err
}

// TestConnection reports whether the server answers its health check.
func (c *Client) TestConnection(ctx context.Context) bool {
	_, err := c.ServerHealth(ctx)
	return err == nil
}
