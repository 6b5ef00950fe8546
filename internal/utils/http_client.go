package utils

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// TraceIDHeader carries the trace id between the client and the server.
const TraceIDHeader = "X-Trace-ID"

// HTTPClient is a resty client preconfigured for the board JSON API.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client bound to baseURL that sends JSON and gives
// up on a request after timeout. A zero timeout means no limit.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPClient{Client: client}
}

// Request starts a request bound to ctx. The trace id stored in ctx, if any,
// is forwarded in [TraceIDHeader].
func (c *HTTPClient) Request(ctx context.Context) *resty.Request {
	req := c.R().SetContext(ctx)
	if traceID, ok := GetTraceIDFromContext(ctx); ok {
		req.SetHeader(TraceIDHeader, traceID)
	}
	return req
}
