package smd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// HTTPRenderRequest configures HTTPRender.
type HTTPRenderRequest struct {
	URL     string
	Client  *http.Client
	Writer  io.Writer
	Width   int
	Theme   Theme
	Options []RenderOption
}

// HTTPRender fetches markdown over HTTP(S) and streams rendered rows
// to req.Writer as the body arrives. The URL, scheme and response
// status are validated before any row is written; from the first body
// byte onward the semantics are those of Render.
func HTTPRender(ctx context.Context, req HTTPRenderRequest) error {
	if req.Writer == nil {
		return fmt.Errorf("render http: writer is nil")
	}
	body, err := openMarkdownURL(ctx, req.URL, req.Client)
	if err != nil {
		return err
	}
	defer body.Close()
	return Render(RenderRequest{
		Reader:  body,
		Writer:  req.Writer,
		Width:   req.Width,
		Theme:   req.Theme,
		Options: req.Options,
	})
}

// openMarkdownURL fetches rawURL and hands back the response body.
// Only http and https are accepted, and only a 2xx response streams.
func openMarkdownURL(ctx context.Context, rawURL string, client *http.Client) (io.ReadCloser, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("render http: URL is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("render http: parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("render http: unsupported scheme %q", u.Scheme)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("render http: build request: %w", err)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("render http: request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("render http: status %s from %s", resp.Status, u.Host)
	}
	return resp.Body, nil
}
