package smd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPRender(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# Remote\n\nfetched over http\n"))
	}))
	defer server.Close()

	var out bytes.Buffer
	err := HTTPRender(context.Background(), HTTPRenderRequest{
		URL:    server.URL,
		Writer: &out,
		Width:  40,
	})
	if err != nil {
		t.Fatalf("http render: %v", err)
	}
	text := stripANSI(out.String())
	if !strings.Contains(text, "Remote") || !strings.Contains(text, "fetched over http") {
		t.Fatalf("output = %q", text)
	}
}

func TestHTTPRenderStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	err := HTTPRender(context.Background(), HTTPRenderRequest{
		URL:    server.URL,
		Writer: &bytes.Buffer{},
	})
	if err == nil || !strings.Contains(err.Error(), "status") {
		t.Fatalf("err = %v", err)
	}
}

func TestHTTPRenderRejectsScheme(t *testing.T) {
	err := HTTPRender(context.Background(), HTTPRenderRequest{
		URL:    "ftp://example.com/readme.md",
		Writer: &bytes.Buffer{},
	})
	if err == nil || !strings.Contains(err.Error(), "scheme") {
		t.Fatalf("err = %v", err)
	}
}

func TestHTTPRenderRequiresURL(t *testing.T) {
	if err := HTTPRender(context.Background(), HTTPRenderRequest{Writer: &bytes.Buffer{}}); err == nil {
		t.Fatalf("expected error for missing URL")
	}
}

func TestHTTPRenderCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := HTTPRender(ctx, HTTPRenderRequest{
		URL:    server.URL,
		Writer: &bytes.Buffer{},
	})
	if err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
