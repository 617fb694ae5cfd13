package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGet_BrowserHeaders(t *testing.T) {
	var userAgent, acceptLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		acceptLang = r.Header.Get("Accept-Language")
	}))
	defer server.Close()

	resp, err := NewClient(BrowserClient).Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if !strings.Contains(userAgent, "Mozilla") {
		t.Errorf("User-Agent = %q, want browser-like", userAgent)
	}
	if acceptLang == "" {
		t.Error("Accept-Language not set for browser client")
	}
}

func TestGet_PlainHeaders(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	resp, err := NewClient(PlainClient).Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if !strings.HasPrefix(userAgent, "curl/") {
		t.Errorf("User-Agent = %q, want curl-like", userAgent)
	}
}

func TestGet_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewClient(PlainClient).Get(ctx, server.URL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
