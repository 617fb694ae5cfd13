package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const channelFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example Channel</title>
  <entry>
    <title>Video One</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=one"/>
  </entry>
  <entry>
    <title>Video Two</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=two"/>
  </entry>
</feed>`

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, channelFeed)
	}))
	defer server.Close()

	entries, err := NewParser().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].URL != "https://www.youtube.com/watch?v=one" || entries[0].Title != "Video One" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].URL != "https://www.youtube.com/watch?v=two" {
		t.Errorf("second entry = %+v", entries[1])
	}
}

func TestFetch_EmptyFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><title>Empty</title></feed>`)
	}))
	defer server.Close()

	if _, err := NewParser().Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for feed without items")
	}
}

func TestFetch_BadURL(t *testing.T) {
	if _, err := NewParser().Fetch(context.Background(), "http://127.0.0.1:1/feed"); err == nil {
		t.Fatal("expected error for unreachable feed")
	}
}
