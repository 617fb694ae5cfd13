// Package feed discovers new videos from YouTube channel feeds.
// Channels publish an Atom feed at
// https://www.youtube.com/feeds/videos.xml?channel_id=<id>.
package feed

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// Entry is one video reference discovered in a feed.
type Entry struct {
	URL   string
	Title string
}

// Parser handles feed parsing operations
type Parser struct {
	feedParser *gofeed.Parser
}

// NewParser creates a new feed parser
func NewParser() *Parser {
	return &Parser{
		feedParser: gofeed.NewParser(),
	}
}

// Fetch downloads and parses a channel feed, returning its entries in feed
// order.
func (p *Parser) Fetch(ctx context.Context, feedURL string) ([]Entry, error) {
	parsed, err := p.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	if parsed == nil || len(parsed.Items) == 0 {
		return nil, fmt.Errorf("feed contains no items")
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		entries = append(entries, Entry{
			URL:   item.Link,
			Title: item.Title,
		})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no valid video URLs found in feed items")
	}
	return entries, nil
}
