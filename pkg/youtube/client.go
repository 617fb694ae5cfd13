package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/electrocucaracha/yt-summarizer/pkg/content"
	"github.com/electrocucaracha/yt-summarizer/pkg/httpclient"
)

// TitleNotFound is the placeholder title used when the watch page cannot be
// scraped. Title extraction is cosmetic, so it degrades instead of failing
// the run.
const TitleNotFound = "Title not found"

var (
	ErrMissingVideoID  = errors.New("no video id found in URL")
	ErrNoCaptionTracks = errors.New("no caption tracks found on watch page")
	ErrEmptyTranscript = errors.New("transcript is empty")
)

// Client extracts metadata and transcripts for a single YouTube video. The
// video id is resolved at construction time; a URL without one is rejected
// immediately rather than on first use.
type Client struct {
	url     string
	videoID string
	httpc   *httpclient.HTTPClient
	logger  *zap.Logger
}

// NewClient creates a client for one watch URL.
func NewClient(rawURL string, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	videoID, err := parseVideoID(rawURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		url:     rawURL,
		videoID: videoID,
		httpc:   httpclient.NewClient(httpclient.BrowserClient),
		logger:  logger,
	}, nil
}

// VideoID returns the id parsed from the watch URL.
func (c *Client) VideoID() string {
	return c.videoID
}

// parseVideoID extracts the video id from a watch URL. Standard watch URLs
// carry it in the "v" query parameter; short youtu.be links carry it as the
// path.
func parseVideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse video URL %q: %w", rawURL, err)
	}

	if strings.EqualFold(u.Host, "youtu.be") {
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
		return "", fmt.Errorf("%w: %q", ErrMissingVideoID, rawURL)
	}

	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", ErrMissingVideoID, rawURL)
}

// Title scrapes the watch page for the video title. Any failure (network,
// HTTP status, missing og:title) degrades to the TitleNotFound placeholder.
func (c *Client) Title(ctx context.Context) (string, error) {
	c.logger.Info("fetching title", zap.String("video_id", c.videoID))

	page, err := c.fetchWatchPage(ctx)
	if err != nil {
		c.logger.Warn("failed to fetch watch page for title", zap.String("video_id", c.videoID), zap.Error(err))
		return TitleNotFound, nil
	}

	title, err := content.ExtractVideoTitle(page)
	if err != nil {
		c.logger.Warn("failed to extract title", zap.String("video_id", c.videoID), zap.Error(err))
		return TitleNotFound, nil
	}
	return title, nil
}

// Transcript fetches the full caption text of the video: it locates the
// caption track list on the watch page, downloads the timedtext XML of the
// best track, and joins the snippet texts with single spaces. Unlike Title,
// failures here propagate; a missing transcript is too important to paper
// over.
func (c *Client) Transcript(ctx context.Context) (string, error) {
	c.logger.Info("fetching transcript", zap.String("video_id", c.videoID))

	page, err := c.fetchWatchPage(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch watch page: %w", err)
	}

	tracks, err := parseCaptionTracks(page)
	if err != nil {
		return "", fmt.Errorf("video %s: %w", c.videoID, err)
	}

	track := pickCaptionTrack(tracks)
	body, err := c.fetch(ctx, track.BaseURL)
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}

	transcript, err := parseTimedText(body)
	if err != nil {
		return "", fmt.Errorf("video %s: %w", c.videoID, err)
	}
	c.logger.Debug("fetched transcript",
		zap.String("video_id", c.videoID),
		zap.Int("length", len(transcript)))
	return transcript, nil
}

func (c *Client) fetchWatchPage(ctx context.Context) (string, error) {
	return c.fetch(ctx, c.url)
}

func (c *Client) fetch(ctx context.Context, target string) (string, error) {
	resp, err := c.httpc.Get(ctx, target)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

// captionTrack is one entry of the player's captionTracks list embedded in
// the watch page JSON.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// parseCaptionTracks locates the captionTracks JSON array inside the watch
// page markup.
func parseCaptionTracks(page string) ([]captionTrack, error) {
	const marker = `"captionTracks":`
	idx := strings.Index(page, marker)
	if idx < 0 {
		return nil, ErrNoCaptionTracks
	}

	raw, err := extractJSONArray(page[idx+len(marker):])
	if err != nil {
		return nil, fmt.Errorf("caption tracks: %w", err)
	}

	var tracks []captionTrack
	if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
		return nil, fmt.Errorf("decode caption tracks: %w", err)
	}
	if len(tracks) == 0 {
		return nil, ErrNoCaptionTracks
	}
	return tracks, nil
}

// extractJSONArray returns the balanced JSON array at the start of s,
// tracking string literals and escapes so brackets inside values do not
// terminate the scan early.
func extractJSONArray(s string) (string, error) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", errors.New("no JSON array found")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", errors.New("unterminated JSON array")
}

// pickCaptionTrack prefers a manually written English track, then any
// English track, then the first available one.
func pickCaptionTrack(tracks []captionTrack) captionTrack {
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") && t.Kind != "asr" {
			return t
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}

// timedText mirrors the transcript XML served by the timedtext endpoint.
type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Content string `xml:",chardata"`
	} `xml:"text"`
}

// parseTimedText joins the snippet texts of a timedtext document with single
// spaces, unescaping the HTML entities YouTube double-encodes.
func parseTimedText(body string) (string, error) {
	var doc timedText
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Content))
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", ErrEmptyTranscript
	}
	return strings.Join(parts, " "), nil
}
