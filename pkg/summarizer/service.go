// Package summarizer drives the per-record reconciliation: it walks the
// database records in order, fetches only the upstream data needed to fill
// the missing derived fields, and marks each record dirty only when
// something was actually produced.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/electrocucaracha/yt-summarizer/pkg/archive"
	"github.com/electrocucaracha/yt-summarizer/pkg/domain"
	"github.com/electrocucaracha/yt-summarizer/pkg/feed"
	"github.com/electrocucaracha/yt-summarizer/pkg/youtube"
)

// Property names of the video database. Reads use the names as the original
// database declares them; writes go through case-insensitive matching, which
// absorbs the "Main points" / "Main Points" casing difference.
const (
	propID         = "ID"
	propURL        = "URL"
	propTitle      = "Title"
	propSummary    = "Summary"
	propMainPoints = "Main points"

	writeMainPoints = "Main Points"
)

var (
	ErrNilStore      = errors.New("record store is required")
	ErrNilSummarizer = errors.New("summarizer is required")
)

// RecordStore is the database surface the service depends on: ordered record
// listing as flat string maps, and a boolean-result property write.
type RecordStore interface {
	GetPagePropertiesFromDatabase(ctx context.Context, databaseID string) ([]map[string]string, error)
	UpdatePageProperties(ctx context.Context, databaseID, pageID string, properties map[string]string) bool
	CreatePage(ctx context.Context, databaseID, videoURL, title string) error
}

// MediaSource provides metadata and the transcript for one video reference.
type MediaSource interface {
	Title(ctx context.Context) (string, error)
	Transcript(ctx context.Context) (string, error)
}

// MediaSourceFactory builds a MediaSource for a video URL. Construction
// fails fast when the URL carries no video id.
type MediaSourceFactory func(videoURL string) (MediaSource, error)

// Summarizer turns transcript text into derived content.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
	MainPoints(ctx context.Context, text string) (string, error)
}

// Config wires the service dependencies.
type Config struct {
	Store      RecordStore
	Summarizer Summarizer

	// MediaSource overrides the default YouTube-backed factory. Tests use it.
	MediaSource MediaSourceFactory

	// Archive receives fetched transcripts. Optional; archive failures are
	// logged and never abort a run.
	Archive archive.Saver

	Logger *zap.Logger
}

// Service coordinates the record store, the media source and the LLM.
type Service struct {
	store          RecordStore
	summarizer     Summarizer
	newMediaSource MediaSourceFactory
	archive        archive.Saver
	logger         *zap.Logger
}

// New creates the reconciliation service.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, ErrNilStore
	}
	if cfg.Summarizer == nil {
		return nil, ErrNilSummarizer
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	factory := cfg.MediaSource
	if factory == nil {
		factory = func(videoURL string) (MediaSource, error) {
			return youtube.NewClient(videoURL, logger)
		}
	}

	return &Service{
		store:          cfg.Store,
		summarizer:     cfg.Summarizer,
		newMediaSource: factory,
		archive:        cfg.Archive,
		logger:         logger,
	}, nil
}

// CollectVideos reconciles every record of the database: records without a
// URL are skipped entirely; for the rest, missing titles, summaries and main
// points are filled with the minimum number of upstream calls. The result
// preserves the store's record order. Any transcript or LLM failure aborts
// the whole run.
func (s *Service) CollectVideos(ctx context.Context, databaseID string) ([]*domain.Video, error) {
	s.logger.Info("retrieving videos from database", zap.String("database_id", databaseID))

	records, err := s.store.GetPagePropertiesFromDatabase(ctx, databaseID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	s.logger.Debug("retrieved records", zap.Int("count", len(records)))

	videos := make([]*domain.Video, 0, len(records))
	for i, record := range records {
		if record[propURL] == "" {
			s.logger.Debug("skipping record without video URL", zap.Int("record", i+1))
			continue
		}

		video := &domain.Video{
			ID:         record[propID],
			URL:        record[propURL],
			Title:      record[propTitle],
			Summary:    record[propSummary],
			MainPoints: record[propMainPoints],
		}

		if err := s.reconcile(ctx, video); err != nil {
			return nil, fmt.Errorf("video %s: %w", video.URL, err)
		}
		videos = append(videos, video)
	}

	s.logger.Info("processed videos", zap.Int("count", len(videos)))
	return videos, nil
}

// reconcile fills the missing derived fields of one video. The transcript is
// fetched lazily and at most once, no matter how many fields need it.
func (s *Service) reconcile(ctx context.Context, video *domain.Video) error {
	source, err := s.newMediaSource(video.URL)
	if err != nil {
		return err
	}

	if video.Title == "" {
		title, err := source.Title(ctx)
		if err != nil {
			return fmt.Errorf("fetch title: %w", err)
		}
		video.Title = title
		video.Updated = true
	}

	transcript := func() (string, error) {
		if video.Transcript == "" {
			text, err := source.Transcript(ctx)
			if err != nil {
				return "", fmt.Errorf("fetch transcript: %w", err)
			}
			video.Transcript = text
		}
		return video.Transcript, nil
	}

	if video.Summary == "" {
		text, err := transcript()
		if err != nil {
			return err
		}
		summary, err := s.summarizer.Summarize(ctx, text)
		if err != nil {
			return fmt.Errorf("summarize: %w", err)
		}
		video.Summary = summary
		video.Updated = true
	}

	if video.MainPoints == "" {
		text, err := transcript()
		if err != nil {
			return err
		}
		mainPoints, err := s.summarizer.MainPoints(ctx, text)
		if err != nil {
			return fmt.Errorf("extract main points: %w", err)
		}
		video.MainPoints = mainPoints
		video.Updated = true
	}

	if s.archive != nil && video.Transcript != "" {
		record := &domain.TranscriptRecord{
			VideoID:    video.ID,
			URL:        video.URL,
			Title:      video.Title,
			Transcript: video.Transcript,
			FetchedAt:  time.Now().UTC(),
		}
		if err := s.archive.SaveTranscript(ctx, record); err != nil {
			// Archiving is best-effort; the reconciliation result stands.
			s.logger.Warn("failed to archive transcript", zap.String("url", video.URL), zap.Error(err))
		}
	}
	return nil
}

// UpdateVideo persists the derived fields of one video back to the database.
// The boolean result mirrors the store contract: false means nothing was
// written, and the caller decides whether to continue with other records.
func (s *Service) UpdateVideo(ctx context.Context, databaseID string, video *domain.Video) bool {
	s.logger.Debug("updating video record", zap.String("page_id", video.ID))
	return s.store.UpdatePageProperties(ctx, databaseID, video.ID, map[string]string{
		propTitle:       video.Title,
		propSummary:     video.Summary,
		writeMainPoints: video.MainPoints,
	})
}

// Discover adds records for feed entries not present in the database yet.
// Returns the number of records created.
func (s *Service) Discover(ctx context.Context, databaseID, feedURL string) (int, error) {
	entries, err := feed.NewParser().Fetch(ctx, feedURL)
	if err != nil {
		return 0, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}

	records, err := s.store.GetPagePropertiesFromDatabase(ctx, databaseID)
	if err != nil {
		return 0, fmt.Errorf("list records: %w", err)
	}
	known := make(map[string]bool, len(records))
	for _, record := range records {
		if url := record[propURL]; url != "" {
			known[url] = true
		}
	}

	created := 0
	for _, entry := range entries {
		if known[entry.URL] {
			continue
		}
		if err := s.store.CreatePage(ctx, databaseID, entry.URL, entry.Title); err != nil {
			return created, fmt.Errorf("create record for %s: %w", entry.URL, err)
		}
		created++
	}
	s.logger.Info("discovered videos",
		zap.String("feed", feedURL),
		zap.Int("entries", len(entries)),
		zap.Int("created", created))
	return created, nil
}
