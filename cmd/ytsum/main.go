package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/electrocucaracha/yt-summarizer/pkg/archive"
	"github.com/electrocucaracha/yt-summarizer/pkg/config"
	"github.com/electrocucaracha/yt-summarizer/pkg/llm"
	"github.com/electrocucaracha/yt-summarizer/pkg/notion"
	"github.com/electrocucaracha/yt-summarizer/pkg/summarizer"
)

var (
	configPath string
	debug      bool
	feedURL    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ytsum",
	Short: "Summarize YouTube videos tracked in a Notion database",
	Long: "ytsum reads video records from a Notion database, fills in missing " +
		"titles, summaries and main points using the video transcript and an " +
		"LLM, and writes the results back.",
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fill missing fields of every video record and write them back",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		ctx := cmd.Context()
		service, cleanup, err := newService(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		videos, err := service.CollectVideos(ctx, cfg.Notion.DatabaseID)
		if err != nil {
			return fmt.Errorf("collect videos: %w", err)
		}

		updated := 0
		for _, video := range videos {
			if !video.Updated {
				logger.Debug("video already complete", zap.String("url", video.URL))
				continue
			}
			if !service.UpdateVideo(ctx, cfg.Notion.DatabaseID, video) {
				// One failed write does not stop the remaining records.
				logger.Error("failed to update video record", zap.String("url", video.URL))
				continue
			}
			updated++
		}

		logger.Info("sync finished",
			zap.Int("videos", len(videos)),
			zap.Int("updated", updated))
		return nil
	},
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Add records for new videos found in a channel feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		ctx := cmd.Context()
		service, cleanup, err := newService(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		created, err := service.Discover(ctx, cfg.Notion.DatabaseID, feedURL)
		if err != nil {
			return fmt.Errorf("discover videos: %w", err)
		}

		fmt.Printf("Created %d new video record(s)\n", created)
		return nil
	},
}

// setup loads the configuration and builds the logger shared by all
// commands.
func setup() (*config.Config, *zap.Logger, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
	} else {
		cfg = config.Default()
	}
	if debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, logger, nil
}

// newService wires the record store, the LLM client and the configured
// archive backend into the reconciliation service. The returned cleanup
// closes whatever connections were opened.
func newService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*summarizer.Service, func(), error) {
	store, err := notion.NewClient(cfg.Notion.Token, logger)
	if err != nil {
		return nil, nil, err
	}

	llmClient, err := llm.NewClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model, logger)
	if err != nil {
		return nil, nil, err
	}

	saver, cleanup, err := newArchive(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	service, err := summarizer.New(summarizer.Config{
		Store:      store,
		Summarizer: llmClient,
		Archive:    saver,
		Logger:     logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return service, cleanup, nil
}

// newArchive builds the transcript archive selected by the configuration.
// With the "none" backend the saver is nil and transcripts are discarded
// after use.
func newArchive(ctx context.Context, cfg *config.Config) (archive.Saver, func(), error) {
	noop := func() {}

	switch cfg.Archive.Backend {
	case config.ArchiveNone:
		return nil, noop, nil

	case config.ArchiveMongo:
		store, err := archive.NewMongoStore(ctx, cfg.Archive.MongoURI, cfg.Archive.Database, cfg.Archive.Collection)
		if err != nil {
			return nil, noop, err
		}
		if err := store.Ping(ctx); err != nil {
			return nil, noop, fmt.Errorf("ping mongo archive: %w", err)
		}
		return store, func() { _ = store.Close(context.Background()) }, nil

	case config.ArchivePostgres:
		client := archive.NewPostgresClient(archive.PostgresConfig{DSN: cfg.Archive.PostgresDSN})
		if err := client.Connect(ctx); err != nil {
			return nil, noop, err
		}
		store := archive.NewSQLStore(client)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return store, func() { _ = client.Close() }, nil

	case config.ArchiveSupabase:
		client := archive.NewSupabaseClient(archive.SupabaseConfig{
			SupabaseURL: cfg.Archive.SupabaseURL,
			SupabaseKey: cfg.Archive.SupabaseKey,
			Password:    cfg.Archive.SupabasePassword,
		})
		if err := client.Connect(ctx); err != nil {
			return nil, noop, err
		}
		store := archive.NewSQLStore(client)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return store, func() { _ = client.Close() }, nil
	}

	return nil, noop, fmt.Errorf("unknown archive backend %q", cfg.Archive.Backend)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	discoverCmd.Flags().StringVar(&feedURL, "feed", "", "Channel feed URL (youtube.com/feeds/videos.xml?channel_id=...)")
	_ = discoverCmd.MarkFlagRequired("feed")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(discoverCmd)
}
