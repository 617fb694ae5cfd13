// Package config provides configuration loading for the ytsum CLI. Settings
// come from an optional YAML file overlaid by environment variables; secrets
// are accepted only from the environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Archive backend names accepted in the configuration.
const (
	ArchiveNone     = "none"
	ArchiveMongo    = "mongo"
	ArchivePostgres = "postgres"
	ArchiveSupabase = "supabase"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Notion  NotionConfig  `yaml:"notion"`
	LLM     LLMConfig     `yaml:"llm"`
	Archive ArchiveConfig `yaml:"archive"`
}

// NotionConfig holds record store settings. The token never comes from the
// file.
type NotionConfig struct {
	DatabaseID string `yaml:"database_id"`
	Token      string `yaml:"-"`
}

// LLMConfig holds model settings. The API key never comes from the file.
type LLMConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"-"`
}

// ArchiveConfig selects and configures the transcript archive backend.
type ArchiveConfig struct {
	// Backend is one of none, mongo, postgres, supabase.
	Backend string `yaml:"backend"`

	// Mongo settings.
	MongoURI   string `yaml:"mongo_uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`

	// Postgres settings.
	PostgresDSN string `yaml:"postgres_dsn"`

	// Supabase settings; key and password come from the environment.
	SupabaseURL      string `yaml:"supabase_url"`
	SupabaseKey      string `yaml:"-"`
	SupabasePassword string `yaml:"-"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	applyEnv(cfg)
	return cfg
}

// Load reads and parses the config file at path, applies defaults, and
// overlays environment variables. Returns an error if the file cannot be
// read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// ApplyDefaults fills unset fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemini-2.5-flash"
	}
	if cfg.Archive.Backend == "" {
		cfg.Archive.Backend = ArchiveNone
	}
	if cfg.Archive.Database == "" {
		cfg.Archive.Database = "ytsummarizer"
	}
	if cfg.Archive.Collection == "" {
		cfg.Archive.Collection = "transcripts"
	}
}

// applyEnv overlays environment variables. Secrets (tokens, keys, passwords)
// are only ever read from here.
func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Notion.Token, "NOTION_TOKEN")
	setFromEnv(&cfg.Notion.DatabaseID, "NOTION_DATABASE_ID")
	setFromEnv(&cfg.LLM.APIKey, "GEMINI_API_KEY")
	setFromEnv(&cfg.LLM.Model, "LLM_MODEL")
	setFromEnv(&cfg.Archive.MongoURI, "MONGO_URI")
	setFromEnv(&cfg.Archive.PostgresDSN, "POSTGRES_DSN")
	setFromEnv(&cfg.Archive.SupabaseURL, "SUPABASE_URL")
	setFromEnv(&cfg.Archive.SupabaseKey, "SUPABASE_KEY")
	setFromEnv(&cfg.Archive.SupabasePassword, "SUPABASE_DB_PASSWORD")
}

func setFromEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

// Validate checks the settings a sync run cannot do without.
func (c *Config) Validate() error {
	if c.Notion.Token == "" {
		return fmt.Errorf("notion token is required (set NOTION_TOKEN)")
	}
	if c.Notion.DatabaseID == "" {
		return fmt.Errorf("notion database id is required (set NOTION_DATABASE_ID or database_id in the config file)")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is required (set GEMINI_API_KEY)")
	}
	switch c.Archive.Backend {
	case ArchiveNone, ArchiveMongo, ArchivePostgres, ArchiveSupabase:
	default:
		return fmt.Errorf("unknown archive backend %q", c.Archive.Backend)
	}
	return nil
}
