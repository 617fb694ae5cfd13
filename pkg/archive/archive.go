// Package archive persists fetched transcripts outside the record store.
// Transcripts are fetched during reconciliation but never written back to
// Notion; the archive keeps them around so later runs (or other tools) do
// not have to re-scrape them.
package archive

import (
	"context"
	"database/sql"

	"github.com/electrocucaracha/yt-summarizer/pkg/domain"
)

// Saver stores transcript records. Implementations upsert by video URL so
// re-running a sync never duplicates rows.
type Saver interface {
	SaveTranscript(ctx context.Context, record *domain.TranscriptRecord) error
	Close(ctx context.Context) error
}

// DBProvider is an interface for database clients that expose a sql.DB
// handle. Both PostgresClient and SupabaseClient satisfy it, so the SQL
// store works against either.
type DBProvider interface {
	DB() *sql.DB
}
