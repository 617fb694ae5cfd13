package domain

import "time"

// Video represents one YouTube video record tracked in the Notion database.
// The derived fields (Title, Summary, MainPoints) are empty until the
// reconciliation pass fills them.
type Video struct {
	// ID is the Notion page id of the record. Always assigned by the store.
	ID string

	// URL is the YouTube watch URL used to address the video.
	URL string

	// Title is the video title scraped from the watch page.
	Title string

	// Transcript is the full caption text. Fetched on demand during
	// reconciliation and never written back to Notion; the archive keeps it.
	Transcript string

	// Summary is the LLM-generated summary of the transcript.
	Summary string

	// MainPoints is the LLM-extracted bullet list of key takeaways.
	MainPoints string

	// Updated reports whether any derived field was filled during the
	// current run. Records with Updated == false need no write-back.
	Updated bool
}

// TranscriptRecord is a fetched transcript destined for the archive store.
type TranscriptRecord struct {
	VideoID    string    `bson:"video_id" json:"video_id"`
	URL        string    `bson:"url" json:"url"`
	Title      string    `bson:"title" json:"title"`
	Transcript string    `bson:"transcript" json:"transcript"`
	FetchedAt  time.Time `bson:"fetched_at" json:"fetched_at"`
}
