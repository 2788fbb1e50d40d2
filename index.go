package zimjson

import (
	"context"
	"time"
)

// Run is one extraction recorded in a record index.
type Run struct {
	ID          string
	Source      string
	StartedAt   time.Time
	CommittedAt time.Time
	RecordCount int
}

// IndexedRecord is a record as kept by a record index.
type IndexedRecord struct {
	RunID string
	*Record

	// ContentHash is a hex digest of Content.
	ContentHash string

	// Markdown is a rendition of Content for article and category records.
	Markdown string
}

// RecordFilter narrows the records returned by FindRecords.
type RecordFilter struct {
	RunID *string
	Type  *string
	Path  *string

	Limit  int
	Offset int
}

// RecordIndex provides read access to committed extraction runs.
type RecordIndex interface {
	// FindRuns returns committed runs, most recent first.
	FindRuns(ctx context.Context) ([]*Run, error)

	// FindRecords returns records ordered by run and record id.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*IndexedRecord, error)
}
