package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/zimjson"
)

// Compile-time interface verification.
var _ zimjson.RecordIndex = (*RecordIndex)(nil)

// RecordIndex implements zimjson.RecordIndex using SQLite.
type RecordIndex struct {
	db *DB
}

// NewRecordIndex creates a new RecordIndex.
func NewRecordIndex(db *DB) *RecordIndex {
	return &RecordIndex{db: db}
}

// FindRuns returns committed runs, most recent first.
func (s *RecordIndex) FindRuns(ctx context.Context) ([]*zimjson.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, started_at, committed_at, record_count
		FROM runs
		WHERE committed_at != ''
		ORDER BY committed_at DESC, started_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*zimjson.Run
	for rows.Next() {
		var run zimjson.Run
		var startedAt, committedAt string
		if err := rows.Scan(&run.ID, &run.Source, &startedAt, &committedAt, &run.RecordCount); err != nil {
			return nil, err
		}
		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.CommittedAt, err = parseRFC3339(committedAt, "committed_at"); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// FindRecords returns records matching the filter with their links.
func (s *RecordIndex) FindRecords(ctx context.Context, filter zimjson.RecordFilter) ([]*zimjson.IndexedRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT run_id, id, path, title, type, mime_type, is_redirect, namespace, content, content_hash, markdown, size_bytes FROM records WHERE 1=1`)

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.Type != nil {
		query.WriteString(" AND type = ?")
		args = append(args, *filter.Type)
	}
	if filter.Path != nil {
		query.WriteString(" AND path = ?")
		args = append(args, *filter.Path)
	}
	query.WriteString(" ORDER BY run_id, id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*zimjson.IndexedRecord
	for rows.Next() {
		r := &zimjson.IndexedRecord{Record: &zimjson.Record{}}
		if err := rows.Scan(&r.RunID, &r.ID, &r.Path, &r.Title, &r.Type, &r.MimeType, &r.IsRedirect,
			&r.Namespace, &r.Content, &r.ContentHash, &r.Markdown, &r.SizeBytes); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, r := range records {
		if r.Type != zimjson.TypeArticle {
			continue
		}
		if r.Links, err = s.findLinks(ctx, r.RunID, r.ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *RecordIndex) findLinks(ctx context.Context, runID string, recordID int) (*zimjson.Links, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, path FROM record_links
		WHERE run_id = ? AND record_id = ?
		ORDER BY kind, position
	`, runID, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := zimjson.NewLinks()
	for rows.Next() {
		var kind, path string
		if err := rows.Scan(&kind, &path); err != nil {
			return nil, err
		}
		switch kind {
		case LinkCategory:
			links.CategoryPaths = append(links.CategoryPaths, path)
		case LinkImage:
			links.ImagePaths = append(links.ImagePaths, path)
		}
	}
	return links, rows.Err()
}
