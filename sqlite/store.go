package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/zimjson"
	"github.com/google/uuid"
)

// Link kinds stored in record_links.
const (
	LinkCategory = "category"
	LinkImage    = "image"
)

// Compile-time interface verification.
var _ zimjson.RecordStore = (*RecordStore)(nil)

// RecordStore implements zimjson.RecordStore by writing one run into a
// single transaction. Begin opens the run; Commit makes it visible.
type RecordStore struct {
	db        *DB
	converter zimjson.Converter

	// State of the run in progress, bound to the context passed to Begin.
	ctx context.Context
	tx  *sql.Tx
	run *zimjson.Run
}

// NewRecordStore creates a RecordStore. If converter is nil no markdown
// rendition is stored.
func NewRecordStore(db *DB, converter zimjson.Converter) *RecordStore {
	return &RecordStore{db: db, converter: converter}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, xxhash.Sum64String(content)))
}

// Begin starts a new run for the named source archive.
func (s *RecordStore) Begin(ctx context.Context, source string) (*zimjson.Run, error) {
	if s.tx != nil {
		return nil, zimjson.Errorf(zimjson.EINVALID, "run %s already in progress", s.run.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	run := &zimjson.Run{
		ID:        uuid.New().String(),
		Source:    source,
		StartedAt: time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, started_at, committed_at)
		VALUES (?, ?, ?, '')
	`, run.ID, run.Source, run.StartedAt.Format(time.RFC3339)); err != nil {
		tx.Rollback()
		return nil, err
	}

	s.ctx, s.tx, s.run = ctx, tx, run
	return run, nil
}

// Save stores the record and its links in the current run.
func (s *RecordStore) Save(record *zimjson.Record) error {
	if s.tx == nil {
		return zimjson.Errorf(zimjson.EINVALID, "no run in progress")
	}
	if err := record.Validate(); err != nil {
		return err
	}

	markdown, err := s.markdown(record)
	if err != nil {
		return err
	}

	if _, err := s.tx.ExecContext(s.ctx, `
		INSERT INTO records (run_id, id, path, title, type, mime_type, is_redirect, namespace, content, content_hash, markdown, size_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.run.ID, record.ID, record.Path, record.Title, record.Type, record.MimeType, record.IsRedirect,
		record.Namespace, record.Content, hashContent(record.Content), markdown, record.SizeBytes); err != nil {
		return err
	}

	if record.Links != nil {
		if err := s.saveLinks(record.ID, LinkCategory, record.CategoryPaths); err != nil {
			return err
		}
		if err := s.saveLinks(record.ID, LinkImage, record.ImagePaths); err != nil {
			return err
		}
	}

	s.run.RecordCount++
	return nil
}

func (s *RecordStore) saveLinks(recordID int, kind string, paths []string) error {
	for i, path := range paths {
		if _, err := s.tx.ExecContext(s.ctx, `
			INSERT INTO record_links (run_id, record_id, kind, position, path)
			VALUES (?, ?, ?, ?, ?)
		`, s.run.ID, recordID, kind, i, path); err != nil {
			return err
		}
	}
	return nil
}

// markdown renders page fragments of article and category records.
func (s *RecordStore) markdown(record *zimjson.Record) (string, error) {
	if s.converter == nil || strings.TrimSpace(record.Content) == "" {
		return "", nil
	}
	switch record.Type {
	case zimjson.TypeArticle, zimjson.TypeCategory:
		return s.converter.Convert(record.Content)
	}
	return "", nil
}

// Commit finalizes the run and commits the transaction.
func (s *RecordStore) Commit() error {
	if s.tx == nil {
		return zimjson.Errorf(zimjson.EINVALID, "no run in progress")
	}
	defer s.reset()

	s.run.CommittedAt = time.Now().UTC()
	if _, err := s.tx.ExecContext(s.ctx, `
		UPDATE runs SET committed_at = ?, record_count = ? WHERE id = ?
	`, s.run.CommittedAt.Format(time.RFC3339), s.run.RecordCount, s.run.ID); err != nil {
		s.tx.Rollback()
		return err
	}
	return s.tx.Commit()
}

// Abort rolls back the run. It is a no-op when no run is in progress.
func (s *RecordStore) Abort() error {
	if s.tx == nil {
		return nil
	}
	defer s.reset()
	return s.tx.Rollback()
}

func (s *RecordStore) reset() {
	s.ctx, s.tx, s.run = nil, nil, nil
}
