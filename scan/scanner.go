// Package scan implements the extraction pipeline: a sequential scan of
// archive entries that classifies, filters and shapes each one into an
// output record.
package scan

import (
	"context"

	"github.com/fwojciec/zimjson"
)

// FirstID is the first raw entry id the scanner attempts.
const FirstID = 1

// Event reports an entry that did not produce a record.
type Event struct {
	ID     int
	Path   string
	Title  string
	Reason zimjson.SkipReason
	Err    error
}

// EventFunc is called for every skipped entry.
type EventFunc func(Event)

// Scanner turns archive entries into records. Its fields are set once
// before Scan is called.
type Scanner struct {
	Inspector zimjson.Inspector
	Policy    zimjson.SkipPolicy

	// Limit is the maximum number of records produced.
	Limit int

	// OnSkip, if set, is called for every skipped entry.
	OnSkip EventFunc
}

// NewScanner returns a Scanner with the default skip policy.
func NewScanner(inspector zimjson.Inspector, limit int) *Scanner {
	return &Scanner{
		Inspector: inspector,
		Policy:    zimjson.DefaultSkipPolicy(),
		Limit:     limit,
	}
}

// Scan walks raw ids upward from FirstID until Limit records have been
// handed to emit or the archive is exhausted. Records are numbered from 1
// in emit order. Entries that fail to load are reported and skipped; an
// error from emit or a canceled context stops the scan.
func (s *Scanner) Scan(ctx context.Context, archive zimjson.Archive, emit func(*zimjson.Record) error) (*zimjson.Summary, error) {
	if s.Limit < 1 {
		return nil, zimjson.Errorf(zimjson.EINVALID, "scan limit must be positive, got %d", s.Limit)
	}

	summary := zimjson.NewSummary()
	total := archive.EntryCount()

	for id := FirstID; id < total && summary.Count < s.Limit; id++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		entry, err := archive.EntryByID(id)
		if err != nil {
			s.skip(summary, Event{ID: id, Reason: zimjson.SkipLookup, Err: err})
			continue
		}

		record, reason := s.process(entry)
		if reason != zimjson.SkipNone {
			s.skip(summary, Event{ID: id, Path: entry.Path, Title: entry.Title, Reason: reason})
			continue
		}

		record.ID = summary.Count + 1
		if err := emit(record); err != nil {
			return summary, err
		}
		summary.Add(record)
	}

	return summary, nil
}

// Collect scans the archive and returns the records in order.
func (s *Scanner) Collect(ctx context.Context, archive zimjson.Archive) ([]*zimjson.Record, error) {
	var records []*zimjson.Record
	_, err := s.Scan(ctx, archive, func(r *zimjson.Record) error {
		records = append(records, r)
		return nil
	})
	return records, err
}

// process shapes a single entry, or returns why it was dropped.
// The returned record has no ID yet.
func (s *Scanner) process(entry *zimjson.Entry) (*zimjson.Record, zimjson.SkipReason) {
	if reason := s.Policy.Check(entry); reason != zimjson.SkipNone {
		return nil, reason
	}
	item := entry.Item
	if item == nil {
		item = &zimjson.Item{}
	}

	content := zimjson.DecodeContent(item.Content, item.MimeType)
	if zimjson.IsText(item.MimeType) && s.Inspector.IsMetaRefresh(content) {
		return nil, zimjson.SkipMetaRefresh
	}

	class := zimjson.Classify(entry.Path)
	record := &zimjson.Record{
		Path:       entry.Path,
		Title:      entry.Title,
		Type:       class.Type,
		MimeType:   item.MimeType,
		IsRedirect: entry.IsRedirect,
		Namespace:  class.Namespace,
		SizeBytes:  item.Size,
	}

	switch class.Type {
	case zimjson.TypeArticle:
		content = s.Inspector.MainFragment(content)
		record.Links = s.Inspector.HarvestLinks(content)
		if record.Links == nil {
			record.Links = zimjson.NewLinks()
		}
	case zimjson.TypeCategory:
		content = s.Inspector.MainFragment(content)
	}
	record.Content = content

	return record, zimjson.SkipNone
}

func (s *Scanner) skip(summary *zimjson.Summary, ev Event) {
	summary.Skip(ev.Reason)
	if s.OnSkip != nil {
		s.OnSkip(ev)
	}
}
