package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/zimjson"
)

// Ensure LoggingRecordStore implements zimjson.RecordStore.
var _ zimjson.RecordStore = (*LoggingRecordStore)(nil)

// LoggingRecordStore wraps a RecordStore with logging.
type LoggingRecordStore struct {
	next   zimjson.RecordStore
	logger *slog.Logger
	saved  int
}

// NewLoggingRecordStore creates a new LoggingRecordStore.
func NewLoggingRecordStore(next zimjson.RecordStore, logger *slog.Logger) *LoggingRecordStore {
	return &LoggingRecordStore{next: next, logger: logger}
}

// Save delegates to the wrapped store and logs the record at debug level.
func (s *LoggingRecordStore) Save(record *zimjson.Record) (err error) {
	defer func() {
		s.logger.Debug("save record",
			"id", record.ID,
			"path", record.Path,
			"type", record.Type,
			"err", err,
		)
	}()
	if err = s.next.Save(record); err == nil {
		s.saved++
	}
	return err
}

// Commit delegates to the wrapped store and logs the outcome.
func (s *LoggingRecordStore) Commit() (err error) {
	defer func(begin time.Time) {
		s.logger.Info("commit records",
			"count", s.saved,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Commit()
}

// Abort delegates to the wrapped store and logs the outcome.
func (s *LoggingRecordStore) Abort() (err error) {
	defer func() {
		s.logger.Info("abort records", "count", s.saved, "err", err)
	}()
	return s.next.Abort()
}
