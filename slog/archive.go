// Package slog provides logging decorators for archive access and record
// storage.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/zimjson"
)

// Ensure LoggingArchive implements zimjson.Archive.
var _ zimjson.Archive = (*LoggingArchive)(nil)

// LoggingArchive wraps an Archive with logging of entry lookups.
// Successful lookups are logged at debug level, failures at warn.
type LoggingArchive struct {
	next   zimjson.Archive
	logger *slog.Logger
}

// NewLoggingArchive creates a new LoggingArchive.
func NewLoggingArchive(next zimjson.Archive, logger *slog.Logger) *LoggingArchive {
	return &LoggingArchive{next: next, logger: logger}
}

// EntryCount delegates to the wrapped archive.
func (a *LoggingArchive) EntryCount() int {
	return a.next.EntryCount()
}

// EntryByID delegates to the wrapped archive and logs the lookup.
func (a *LoggingArchive) EntryByID(id int) (entry *zimjson.Entry, err error) {
	defer func(begin time.Time) {
		if err != nil {
			a.logger.Warn("entry lookup", "id", id, "duration", time.Since(begin), "err", err)
			return
		}
		a.logger.Debug("entry lookup",
			"id", id,
			"path", entry.Path,
			"redirect", entry.IsRedirect,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return a.next.EntryByID(id)
}
