package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fwojciec/zimjson"
	"github.com/fwojciec/zimjson/fs"
	"github.com/fwojciec/zimjson/scan"
	zslog "github.com/fwojciec/zimjson/slog"
	"github.com/fwojciec/zimjson/sqlite"
	"github.com/fwojciec/zimjson/zim"
)

// ExtractCmd converts the first MaxObjects accepted entries of an archive
// into a JSON file.
type ExtractCmd struct {
	Input         string
	Output        string
	MaxObjects    int
	SkipMimeTypes []string

	// SQLite, if set, is the path of a database that also receives the run.
	SQLite string
}

// Run opens the archive, scans it and commits the records. Nothing is
// written when the archive cannot be opened or the scan fails.
func (c *ExtractCmd) Run(deps *Dependencies) (err error) {
	archive, err := zim.Open(c.Input)
	if err != nil {
		return fmt.Errorf("failed to open archive %q: %w", c.Input, err)
	}
	defer archive.Close()
	logArchive(deps.Logger, c.Input, archive)

	store, closeStore, err := c.openStore(deps)
	if err != nil {
		return err
	}
	defer closeStore()
	defer func() {
		if err != nil {
			store.Abort()
		}
	}()

	scanner := scan.NewScanner(deps.Inspector, c.MaxObjects)
	scanner.Policy = scanner.Policy.With(c.SkipMimeTypes...)
	scanner.OnSkip = func(ev scan.Event) {
		if ev.Err != nil {
			fmt.Fprintf(deps.Stderr, "skipping entry %d (%s): %v\n", ev.ID, ev.Reason, ev.Err)
			return
		}
		deps.Logger.Debug("skip entry", "id", ev.ID, "path", ev.Path, "reason", ev.Reason)
	}

	summary, err := scanner.Scan(deps.Ctx, zslog.NewLoggingArchive(archive, deps.Logger), store.Save)
	if err != nil {
		return err
	}
	if err := store.Commit(); err != nil {
		return fmt.Errorf("failed to write %q: %w", c.Output, err)
	}

	printSummary(deps.Stdout, c.Output, summary)
	return nil
}

func logArchive(logger *slog.Logger, path string, archive *zim.Archive) {
	major, minor := archive.Version()
	attrs := []any{
		"path", path,
		"uuid", archive.UUID(),
		"version", fmt.Sprintf("%d.%d", major, minor),
		"entries", archive.EntryCount(),
		"mime_types", strings.Join(archive.MimeTypes(), ","),
	}
	if title, err := archive.Metadata("Title"); err == nil {
		attrs = append(attrs, "title", title)
	}
	logger.Debug("open archive", attrs...)
}

// openStore returns the JSON file store, joined by a SQLite run when
// configured, and a function releasing the database.
func (c *ExtractCmd) openStore(deps *Dependencies) (zimjson.RecordStore, func(), error) {
	stores := zimjson.MultiRecordStore{fs.NewFileStore(c.Output)}
	closeStore := func() {}

	if c.SQLite != "" {
		db := sqlite.NewDB(c.SQLite)
		if err := db.Open(); err != nil {
			return nil, nil, fmt.Errorf("failed to open database at %q: %w", c.SQLite, err)
		}
		index := sqlite.NewRecordStore(db, deps.Converter)
		run, err := index.Begin(deps.Ctx, c.Input)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		deps.Logger.Info("indexing run", "run", run.ID, "db", c.SQLite)
		stores = append(stores, index)
		closeStore = func() { db.Close() }
	}

	return zslog.NewLoggingRecordStore(stores, deps.Logger), closeStore, nil
}

func printSummary(w io.Writer, output string, summary *zimjson.Summary) {
	fmt.Fprintf(w, "Extracted %d entries to %s\n", summary.Count, output)
	fmt.Fprintf(w, "Namespaces: %s\n", strings.Join(summary.NamespaceList(), ", "))
	fmt.Fprintf(w, "Types: %s\n", strings.Join(summary.TypeList(), ", "))

	if total := summary.SkippedTotal(); total > 0 {
		var parts []string
		for _, reason := range zimjson.SkipReasons {
			if n := summary.Skipped[reason]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s=%d", reason, n))
			}
		}
		fmt.Fprintf(w, "Skipped %d entries: %s\n", total, strings.Join(parts, " "))
	}
}
