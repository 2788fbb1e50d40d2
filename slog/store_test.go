package slog_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/zimjson"
	"github.com/fwojciec/zimjson/mock"
	zslog "github.com/fwojciec/zimjson/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRecordStore(t *testing.T) {
	t.Parallel()

	t.Run("logs saves and commit count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var saved []*zimjson.Record
		inner := &mock.RecordStore{
			SaveFn: func(r *zimjson.Record) error {
				saved = append(saved, r)
				return nil
			},
		}
		store := zslog.NewLoggingRecordStore(inner, debugLogger(&buf))

		require.NoError(t, store.Save(&zimjson.Record{ID: 1, Path: "A/One", Type: "article"}))
		require.NoError(t, store.Save(&zimjson.Record{ID: 2, Path: "I/two.png", Type: "image"}))
		require.NoError(t, store.Commit())

		assert.Len(t, saved, 2)
		output := buf.String()
		assert.Contains(t, output, "save record")
		assert.Contains(t, output, "path=A/One")
		assert.Contains(t, output, "type=image")
		assert.Contains(t, output, "commit records")
		assert.Contains(t, output, "count=2")
	})

	t.Run("failed saves are not counted", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RecordStore{
			SaveFn: func(*zimjson.Record) error { return errors.New("disk full") },
		}
		store := zslog.NewLoggingRecordStore(inner, slog.New(slog.NewTextHandler(&buf, nil)))

		require.EqualError(t, store.Save(&zimjson.Record{ID: 1, Path: "A/One"}), "disk full")
		require.NoError(t, store.Abort())

		output := buf.String()
		assert.NotContains(t, output, "save record")
		assert.Contains(t, output, "abort records")
		assert.Contains(t, output, "count=0")
	})

	t.Run("logs commit error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RecordStore{CommitFn: func() error { return errors.New("rename failed") }}
		store := zslog.NewLoggingRecordStore(inner, slog.New(slog.NewTextHandler(&buf, nil)))

		require.Error(t, store.Commit())
		assert.Contains(t, buf.String(), `err="rename failed"`)
	})
}
