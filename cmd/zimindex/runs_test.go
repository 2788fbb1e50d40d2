package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/zimjson"
	main "github.com/fwojciec/zimjson/cmd/zimindex"
	"github.com/fwojciec/zimjson/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists runs with id, commit time, count and source", func(t *testing.T) {
		t.Parallel()

		index := &mock.RecordIndex{
			FindRunsFn: func(_ context.Context) ([]*zimjson.Run, error) {
				return []*zimjson.Run{
					{
						ID:          "run-2",
						Source:      "/data/wiki.zim",
						CommittedAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
						RecordCount: 40,
					},
					{
						ID:          "run-1",
						Source:      "/data/sample.zim",
						CommittedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
						RecordCount: 4,
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Index:  index,
		}

		err := (&main.RunsCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t,
			"run-2  2026-03-02T09:30:00Z  40 records  /data/wiki.zim\n"+
				"run-1  2026-03-01T08:00:00Z  4 records  /data/sample.zim\n",
			stdout.String())
	})

	t.Run("shows helpful message when no runs exist", func(t *testing.T) {
		t.Parallel()

		index := &mock.RecordIndex{
			FindRunsFn: func(_ context.Context) ([]*zimjson.Run, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Index:  index,
		}

		err := (&main.RunsCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No runs found")
		assert.Contains(t, stdout.String(), "zimjson --sqlite")
	})

	t.Run("reports index errors", func(t *testing.T) {
		t.Parallel()

		index := &mock.RecordIndex{
			FindRunsFn: func(_ context.Context) ([]*zimjson.Run, error) {
				return nil, errors.New("disk I/O error")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Index:  index,
		}

		err := (&main.RunsCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
