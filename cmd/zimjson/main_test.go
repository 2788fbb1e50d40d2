package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/zimjson"
	main "github.com/fwojciec/zimjson/cmd/zimjson"
	"github.com/fwojciec/zimjson/sqlite"
	"github.com/fwojciec/zimjson/zim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSample writes the sample archive into dir and returns its path.
func writeSample(t *testing.T, dir string) string {
	t.Helper()

	w, err := zim.NewSampleWriter()
	require.NoError(t, err)
	path := filepath.Join(dir, "sample.zim")
	require.NoError(t, w.WriteFile(path))
	return path
}

func readRecords(t *testing.T, path string) []map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	return records
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	err = main.NewMain().Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	for _, flag := range []string{"--help", "-h"} {
		t.Run(flag, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := run(t, flag)

			require.NoError(t, err)
			assert.Contains(t, stdout, "zimjson")
			assert.Contains(t, stdout, "Usage:")
			assert.Contains(t, stdout, "max-objects")
			assert.Contains(t, stdout, "--sqlite")
		})
	}
}

func TestMain_Run_WrongArgumentCount(t *testing.T) {
	t.Parallel()

	for name, args := range map[string][]string{
		"none":      {},
		"one":       {"in.zim"},
		"bare help": {"help"},
		"too many":  {"in.zim", "out.json", "4", "extra"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr, err := run(t, args...)

			require.Error(t, err)
			assert.Contains(t, stderr, "usage: zimjson <input-archive-path> <output-json-path> [<max-objects>]")
			assert.Empty(t, stdout)
		})
	}
}

func TestMain_Run_InvalidMaxObjects(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"abc", "0", "4.5"} {
		t.Run(arg, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			output := filepath.Join(dir, "out.json")

			_, stderr, err := run(t, writeSample(t, dir), output, arg)

			assert.Equal(t, zimjson.EINVALID, zimjson.ErrorCode(err))
			assert.Contains(t, stderr, "usage:")
			assert.NoFileExists(t, output)
		})
	}
}

func TestMain_Run_OpenFailureWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	output := filepath.Join(dir, "out.json")
	input := filepath.Join(dir, "not-a-zim.zim")
	require.NoError(t, os.WriteFile(input, []byte("plain text, not an archive"), 0644))

	for _, path := range []string{input, filepath.Join(dir, "missing.zim")} {
		_, _, err := run(t, path, output)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open archive")
		assert.NoFileExists(t, output)
		assert.NoFileExists(t, output+".tmp")
	}
}

func TestMain_Run_ExtractsSample(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	output := filepath.Join(dir, "out.json")

	stdout, _, err := run(t, writeSample(t, dir), output, "4")

	require.NoError(t, err)
	records := readRecords(t, output)
	require.Len(t, records, 4)

	type summary struct {
		ID        float64
		Path      string
		Type      string
		Namespace string
	}
	var got []summary
	for _, r := range records {
		got = append(got, summary{r["id"].(float64), r["path"].(string), r["type"].(string), r["namespace"].(string)})
	}
	assert.Equal(t, []summary{
		{1, zim.SampleArticlePath, "article", "A"},
		{2, zim.SampleCategoryPath, "category", "Category"},
		{3, zim.SampleImagePath, "image", "I"},
		{4, "Counter", "page", "main"},
	}, got)

	assert.Equal(t, []any{"Category/Sample_Category"}, records[0]["category_paths"])
	assert.Equal(t, []any{"I/sample.png"}, records[0]["image_paths"])
	assert.NotContains(t, records[1], "category_paths")
	assert.NotContains(t, records[2], "image_paths")
	assert.Equal(t, "text/plain", records[3]["mime_type"])
	assert.Equal(t, "image/png=1;text/html=3", records[3]["content"])

	assert.Contains(t, stdout, "Extracted 4 entries to "+output)
	assert.Contains(t, stdout, "Namespaces: A, Category, I, main")
	assert.Contains(t, stdout, "Types: article, category, image, page")
	assert.Contains(t, stdout, "Skipped 1 entries: meta-refresh=1")
}

func TestMain_Run_DefaultLimitCoversWholeSample(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	output := filepath.Join(dir, "out.json")

	stdout, _, err := run(t, writeSample(t, dir), output)

	require.NoError(t, err)
	records := readRecords(t, output)
	require.Len(t, records, 9)
	for i, r := range records {
		assert.Equal(t, float64(i+1), r["id"])
	}
	assert.Contains(t, stdout, "Skipped 2 entries: redirect=1 meta-refresh=1")
}

func TestMain_Run_Config(t *testing.T) {
	t.Parallel()

	t.Run("max_objects applies without argument", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		output := filepath.Join(dir, "out.json")
		cfg := filepath.Join(dir, "zimjson.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("max_objects: 2\n"), 0644))

		_, _, err := run(t, "--config", cfg, writeSample(t, dir), output)

		require.NoError(t, err)
		assert.Len(t, readRecords(t, output), 2)
	})

	t.Run("argument overrides max_objects", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		output := filepath.Join(dir, "out.json")
		cfg := filepath.Join(dir, "zimjson.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("max_objects: 2\n"), 0644))

		_, _, err := run(t, "--config", cfg, writeSample(t, dir), output, "3")

		require.NoError(t, err)
		assert.Len(t, readRecords(t, output), 3)
	})

	t.Run("skip_mime_types extends the policy", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		output := filepath.Join(dir, "out.json")
		cfg := filepath.Join(dir, "zimjson.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("skip_mime_types:\n  - image/png\n"), 0644))

		stdout, _, err := run(t, "--config", cfg, writeSample(t, dir), output, "3")

		require.NoError(t, err)
		records := readRecords(t, output)
		require.Len(t, records, 3)
		assert.Equal(t, "Counter", records[2]["path"])
		assert.Contains(t, stdout, "mimetype=1")
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		output := filepath.Join(dir, "out.json")
		cfg := filepath.Join(dir, "zimjson.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("max_object: 2\n"), 0644))

		_, _, err := run(t, "--config", cfg, writeSample(t, dir), output)

		assert.Equal(t, zimjson.EINVALID, zimjson.ErrorCode(err))
		assert.NoFileExists(t, output)
	})
}

func TestMain_Run_SQLiteIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	output := filepath.Join(dir, "out.json")
	dbPath := filepath.Join(dir, "index.db")
	input := writeSample(t, dir)

	_, _, err := run(t, "--sqlite", dbPath, input, output, "4")
	require.NoError(t, err)

	db := sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	defer db.Close()
	index := sqlite.NewRecordIndex(db)

	runs, err := index.FindRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, input, runs[0].Source)
	assert.Equal(t, 4, runs[0].RecordCount)

	typ := zimjson.TypeArticle
	records, err := index.FindRecords(context.Background(), zimjson.RecordFilter{Type: &typ})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Markdown, "# Sample Article")
	assert.Equal(t, []string{"Category/Sample_Category"}, records[0].CategoryPaths)
}

func TestMain_Run_VerboseLogsSkips(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, stderr, err := run(t, "-v", writeSample(t, dir), filepath.Join(dir, "out.json"), "1")

	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "msg=\"open archive\"")
	assert.Contains(t, stderr, "version=6.1")
	assert.Contains(t, stderr, "title=\"Sample ZIM\"")
	assert.Contains(t, stderr, "reason=meta-refresh")
	assert.Contains(t, stderr, "commit records")
}
