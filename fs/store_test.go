package fs_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/zimjson"
	"github.com/fwojciec/zimjson/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func article() *zimjson.Record {
	return &zimjson.Record{
		ID:        1,
		Path:      "A/Sample_Article",
		Title:     "Sample Article",
		Type:      zimjson.TypeArticle,
		MimeType:  "text/html",
		Namespace: "A",
		Content:   "<h1>Sample & Article</h1>",
		SizeBytes: 120,
		Links: &zimjson.Links{
			CategoryPaths: []string{"Category/Sample_Category"},
			ImagePaths:    []string{},
		},
	}
}

func image() *zimjson.Record {
	return &zimjson.Record{
		ID:        2,
		Path:      "I/sample.png",
		Title:     "sample.png",
		Type:      zimjson.TypeImage,
		MimeType:  "image/png",
		Namespace: "I",
		Content:   "iVBORw==",
		SizeBytes: 4,
	}
}

func TestEncodeRecords(t *testing.T) {
	t.Parallel()

	t.Run("article carries link lists, other records do not", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := fs.EncodeRecords(&buf, []*zimjson.Record{article(), image()})

		require.NoError(t, err)
		assert.Equal(t, `[
  {
    "id": 1,
    "path": "A/Sample_Article",
    "title": "Sample Article",
    "type": "article",
    "mime_type": "text/html",
    "is_redirect": false,
    "namespace": "A",
    "content": "<h1>Sample & Article</h1>",
    "size_bytes": 120,
    "category_paths": [
      "Category/Sample_Category"
    ],
    "image_paths": []
  },
  {
    "id": 2,
    "path": "I/sample.png",
    "title": "sample.png",
    "type": "image",
    "mime_type": "image/png",
    "is_redirect": false,
    "namespace": "I",
    "content": "iVBORw==",
    "size_bytes": 4
  }
]
`, buf.String())
	})

	t.Run("no records encode as empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := fs.EncodeRecords(&buf, nil)

		require.NoError(t, err)
		assert.Equal(t, "[]\n", buf.String())
	})
}

func TestFileStore_CommitWritesOutputFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "sample.json")
	store := fs.NewFileStore(path)

	require.NoError(t, store.Save(article()))
	require.NoError(t, store.Save(image()))

	// Nothing is written before commit.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "output should not exist until commit")

	require.NoError(t, store.Commit())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	var want bytes.Buffer
	require.NoError(t, fs.EncodeRecords(&want, []*zimjson.Record{article(), image()}))
	assert.Equal(t, want.String(), string(got))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be gone after commit")
}

func TestFileStore_CommitWithoutRecordsWritesEmptyArray(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.json")
	store := fs.NewFileStore(path)

	require.NoError(t, store.Commit())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(got))
}

func TestFileStore_CommitReplacesExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))
	store := fs.NewFileStore(path)
	require.NoError(t, store.Save(image()))

	require.NoError(t, store.Commit())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"path": "I/sample.png"`)
}

func TestFileStore_AbortLeavesNoOutput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json")
	store := fs.NewFileStore(path)
	require.NoError(t, store.Save(article()))

	require.NoError(t, store.Abort())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "output should not exist after abort")
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should not exist after abort")
}

func TestFileStore_SaveRejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	store := fs.NewFileStore(filepath.Join(t.TempDir(), "out.json"))
	r := article()
	r.Links = nil

	err := store.Save(r)

	assert.Equal(t, zimjson.EINVALID, zimjson.ErrorCode(err))
}
