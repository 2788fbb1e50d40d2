package fs

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/fwojciec/zimjson"
)

// Ensure FileStore implements zimjson.RecordStore at compile time.
var _ zimjson.RecordStore = (*FileStore)(nil)

// FileStore implements zimjson.RecordStore for a single JSON output file.
// Records are held until Commit, which writes them to a temporary sibling
// file and renames it over the destination.
type FileStore struct {
	path    string
	records []*zimjson.Record
}

// NewFileStore creates a store that writes to path on Commit.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) tempPath() string {
	return s.path + ".tmp"
}

func (s *FileStore) Save(record *zimjson.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *FileStore) Commit() (err error) {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(s.tempPath())
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(s.tempPath())
		}
	}()

	w := bufio.NewWriter(f)
	if err := EncodeRecords(w, s.records); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if err := os.Rename(s.tempPath(), s.path); err != nil {
		return err
	}
	s.records = nil
	return nil
}

func (s *FileStore) Abort() error {
	s.records = nil
	if err := os.Remove(s.tempPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
