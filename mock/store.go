package mock

import "github.com/fwojciec/zimjson"

var _ zimjson.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of zimjson.RecordStore.
// Nil functions are no-ops so tests only set what they observe.
type RecordStore struct {
	SaveFn   func(record *zimjson.Record) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *RecordStore) Save(record *zimjson.Record) error {
	if s.SaveFn == nil {
		return nil
	}
	return s.SaveFn(record)
}

func (s *RecordStore) Commit() error {
	if s.CommitFn == nil {
		return nil
	}
	return s.CommitFn()
}

func (s *RecordStore) Abort() error {
	if s.AbortFn == nil {
		return nil
	}
	return s.AbortFn()
}
