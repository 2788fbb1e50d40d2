package mock

import "github.com/fwojciec/zimjson"

var _ zimjson.Archive = (*Archive)(nil)

// Archive is a mock implementation of zimjson.Archive.
type Archive struct {
	EntryCountFn func() int
	EntryByIDFn  func(id int) (*zimjson.Entry, error)
}

func (a *Archive) EntryCount() int {
	return a.EntryCountFn()
}

func (a *Archive) EntryByID(id int) (*zimjson.Entry, error) {
	return a.EntryByIDFn(id)
}
