package mock

import (
	"context"

	"github.com/fwojciec/zimjson"
)

var _ zimjson.RecordIndex = (*RecordIndex)(nil)

// RecordIndex is a mock implementation of zimjson.RecordIndex.
type RecordIndex struct {
	FindRunsFn    func(ctx context.Context) ([]*zimjson.Run, error)
	FindRecordsFn func(ctx context.Context, filter zimjson.RecordFilter) ([]*zimjson.IndexedRecord, error)
}

func (i *RecordIndex) FindRuns(ctx context.Context) ([]*zimjson.Run, error) {
	return i.FindRunsFn(ctx)
}

func (i *RecordIndex) FindRecords(ctx context.Context, filter zimjson.RecordFilter) ([]*zimjson.IndexedRecord, error) {
	return i.FindRecordsFn(ctx, filter)
}
