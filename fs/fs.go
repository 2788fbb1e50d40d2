// Package fs writes extraction output to the local filesystem.
package fs

import (
	"encoding/json"
	"io"

	"github.com/fwojciec/zimjson"
)

// EncodeRecords writes records as an indented JSON array. A nil or empty
// slice encodes as an empty array. HTML in content is written unescaped.
func EncodeRecords(w io.Writer, records []*zimjson.Record) error {
	if records == nil {
		records = []*zimjson.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
