package mock

import "github.com/fwojciec/zimjson"

var _ zimjson.Converter = (*Converter)(nil)

// Converter is a mock implementation of zimjson.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
