package zimjson_test

import (
	"testing"

	"github.com/fwojciec/zimjson"
	"github.com/stretchr/testify/assert"
)

func entryWith(isRedirect bool, mimeType string) *zimjson.Entry {
	return &zimjson.Entry{
		Path:       "A/Page",
		Title:      "Page",
		IsRedirect: isRedirect,
		Item:       &zimjson.Item{MimeType: mimeType},
	}
}

func TestDefaultSkipPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		isRedirect bool
		mimeType   string
		want       bool
	}{
		{"javascript asset", false, "application/javascript", true},
		{"redirect to html", true, "text/html", true},
		{"redirect to javascript", true, "application/javascript", true},
		{"redirect to image", true, "image/png", true},
		{"html page", false, "text/html", false},
		{"json is ordinary content", false, "application/json", false},
		{"image", false, "image/png", false},
		{"mimetype match is exact", false, "application/javascript; charset=utf-8", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reason := zimjson.DefaultSkipPolicy().Check(entryWith(tt.isRedirect, tt.mimeType))

			assert.Equal(t, tt.want, reason != zimjson.SkipNone)
		})
	}
}

func TestSkipPolicy_Check(t *testing.T) {
	t.Parallel()

	t.Run("reports redirect before mimetype", func(t *testing.T) {
		t.Parallel()

		reason := zimjson.DefaultSkipPolicy().Check(entryWith(true, "application/javascript"))

		assert.Equal(t, zimjson.SkipRedirect, reason)
	})

	t.Run("reports mimetype", func(t *testing.T) {
		t.Parallel()

		reason := zimjson.DefaultSkipPolicy().Check(entryWith(false, "application/javascript"))

		assert.Equal(t, zimjson.SkipMimeType, reason)
	})

	t.Run("keeps entry without item", func(t *testing.T) {
		t.Parallel()

		reason := zimjson.DefaultSkipPolicy().Check(&zimjson.Entry{Path: "A/x"})

		assert.Equal(t, zimjson.SkipNone, reason)
	})

	t.Run("extra mimetypes extend the default", func(t *testing.T) {
		t.Parallel()

		policy := zimjson.DefaultSkipPolicy().With("application/json", "", "application/javascript")

		assert.Equal(t, []string{"application/javascript", "application/json"}, policy.MimeTypes)
		assert.Equal(t, zimjson.SkipMimeType, policy.Check(entryWith(false, "application/json")))
		assert.Equal(t, zimjson.SkipNone, zimjson.DefaultSkipPolicy().Check(entryWith(false, "application/json")))
	})
}
