package zimjson_test

import (
	"testing"

	"github.com/fwojciec/zimjson"
	"github.com/stretchr/testify/assert"
)

func TestDeduceNamespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"I/cat.png", "I"},
		{"-/Main_Page", "main"},
		{"/Entry", "main"},
		{"lostmedia", "main"},
		{"Category/Sample_Category", "Category"},
		{"A/Nested/Path", "A"},
		{"", "main"},
		{"-", "main"},
		{"-x/Page", "-x"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, zimjson.DeduceNamespace(tt.path))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path      string
		typ       string
		namespace string
	}{
		{"-/Main_Page", "page", "main"},
		{"A/Bobsled", "article", "A"},
		{"humanities.jpg", "page", "main"},
		{"I/cat.png", "image", "I"},
		{"I/cat.mp4", "image", "I"},
		{"File/cat.png", "image", "File"},
		{"File/novel.pdf", "document", "File"},
		{"File/jazz.ogg", "audio", "File"},
		{"File/Clip.MOV", "video", "File"},
		{"File/dump.tar.gz", "archive", "File"},
		{"File/notes.xyz", "file", "File"},
		{"File/README", "file", "File"},
		{"Category/Sample_Category", "category", "Category"},
		{"Discussion/Talk", "discussion", "Discussion"},
		{"Template/Infobox", "template", "Template"},
		{"Help/Contents", "help", "Help"},
		{"Portal/Science", "portal", "Portal"},
		{"Book/Guide", "book", "Book"},
		{"MediaWiki/Common.css", "mediawiki", "MediaWiki"},
		{"Special/Random", "unknown", "Special"},
		{"Counter", "page", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got := zimjson.Classify(tt.path)

			assert.Equal(t, zimjson.Classification{Type: tt.typ, Namespace: tt.namespace}, got)
		})
	}
}

func TestClassify_IsDeterministic(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"A/Bobsled", "File/jazz.ogg", "weird//path", "/", ""} {
		assert.Equal(t, zimjson.Classify(path), zimjson.Classify(path), path)
	}
}
