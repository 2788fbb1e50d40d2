package zimjson

import (
	"encoding/base64"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// IsText reports whether a mimetype denotes textual content.
func IsText(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text")
}

// DecodeContent converts raw item bytes to a string. Text mimetypes are
// decoded as UTF-8, replacing each invalid byte with U+FFFD; everything else
// is base64 encoded.
func DecodeContent(content []byte, mimeType string) string {
	if !IsText(mimeType) {
		return base64.StdEncoding.EncodeToString(content)
	}
	// The UTF-8 decoder substitutes invalid input and never fails.
	decoded, _ := unicode.UTF8.NewDecoder().Bytes(content)
	return string(decoded)
}
