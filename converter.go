package zimjson

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as the main fragment of an
	// article, into Markdown. Returns EINVALID for blank input.
	Convert(html string) (string, error)
}
