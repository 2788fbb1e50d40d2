package zimjson

// Item is the payload attached to an archive entry.
type Item struct {
	MimeType string
	Content  []byte
	Size     int64
}

// Entry is one addressable unit of an archive. For container redirects,
// Item holds the payload of the redirect target.
type Entry struct {
	Path       string
	Title      string
	IsRedirect bool
	Item       *Item
}

// Archive provides read access to archive entries by numeric id.
// Entry ids are zero-based and smaller than EntryCount.
type Archive interface {
	// EntryCount returns the total number of entries in the archive.
	EntryCount() int

	// EntryByID materializes the entry with the given id.
	// Returns ENOTFOUND for ids out of range and ECORRUPT when the entry
	// or its item cannot be decoded.
	EntryByID(id int) (*Entry, error)
}
