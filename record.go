package zimjson

// Record is one accepted archive entry in the JSON output.
// Field order and names are the output format.
type Record struct {
	ID         int    `json:"id"`
	Path       string `json:"path"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	MimeType   string `json:"mime_type"`
	IsRedirect bool   `json:"is_redirect"`
	Namespace  string `json:"namespace"`
	Content    string `json:"content"`
	SizeBytes  int64  `json:"size_bytes"`

	// Links is set for article records only. Its fields are flattened into
	// the record when encoded and omitted entirely when nil.
	*Links
}

// Links holds the outbound references harvested from an article fragment,
// deduplicated in first-seen order.
type Links struct {
	CategoryPaths []string `json:"category_paths"`
	ImagePaths    []string `json:"image_paths"`
}

// NewLinks returns Links with non-nil, empty lists.
func NewLinks() *Links {
	return &Links{CategoryPaths: []string{}, ImagePaths: []string{}}
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.ID < 1 {
		return Errorf(EINVALID, "record id must be positive")
	}
	if r.Path == "" {
		return Errorf(EINVALID, "record path required")
	}
	if r.Type == TypeArticle && r.Links == nil {
		return Errorf(EINVALID, "article record %q requires links", r.Path)
	}
	return nil
}

// RecordStore persists records with atomic semantics.
// Save stages a record; Commit makes all staged records permanent;
// Abort discards them.
type RecordStore interface {
	Save(record *Record) error
	Commit() error
	Abort() error
}

// MultiRecordStore fans out every call to several stores.
type MultiRecordStore []RecordStore

// Ensure MultiRecordStore implements RecordStore at compile time.
var _ RecordStore = MultiRecordStore(nil)

// Save saves the record in every store, stopping at the first error.
func (m MultiRecordStore) Save(record *Record) error {
	for _, s := range m {
		if err := s.Save(record); err != nil {
			return err
		}
	}
	return nil
}

// Commit commits every store, stopping at the first error.
func (m MultiRecordStore) Commit() error {
	for _, s := range m {
		if err := s.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// Abort aborts every store and returns the first error encountered.
func (m MultiRecordStore) Abort() error {
	var first error
	for _, s := range m {
		if err := s.Abort(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
