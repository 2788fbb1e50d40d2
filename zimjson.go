// Package zimjson projects the content of an OpenZIM archive into a bounded,
// normalized JSON document. It classifies each entry by namespace and type,
// drops entries that carry no content of their own (container redirects,
// script assets, meta-refresh pages) and, for page-like entries, keeps only
// the main content fragment along with its category and image references.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., zim/, goquery/, sqlite/).
package zimjson

// DefaultMaxObjects is the number of records extracted when no limit is given.
const DefaultMaxObjects = 40
