package zimjson

import "slices"

// SkipReason explains why an entry was left out of the output.
type SkipReason string

// Skip reasons. SkipNone means the entry is kept.
const (
	SkipNone        SkipReason = ""
	SkipRedirect    SkipReason = "redirect"
	SkipMimeType    SkipReason = "mimetype"
	SkipMetaRefresh SkipReason = "meta-refresh"
	SkipLookup      SkipReason = "lookup"
)

// SkipReasons lists every reason an entry can be skipped, in pipeline order.
var SkipReasons = []SkipReason{SkipRedirect, SkipMimeType, SkipMetaRefresh, SkipLookup}

// MimeTypeJavaScript is excluded by the default skip policy.
const MimeTypeJavaScript = "application/javascript"

// SkipPolicy is the structural skip check. It looks only at the redirect
// flag and the item mimetype, so it runs before any content is decoded.
type SkipPolicy struct {
	// MimeTypes lists item mimetypes that are never extracted.
	MimeTypes []string
}

// DefaultSkipPolicy skips container redirects and JavaScript assets.
func DefaultSkipPolicy() SkipPolicy {
	return SkipPolicy{MimeTypes: []string{MimeTypeJavaScript}}
}

// With returns a copy of the policy that also skips the given mimetypes.
func (p SkipPolicy) With(mimeTypes ...string) SkipPolicy {
	merged := slices.Clone(p.MimeTypes)
	for _, m := range mimeTypes {
		if m != "" && !slices.Contains(merged, m) {
			merged = append(merged, m)
		}
	}
	return SkipPolicy{MimeTypes: merged}
}

// Check returns the reason the entry must be skipped, or SkipNone.
func (p SkipPolicy) Check(e *Entry) SkipReason {
	if e.IsRedirect {
		return SkipRedirect
	}
	if e.Item != nil && slices.Contains(p.MimeTypes, e.Item.MimeType) {
		return SkipMimeType
	}
	return SkipNone
}
