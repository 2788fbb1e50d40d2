package zimjson

// Inspector examines decoded HTML. Implementations are lenient: malformed
// markup never fails, it simply matches nothing.
type Inspector interface {
	// IsMetaRefresh reports whether any <meta> element carries
	// http-equiv="refresh" (case-insensitive) with a non-empty content.
	IsMetaRefresh(html string) bool

	// MainFragment returns the trimmed inner HTML of the first <main>
	// element, or an empty string when there is none.
	MainFragment(html string) string

	// HarvestLinks collects category hrefs and image srcs from a fragment.
	HarvestLinks(fragment string) *Links
}
