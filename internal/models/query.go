package models

import (
	"strings"
)

// absentFilter is the sentinel placed in cache keys for filters the caller
// did not supply.
const absentFilter = "all"

// SearchQuery is a normalized catalog search: three optional substring
// filters plus the personal flag. Build it with NewSearchQuery so the
// filters are always in canonical lowercase/trimmed form.
type SearchQuery struct {
	Subject   string
	ClassName string
	School    string
	Personal  bool
}

func NewSearchQuery(subject, className, school string, personal bool) SearchQuery {
	return SearchQuery{
		Subject:   normalizeFilter(subject),
		ClassName: normalizeFilter(className),
		School:    normalizeFilter(school),
		Personal:  personal,
	}
}

func normalizeFilter(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// keyEscaper makes the key delimiter unreachable from filter content. A
// literal ':' inside a filter becomes '\:' in the key, so two distinct
// queries can never collapse into one key.
var keyEscaper = strings.NewReplacer(`\`, `\\`, ":", `\:`)

// CacheKey returns the stable cache key for this query. Personal queries
// are never cached and have no key.
func (q SearchQuery) CacheKey() string {
	if q.Personal {
		return ""
	}

	return "search:" + keySegment(q.Subject) + ":" + keySegment(q.ClassName) + ":" + keySegment(q.School)
}

func keySegment(filter string) string {
	if filter == "" {
		return absentFilter
	}
	return keyEscaper.Replace(filter)
}
