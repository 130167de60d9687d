package views

import "strings"

// Searchable is implemented by records that expose values for the
// free-text list filter.
type Searchable interface {
	SearchText() []string
}

// Filter returns the records whose search text contains the query as
// a case-insensitive substring. It is a pure function of its inputs:
// the held list is never mutated, and an empty query returns all
// records in their original order.
func Filter[T any, PT interface {
	*T
	Searchable
}](records []T, query string) []T {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		out := make([]T, len(records))
		copy(out, records)
		return out
	}

	out := make([]T, 0, len(records))
	for i := range records {
		if matches(PT(&records[i]), query) {
			out = append(out, records[i])
		}
	}
	return out
}

func matches(record Searchable, query string) bool {
	for _, text := range record.SearchText() {
		if strings.Contains(strings.ToLower(text), query) {
			return true
		}
	}
	return false
}
