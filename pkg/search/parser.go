package search

import (
	"strings"
)

// SearchFilters holds the extracted filters and the remaining clean query
type SearchFilters struct {
	FolderName  string
	DocTitle    string
	SearchQuery string // The remaining text to search in Title/Content
}

// ParseQuery extracts slash commands from the raw query string
// Supported:
// /folder:<term> OR /in:<term> -> Filter by Folder Name
// /doc:<term> -> Filter by Document Title
// <text> -> Remaining text is the SearchQuery
func ParseQuery(raw string) SearchFilters {
	filters := SearchFilters{}
	parts := strings.Fields(raw)
	var cleanParts []string

	for _, part := range parts {
		lowerPart := strings.ToLower(part)

		if strings.HasPrefix(lowerPart, "/folder:") {
			filters.FolderName = strings.TrimPrefix(lowerPart, "/folder:")
		} else if strings.HasPrefix(lowerPart, "/in:") {
			// Alias for /folder:
			filters.FolderName = strings.TrimPrefix(lowerPart, "/in:")
		} else if strings.HasPrefix(lowerPart, "/doc:") {
			filters.DocTitle = strings.TrimPrefix(lowerPart, "/doc:")
		} else {
			cleanParts = append(cleanParts, part)
		}
	}

	filters.SearchQuery = strings.Join(cleanParts, " ")
	return filters
}
