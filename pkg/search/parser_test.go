package search

import (
	"testing"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		wantFolderName  string
		wantDocTitle    string
		wantSearchQuery string
	}{
		{
			name:            "plain query",
			raw:             "meeting notes from last week",
			wantSearchQuery: "meeting notes from last week",
		},
		{
			name:            "folder filter",
			raw:             "/folder:work quarterly report",
			wantFolderName:  "work",
			wantSearchQuery: "quarterly report",
		},
		{
			name:            "in alias",
			raw:             "/in:drafts outline",
			wantFolderName:  "drafts",
			wantSearchQuery: "outline",
		},
		{
			name:            "doc filter",
			raw:             "/doc:roadmap",
			wantDocTitle:    "roadmap",
			wantSearchQuery: "",
		},
		{
			name:            "combined filters",
			raw:             "/folder:work /doc:roadmap milestones",
			wantFolderName:  "work",
			wantDocTitle:    "roadmap",
			wantSearchQuery: "milestones",
		},
		{
			name:            "filters are lowercased",
			raw:             "/Folder:Work Report",
			wantFolderName:  "work",
			wantSearchQuery: "Report",
		},
		{
			name:            "filter mid-query",
			raw:             "budget /in:finance summary",
			wantFolderName:  "finance",
			wantSearchQuery: "budget summary",
		},
		{
			name:            "empty input",
			raw:             "",
			wantSearchQuery: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuery(tt.raw)

			if got.FolderName != tt.wantFolderName {
				t.Errorf("FolderName = %q, want %q", got.FolderName, tt.wantFolderName)
			}

			if got.DocTitle != tt.wantDocTitle {
				t.Errorf("DocTitle = %q, want %q", got.DocTitle, tt.wantDocTitle)
			}

			if got.SearchQuery != tt.wantSearchQuery {
				t.Errorf("SearchQuery = %q, want %q", got.SearchQuery, tt.wantSearchQuery)
			}
		})
	}
}
