package constant

const (
	// How many stored messages are replayed as conversation context for a
	// new chat turn. Oldest messages beyond this are dropped, not summarized.
	ChatHistoryLimit = 20

	ChatDefaultTitle = "New Chat"

	// Semantic Search
	SearchDefaultLimit        = 10
	SearchMaxLimit            = 50
	SearchSimilarityThreshold = 0.35
	SearchSnippetMaxRunes     = 200
)
