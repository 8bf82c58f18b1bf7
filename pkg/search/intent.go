package search

import "strings"

type SearchStrategy string

const (
	StrategyLiteral  SearchStrategy = "literal"
	StrategySemantic SearchStrategy = "semantic"
)

// looksExact reports the signals that a query targets an exact string rather
// than a topic: very short tokens (acronyms, codes), explicit quoting, and
// structured separators such as paths, key:value or key=value pairs.
func looksExact(query string) bool {
	if len(query) <= 3 {
		return true
	}
	if strings.HasPrefix(query, `"`) && strings.HasSuffix(query, `"`) {
		return true
	}
	return strings.ContainsAny(query, "/:=")
}

// DetermineStrategy picks how a free-text query is answered: literal ILIKE
// matching for exact-looking input, vector search for everything else.
func DetermineStrategy(query string) SearchStrategy {
	if looksExact(strings.TrimSpace(query)) {
		return StrategyLiteral
	}
	return StrategySemantic
}
