package richtext

import "strings"

// annotatedOpenTag renders a span for textStyle marks whose attributes are
// worth preserving for model context (colors carry meaning in many docs:
// highlighted passages, red warnings). Returns "" when nothing relevant.
func annotatedOpenTag(attrs *Attrs) string {
	if attrs == nil {
		return ""
	}

	var relevant []string
	if attrs.Color != "" {
		relevant = append(relevant, "color:"+attrs.Color)
	}

	if len(relevant) == 0 {
		return ""
	}
	return "<span style=\"" + strings.Join(relevant, "; ") + "\">"
}
