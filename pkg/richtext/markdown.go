package richtext

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Renderer converts editor-state JSON to markdown. The markdown is the
// document's flat text projection: editor sessions, chat grounding and the
// index pipeline all work on it.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// ToMarkdown converts an editor-state JSON string to markdown.
func (r *Renderer) ToMarkdown(jsonContent string) (string, error) {
	var doc Doc
	if err := json.Unmarshal([]byte(jsonContent), &doc); err != nil {
		return "", fmt.Errorf("failed to parse editor state json: %w", err)
	}
	if doc.Type != NodeDoc {
		return "", fmt.Errorf("unexpected root node type %q", doc.Type)
	}

	var sb strings.Builder
	for _, child := range doc.Content {
		r.walkBlock(child, &sb, 0)
	}
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

// Convert renders content that may or may not be editor-state JSON. Plain
// text (already markdown, or anything unparseable) passes through as-is.
func Convert(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return content
	}

	md, err := NewRenderer().ToMarkdown(trimmed)
	if err != nil {
		// Fallback to original content if parsing fails
		return content
	}
	return md
}

func (r *Renderer) walkBlock(node Node, sb *strings.Builder, depth int) {
	switch node.Type {
	case NodeParagraph:
		r.renderInline(node.Content, sb)
		sb.WriteString("\n\n")

	case NodeHeading:
		level := 1
		if node.Attrs != nil && node.Attrs.Level > 0 {
			level = node.Attrs.Level
		}
		sb.WriteString(strings.Repeat("#", level) + " ")
		r.renderInline(node.Content, sb)
		sb.WriteString("\n\n")

	case NodeBlockquote:
		var inner strings.Builder
		for _, child := range node.Content {
			r.walkBlock(child, &inner, depth)
		}
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			sb.WriteString("> " + line + "\n")
		}
		sb.WriteString("\n")

	case NodeBulletList, NodeOrderedList, NodeTaskList:
		r.renderList(node, sb, depth)
		if depth == 0 {
			sb.WriteString("\n")
		}

	case NodeCodeBlock:
		lang := ""
		if node.Attrs != nil {
			lang = node.Attrs.Language
		}
		sb.WriteString("```" + lang + "\n")
		for _, child := range node.Content {
			if child.Type == NodeText {
				sb.WriteString(child.Text)
			}
		}
		sb.WriteString("\n```\n\n")

	case NodeHorizontalRule:
		sb.WriteString("---\n\n")

	default:
		// Unknown block: recurse so nested text is not lost.
		for _, child := range node.Content {
			r.walkBlock(child, sb, depth)
		}
	}
}

func (r *Renderer) renderList(node Node, sb *strings.Builder, depth int) {
	index := 1
	if node.Attrs != nil && node.Attrs.Start > 0 {
		index = node.Attrs.Start
	}

	for _, item := range node.Content {
		if item.Type != NodeListItem && item.Type != NodeTaskItem {
			continue
		}

		sb.WriteString(strings.Repeat("  ", depth))

		switch {
		case node.Type == NodeOrderedList:
			sb.WriteString(fmt.Sprintf("%d. ", index))
			index++
		case item.Type == NodeTaskItem:
			if item.Attrs != nil && item.Attrs.Checked != nil && *item.Attrs.Checked {
				sb.WriteString("- [x] ")
			} else {
				sb.WriteString("- [ ] ")
			}
		default:
			sb.WriteString("- ")
		}

		// A list item usually wraps a paragraph, possibly followed by a
		// nested list.
		wroteInline := false
		for _, child := range item.Content {
			switch child.Type {
			case NodeParagraph:
				if wroteInline {
					sb.WriteString(" ")
				}
				r.renderInline(child.Content, sb)
				wroteInline = true
			case NodeBulletList, NodeOrderedList, NodeTaskList:
				sb.WriteString("\n")
				r.renderList(child, sb, depth+1)
			default:
				r.renderInline([]Node{child}, sb)
				wroteInline = true
			}
		}
		if !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteString("\n")
		}
	}
}

func (r *Renderer) renderInline(nodes []Node, sb *strings.Builder) {
	for _, node := range nodes {
		switch node.Type {
		case NodeText:
			r.renderText(node, sb)
		case NodeHardBreak:
			sb.WriteString("  \n")
		default:
			r.renderInline(node.Content, sb)
		}
	}
}

func (r *Renderer) renderText(node Node, sb *strings.Builder) {
	var bold, italic, strike, underline, code bool
	var href, openSpan string

	for _, mark := range node.Marks {
		switch mark.Type {
		case MarkBold:
			bold = true
		case MarkItalic:
			italic = true
		case MarkStrike:
			strike = true
		case MarkUnderline:
			underline = true
		case MarkCode:
			code = true
		case MarkLink:
			if mark.Attrs != nil {
				href = mark.Attrs.Href
			}
		case MarkTextStyle:
			openSpan = annotatedOpenTag(mark.Attrs)
		}
	}

	if href != "" {
		sb.WriteString("[")
	}
	if openSpan != "" {
		sb.WriteString(openSpan)
	}

	// Wrapper order: code > bold > italic > underline > strike. Underline
	// has no portable markdown form, so HTML <u> is used.
	if code {
		sb.WriteString("`")
	}
	if bold {
		sb.WriteString("**")
	}
	if italic {
		sb.WriteString("_")
	}
	if underline {
		sb.WriteString("<u>")
	}
	if strike {
		sb.WriteString("~~")
	}

	sb.WriteString(node.Text)

	if strike {
		sb.WriteString("~~")
	}
	if underline {
		sb.WriteString("</u>")
	}
	if italic {
		sb.WriteString("_")
	}
	if bold {
		sb.WriteString("**")
	}
	if code {
		sb.WriteString("`")
	}

	if openSpan != "" {
		sb.WriteString("</span>")
	}
	if href != "" {
		sb.WriteString(fmt.Sprintf("](%s)", href))
	}
}
