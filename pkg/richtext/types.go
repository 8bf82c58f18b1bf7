package richtext

import "encoding/json"

// Doc is the top-level editor state: a "doc" node wrapping block content.
type Doc struct {
	Type    string `json:"type"`
	Content []Node `json:"content,omitempty"`
}

// Node is any node in the editor's document tree. Block nodes carry
// Content; text leaves carry Text plus Marks.
type Node struct {
	Type    string `json:"type"`
	Content []Node `json:"content,omitempty"`
	Text    string `json:"text,omitempty"`
	Marks   []Mark `json:"marks,omitempty"`
	Attrs   *Attrs `json:"attrs,omitempty"`
}

// Mark is inline formatting attached to a text node.
type Mark struct {
	Type  string `json:"type"`
	Attrs *Attrs `json:"attrs,omitempty"`
}

// Attrs covers the attribute sets of the node/mark types we render.
// Unknown attributes are ignored on purpose.
type Attrs struct {
	Level    int    `json:"level,omitempty"`    // heading
	Start    int    `json:"start,omitempty"`    // orderedList
	Href     string `json:"href,omitempty"`     // link mark
	Language string `json:"language,omitempty"` // codeBlock
	Checked  *bool  `json:"checked,omitempty"`  // taskItem
	Color    string `json:"color,omitempty"`    // textStyle mark
	Align    string `json:"textAlign,omitempty"`

	// Catch-all for attrs we pass through untouched.
	Rest map[string]json.RawMessage `json:"-"`
}

// Node type names the renderer understands.
const (
	NodeDoc            = "doc"
	NodeParagraph      = "paragraph"
	NodeHeading        = "heading"
	NodeBlockquote     = "blockquote"
	NodeBulletList     = "bulletList"
	NodeOrderedList    = "orderedList"
	NodeListItem       = "listItem"
	NodeTaskList       = "taskList"
	NodeTaskItem       = "taskItem"
	NodeCodeBlock      = "codeBlock"
	NodeText           = "text"
	NodeHardBreak      = "hardBreak"
	NodeHorizontalRule = "horizontalRule"
)

// Mark type names.
const (
	MarkBold      = "bold"
	MarkItalic    = "italic"
	MarkStrike    = "strike"
	MarkUnderline = "underline"
	MarkCode      = "code"
	MarkLink      = "link"
	MarkTextStyle = "textStyle"
)
