package editor

import "errors"

// Range is an ordered pair of rune offsets into the document's flat text
// space. Start <= End always holds for a valid range.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r Range) Empty() bool {
	return r.Start >= r.End
}

func (r Range) Valid() bool {
	return r.Start >= 0 && r.Start <= r.End
}

var (
	ErrInvalidRange     = errors.New("editor: range start must not exceed end")
	ErrRangeOutOfBounds = errors.New("editor: range exceeds document bounds")
)

// Document is the four-operation contract the writing-assistance layer
// depends on: read the selection, read text between offsets, replace a
// window, export the whole document. Len and Revision exist so callers can
// validate ranges and detect edits made underneath them.
type Document interface {
	Selection() Range
	SetSelection(r Range) error
	TextBetween(from, to int) (string, error)
	ReplaceRange(from, to int, text string) error
	Export() string
	Len() int
	Revision() uint64
}

// SelectedText reads the document's current selection. An empty string
// means nothing is selected.
func SelectedText(doc Document) (string, error) {
	sel := doc.Selection()
	if sel.Empty() {
		return "", nil
	}
	return doc.TextBetween(sel.Start, sel.End)
}
