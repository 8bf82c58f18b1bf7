package editor

import (
	"sync"
)

// Buffer is the in-memory Document implementation backing one editor
// session. Offsets are rune offsets, so multi-byte characters count as one
// position — the same flat text space the browser widget reports.
type Buffer struct {
	mu        sync.RWMutex
	runes     []rune
	selection Range
	revision  uint64
}

var _ Document = &Buffer{}

func NewBuffer(text string) *Buffer {
	return &Buffer{
		runes: []rune(text),
	}
}

func (b *Buffer) Selection() Range {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selection
}

func (b *Buffer) SetSelection(r Range) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !r.Valid() {
		return ErrInvalidRange
	}
	if r.End > len(b.runes) {
		return ErrRangeOutOfBounds
	}
	b.selection = r
	return nil
}

func (b *Buffer) TextBetween(from, to int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if from < 0 || from > to {
		return "", ErrInvalidRange
	}
	if to > len(b.runes) {
		return "", ErrRangeOutOfBounds
	}
	return string(b.runes[from:to]), nil
}

// ReplaceRange swaps the content of [from, to) for text. The selection is
// remapped: offsets past the window shift by the length delta, offsets
// inside the window collapse to the end of the inserted text. Every
// successful call bumps the revision.
func (b *Buffer) ReplaceRange(from, to int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if from < 0 || from > to {
		return ErrInvalidRange
	}
	if to > len(b.runes) {
		return ErrRangeOutOfBounds
	}

	inserted := []rune(text)
	updated := make([]rune, 0, len(b.runes)-(to-from)+len(inserted))
	updated = append(updated, b.runes[:from]...)
	updated = append(updated, inserted...)
	updated = append(updated, b.runes[to:]...)
	b.runes = updated

	b.selection = Range{
		Start: remapOffset(b.selection.Start, from, to, len(inserted)),
		End:   remapOffset(b.selection.End, from, to, len(inserted)),
	}
	b.revision++
	return nil
}

func remapOffset(pos, from, to, insertedLen int) int {
	switch {
	case pos <= from:
		return pos
	case pos >= to:
		return pos - (to - from) + insertedLen
	default:
		return from + insertedLen
	}
}

func (b *Buffer) Export() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.runes)
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.runes)
}

func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}
