package editor

import "testing"

func TestReplaceRange(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		from, to int
		text     string
		want     string
	}{
		{"replace middle", "Hello world", 6, 11, "Go", "Hello Go"},
		{"replace start", "Hello world", 0, 5, "Howdy", "Howdy world"},
		{"insert at point", "Hello world", 5, 5, ",", "Hello, world"},
		{"delete range", "Hello world", 5, 11, "", "Hello"},
		{"replace all", "Hello", 0, 5, "Bye", "Bye"},
		{"empty document insert", "", 0, 0, "x", "x"},
		{"multibyte runes", "héllo wörld", 6, 11, "go", "héllo go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.initial)
			if err := b.ReplaceRange(tt.from, tt.to, tt.text); err != nil {
				t.Fatalf("ReplaceRange: %v", err)
			}
			if got := b.Export(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplaceRangeRejectsBadRanges(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		wantErr  error
	}{
		{"negative start", -1, 2, ErrInvalidRange},
		{"inverted", 4, 2, ErrInvalidRange},
		{"past end", 0, 99, ErrRangeOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer("Hello")
			if err := b.ReplaceRange(tt.from, tt.to, "x"); err != tt.wantErr {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if b.Export() != "Hello" {
				t.Errorf("failed replace must not mutate, got %q", b.Export())
			}
			if b.Revision() != 0 {
				t.Errorf("failed replace must not bump revision, got %d", b.Revision())
			}
		})
	}
}

func TestRevisionCountsMutations(t *testing.T) {
	b := NewBuffer("abc")
	if b.Revision() != 0 {
		t.Fatalf("fresh buffer revision = %d", b.Revision())
	}
	b.ReplaceRange(0, 1, "x")
	b.ReplaceRange(1, 2, "y")
	if b.Revision() != 2 {
		t.Errorf("revision after two edits = %d, want 2", b.Revision())
	}
}

func TestSelectionRemapOnReplace(t *testing.T) {
	tests := []struct {
		name     string
		sel      Range
		from, to int
		text     string
		want     Range
	}{
		{"edit after selection leaves it alone", Range{0, 4}, 6, 11, "zz", Range{0, 4}},
		{"edit before selection shifts it", Range{6, 11}, 0, 5, "Hi", Range{3, 8}},
		{"edit inside selection collapses into inserted text", Range{2, 9}, 4, 7, "!", Range{2, 7}},
		{"selection inside edited window collapses", Range{5, 7}, 3, 9, "ab", Range{5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer("Hello world")
			if err := b.SetSelection(tt.sel); err != nil {
				t.Fatalf("SetSelection: %v", err)
			}
			if err := b.ReplaceRange(tt.from, tt.to, tt.text); err != nil {
				t.Fatalf("ReplaceRange: %v", err)
			}
			if got := b.Selection(); got != tt.want {
				t.Errorf("selection after edit = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTextBetween(t *testing.T) {
	b := NewBuffer("The quick brown fox.")
	got, err := b.TextBetween(4, 9)
	if err != nil {
		t.Fatalf("TextBetween: %v", err)
	}
	if got != "quick" {
		t.Errorf("got %q, want %q", got, "quick")
	}

	if _, err := b.TextBetween(5, 999); err != ErrRangeOutOfBounds {
		t.Errorf("out of bounds read: got %v", err)
	}
}

func TestSelectedText(t *testing.T) {
	b := NewBuffer("The quick brown fox.")

	if text, err := SelectedText(b); err != nil || text != "" {
		t.Errorf("no selection: got %q, %v", text, err)
	}

	b.SetSelection(Range{4, 9})
	text, err := SelectedText(b)
	if err != nil {
		t.Fatalf("SelectedText: %v", err)
	}
	if text != "quick" {
		t.Errorf("got %q, want %q", text, "quick")
	}
}
