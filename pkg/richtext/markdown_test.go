package richtext

import (
	"strings"
	"testing"
)

func TestToMarkdown(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			name: "plain paragraph",
			json: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hello world"}]}]}`,
			want: "Hello world\n",
		},
		{
			name: "heading levels",
			json: `{"type":"doc","content":[{"type":"heading","attrs":{"level":2},"content":[{"type":"text","text":"Title"}]},{"type":"paragraph","content":[{"type":"text","text":"Body"}]}]}`,
			want: "## Title\n\nBody\n",
		},
		{
			name: "bold and italic marks",
			json: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"plain "},{"type":"text","text":"bold","marks":[{"type":"bold"}]},{"type":"text","text":" and "},{"type":"text","text":"slanted","marks":[{"type":"italic"}]}]}]}`,
			want: "plain **bold** and _slanted_\n",
		},
		{
			name: "stacked marks keep wrapper order",
			json: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"x","marks":[{"type":"bold"},{"type":"italic"}]}]}]}`,
			want: "**_x_**\n",
		},
		{
			name: "link mark",
			json: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"docs","marks":[{"type":"link","attrs":{"href":"https://example.com"}}]}]}]}`,
			want: "[docs](https://example.com)\n",
		},
		{
			name: "bullet list",
			json: `{"type":"doc","content":[{"type":"bulletList","content":[{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"one"}]}]},{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"two"}]}]}]}]}`,
			want: "- one\n- two\n",
		},
		{
			name: "ordered list with start",
			json: `{"type":"doc","content":[{"type":"orderedList","attrs":{"start":3},"content":[{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"three"}]}]},{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"four"}]}]}]}]}`,
			want: "3. three\n4. four\n",
		},
		{
			name: "task list",
			json: `{"type":"doc","content":[{"type":"taskList","content":[{"type":"taskItem","attrs":{"checked":true},"content":[{"type":"paragraph","content":[{"type":"text","text":"done"}]}]},{"type":"taskItem","attrs":{"checked":false},"content":[{"type":"paragraph","content":[{"type":"text","text":"todo"}]}]}]}]}`,
			want: "- [x] done\n- [ ] todo\n",
		},
		{
			name: "code block with language",
			json: `{"type":"doc","content":[{"type":"codeBlock","attrs":{"language":"go"},"content":[{"type":"text","text":"fmt.Println(1)"}]}]}`,
			want: "```go\nfmt.Println(1)\n```\n",
		},
		{
			name: "blockquote",
			json: `{"type":"doc","content":[{"type":"blockquote","content":[{"type":"paragraph","content":[{"type":"text","text":"quoted"}]}]}]}`,
			want: "> quoted\n",
		},
		{
			name: "horizontal rule",
			json: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"a"}]},{"type":"horizontalRule"},{"type":"paragraph","content":[{"type":"text","text":"b"}]}]}`,
			want: "a\n\n---\n\nb\n",
		},
	}

	r := NewRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ToMarkdown(tt.json)
			if err != nil {
				t.Fatalf("ToMarkdown: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToMarkdownRejectsNonDoc(t *testing.T) {
	if _, err := NewRenderer().ToMarkdown(`{"type":"paragraph"}`); err == nil {
		t.Error("expected error for non-doc root")
	}
	if _, err := NewRenderer().ToMarkdown(`not json at all`); err == nil {
		t.Error("expected error for invalid json")
	}
}

func TestConvertPassthrough(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"markdown stays", "# Already markdown\n\ntext", "# Already markdown\n\ntext"},
		{"broken json stays", "{oops", "{oops"},
		{"empty stays", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Convert(tt.content); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	doc := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"converted"}]}]}`
	if got := Convert(doc); !strings.Contains(got, "converted") {
		t.Errorf("doc json must convert, got %q", got)
	}
}
