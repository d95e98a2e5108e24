package lsp

import (
	"strings"
	"testing"

	"github.com/dhamidi/comb/ebnf"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const listGrammar = `
	list = "[" [ item { "," item } ] "]" .
	item = Word | list .
	Word = Letter { Letter } .
	Letter = "a" … "z" .
	Space = " " | "\n" .
`

func compileList(t *testing.T) *ebnf.Grammar {
	t.Helper()
	src, err := ebnf.ParseGrammar("list.ebnf", strings.NewReader(listGrammar))
	if err != nil {
		t.Fatal(err)
	}
	g, err := ebnf.Compile(src, "list", ebnf.WithSkip("Space"))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestDiagnose(t *testing.T) {
	g := compileList(t)
	defer g.Free()

	tests := []struct {
		name  string
		text  string
		count int
		start protocol.Position
	}{
		{"valid", "[a, [b]]", 0, protocol.Position{}},
		{"trailing", "[a]\n]", 1, protocol.Position{Line: 0, Character: 3}},
		{"no prefix", "a", 1, protocol.Position{Line: 0, Character: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Diagnose(g, []byte(tt.text))
			if len(diags) != tt.count {
				t.Fatalf("got %d diagnostics: %v", len(diags), diags)
			}
			if tt.count == 0 {
				return
			}
			d := diags[0]
			if d.Range.Start != tt.start {
				t.Errorf("start = %+v, want %+v", d.Range.Start, tt.start)
			}
			if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
				t.Errorf("severity = %v", d.Severity)
			}
		})
	}
}

func TestHover(t *testing.T) {
	g := compileList(t)
	defer g.Free()

	text := []byte("[a,\n [bc]]")
	path, node := Hover(g, text, protocol.Position{Line: 1, Character: 2})
	if node == nil {
		t.Fatal("no node under cursor")
	}
	want := []string{"list", "item", "list", "item", "Word"}
	if strings.Join(path, " ") != strings.Join(want, " ") {
		t.Errorf("path = %v, want %v", path, want)
	}
	if node.Text != "bc" {
		t.Errorf("node text = %q", node.Text)
	}

	if path, node := Hover(g, []byte("[a"), protocol.Position{}); node != nil {
		t.Errorf("hover on invalid text = %v", path)
	}
}

func TestOffsetConversion(t *testing.T) {
	text := []byte("ab\ncd\n")
	tests := []struct {
		pos    protocol.Position
		offset int
	}{
		{protocol.Position{Line: 0, Character: 0}, 0},
		{protocol.Position{Line: 0, Character: 2}, 2},
		{protocol.Position{Line: 1, Character: 1}, 4},
		{protocol.Position{Line: 2, Character: 0}, 6},
		{protocol.Position{Line: 9, Character: 0}, 6},
	}
	for _, tt := range tests {
		if got := toOffset(text, tt.pos); got != tt.offset {
			t.Errorf("toOffset(%+v) = %d, want %d", tt.pos, got, tt.offset)
		}
		if tt.pos.Line < 3 {
			if got := toPosition(text, tt.offset); got != tt.pos {
				t.Errorf("toPosition(%d) = %+v, want %+v", tt.offset, got, tt.pos)
			}
		}
	}
}
