package format

import (
	"errors"
	"testing"

	"github.com/gubarz/lyfmt/internal/parser"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "header round-trip",
			input:    `\header { title = "Foo"   composer="Bar" }`,
			expected: "\\header {\n\ttitle = \"Foo\"\n\tcomposer = \"Bar\"\n}",
		},
		{
			name:     "header drops free text",
			input:    `\header { title = "Foo" some words tagline = ##f subtitle ="Sub" }`,
			expected: "\\header {\n\ttitle = \"Foo\"\n\tsubtitle = \"Sub\"\n}",
		},
		{
			name:     "header escaped quote",
			input:    `\header{title="Say \"hi\""}`,
			expected: "\\header {\n\ttitle = \"Say \\\"hi\\\"\"\n}",
		},
		{
			name:     "empty header",
			input:    `\header {}`,
			expected: "\\header {\n}",
		},
		{
			name:     "version spacing",
			input:    `\version    "2.20.0"`,
			expected: `\version "2.20.0"`,
		},
		{
			name:     "version without space",
			input:    `\version"2.24.1"`,
			expected: `\version "2.24.1"`,
		},
		{
			name:     "voice with bar check",
			input:    "melody = \\relative c' {\n  c4 d e f \\barNumberCheck #12\n  g a b c\n}\n",
			expected: "melody = \\relative c' {\n\tc4 d e f\n\t%12\n\tg a b c\n}\n",
		},
		{
			name:     "voice anchor spacing",
			input:    "bass=\\relative   c,\n{ c1 }",
			expected: "bass = \\relative c, {\n\tc1\n}",
		},
		{
			name:     "voice without pitch",
			input:    "alto = \\relative { e4 f }",
			expected: "alto = \\relative {\n\te4 f\n}",
		},
		{
			name:     "voice keeps words before relative",
			input:    "upper = \\new Voice   \\relative c'' { c }",
			expected: "upper = \\new Voice \\relative c'' {\n\tc\n}",
		},
		{
			name:     "voice empty body",
			input:    "rest = \\relative c {   }",
			expected: "rest = \\relative c {\n}",
		},
		{
			name:     "voice nested braces",
			input:    "v = \\relative c' { \\tuplet 3/2 { c d e }\n f }",
			expected: "v = \\relative c' {\n\t\\tuplet 3/2 { c d e } f\n}",
		},
		{
			name:     "voice comment splitting",
			input:    "v = \\relative c' { c d % 5 e f }",
			expected: "v = \\relative c' {\n\tc d\n\t% 5\n\te f\n}",
		},
		{
			name:     "voice stem dedup",
			input:    "v = \\relative c' { \\stemUp c \\stemUp d \\stemDown e \\stemDown f }",
			expected: "v = \\relative c' {\n\t\\stemUp c d \\stemDown e f\n}",
		},
		{
			name:     "voice with commented gap is left alone",
			input:    "melody = % c\n \\relative c' { c }",
			expected: "melody = % c\n \\relative c' { c }",
		},
		{
			name: "whole document",
			input: "\\version  \"2.24.0\"\n" +
				"\\header {title=\"Etude\"}\n" +
				"melody = \\relative c'' {\n    c4 d\n  e f\n}\n",
			expected: "\\version \"2.24.0\"\n" +
				"\\header {\n\ttitle = \"Etude\"\n}\n" +
				"melody = \\relative c'' {\n\tc4 d e f\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res, err := Text(tt.input, DefaultOptions())
			if err != nil {
				t.Fatalf("Text: %v", err)
			}
			if len(res.Problems) != 0 {
				t.Errorf("unexpected problems: %v", res.Problems)
			}
			if got != tt.expected {
				t.Errorf("Text =\n%q\nwant\n%q", got, tt.expected)
			}
		})
	}
}

func TestIdempotence(t *testing.T) {
	inputs := map[string]string{
		"header":  `\header { title = "Foo"   composer="Bar" }`,
		"version": `\version    "2.20.0"`,
		"voice":   "melody = \\relative c' {\n  c4 d e f \\barNumberCheck #12\n  g a % 3 b c\n  \\stemUp d \\stemUp e\n}\n",
		"document": "\\version \"2.24.0\"\n\\header{ title = \"A\" }\n" +
			"one = \\relative c'' { a b }\ntwo = \\relative { \\stemDown c }\n",
		"crlf": "\\header { title = \"A\" }\r\nv = \\relative c' { c\r\n d }\r\n",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			once, _, err := Text(input, DefaultOptions())
			if err != nil {
				t.Fatalf("first pass: %v", err)
			}
			res := Document(once, DefaultOptions())
			if len(res.Edits) != 0 {
				t.Errorf("formatted document produced %d edits: %+v", len(res.Edits), res.Edits)
			}
			if res.Blocks == 0 {
				t.Errorf("second pass located no blocks")
			}

			kept := DefaultOptions()
			kept.KeepUnchanged = true
			for _, e := range Document(once, kept).Edits {
				if e.Changed() {
					t.Errorf("%s edit at %d changes text: %q -> %q", e.Kind, e.Start, e.OldText, e.NewText)
				}
			}
		})
	}
}

func TestTextKeepsCRLF(t *testing.T) {
	input := "\\header { title = \"A\" }\r\nv = \\relative c' { c\r\n d }\r\n"
	expected := "\\header {\r\n\ttitle = \"A\"\r\n}\r\nv = \\relative c' {\r\n\tc d\r\n}\r\n"

	got, _, err := Text(input, DefaultOptions())
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != expected {
		t.Errorf("Text =\n%q\nwant\n%q", got, expected)
	}
}

func TestLineEnding(t *testing.T) {
	tests := map[string]string{
		"":              "\n",
		"a\nb\r\n":      "\n",
		"a\r\nb\n":      "\r\n",
		"\r\n":          "\r\n",
		"no line break": "\n",
	}
	for text, expected := range tests {
		if got := lineEnding(text); got != expected {
			t.Errorf("lineEnding(%q) = %q, want %q", text, got, expected)
		}
	}
}

func TestDocumentOrderAndOffsets(t *testing.T) {
	text := "v = \\relative c { c }\n\\header { a = \"b\" }\n\\version  \"1\"\n"
	res := Document(text, DefaultOptions())

	if len(res.Edits) != 3 {
		t.Fatalf("expected 3 edits, got %d", len(res.Edits))
	}
	expectedKinds := []parser.Kind{parser.KindHeader, parser.KindVersion, parser.KindVoice}
	for i, kind := range expectedKinds {
		if res.Edits[i].Kind != kind {
			t.Errorf("edit %d kind = %s, want %s", i, res.Edits[i].Kind, kind)
		}
	}
	for _, e := range res.Edits {
		if text[e.Start:e.End] != e.OldText {
			t.Errorf("%s edit range [%d, %d) = %q, OldText %q", e.Kind, e.Start, e.End, text[e.Start:e.End], e.OldText)
		}
	}
}

func TestDocumentOverlap(t *testing.T) {
	text := `\header { x = \relative c { c } title = "T" }`
	res := Document(text, DefaultOptions())

	if len(res.Edits) != 1 || res.Edits[0].Kind != parser.KindHeader {
		t.Fatalf("expected only the header edit, got %+v", res.Edits)
	}
	if res.Edits[0].NewText != "\\header {\n\ttitle = \"T\"\n" {
		t.Errorf("header text = %q", res.Edits[0].NewText)
	}

	var overlap *OverlapError
	if !errors.As(res.Err(), &overlap) {
		t.Fatalf("expected OverlapError, got %v", res.Err())
	}
	if overlap.Kind != parser.KindVoice || overlap.WithKind != parser.KindHeader {
		t.Errorf("unexpected overlap: %+v", overlap)
	}
}

func TestDocumentMalformed(t *testing.T) {
	text := "\\version \"2.24.0\nmelody = \\relative c' { c   d\n\\header  { title = \"x\" }"
	res := Document(text, DefaultOptions())

	if len(res.Edits) != 1 || res.Edits[0].Kind != parser.KindHeader {
		t.Fatalf("expected only the header edit, got %+v", res.Edits)
	}

	// The unterminated voice is malformed. The unterminated version string
	// runs to the header's first quote and collides with the header.
	var malformed *parser.MalformedBlockError
	var overlap *OverlapError
	for _, p := range res.Problems {
		switch {
		case errors.As(p, &malformed):
			if malformed.Kind != parser.KindVoice {
				t.Errorf("unexpected malformed %s block", malformed.Kind)
			}
		case errors.As(p, &overlap):
			if overlap.Kind != parser.KindVersion {
				t.Errorf("unexpected overlapping %s block", overlap.Kind)
			}
		default:
			t.Errorf("unexpected problem: %v", p)
		}
	}
	if len(res.Problems) != 2 {
		t.Errorf("expected 2 problems, got %v", res.Problems)
	}
}

func TestDocumentKinds(t *testing.T) {
	text := "\\version   \"2\"\n\\header{a=\"b\"}"
	opts := DefaultOptions()
	opts.Kinds = []parser.Kind{parser.KindVersion}

	res := Document(text, opts)
	if len(res.Edits) != 1 || res.Edits[0].Kind != parser.KindVersion {
		t.Errorf("expected only a version edit, got %+v", res.Edits)
	}
}

func TestDocumentIndent(t *testing.T) {
	opts := DefaultOptions()
	opts.Indent = "  "

	got, _, err := Text("\\header{a=\"b\"}\nv = \\relative { c }", opts)
	if err != nil {
		t.Fatal(err)
	}
	expected := "\\header {\n  a = \"b\"\n}\nv = \\relative {\n  c\n}"
	if got != expected {
		t.Errorf("Text = %q, want %q", got, expected)
	}
}
