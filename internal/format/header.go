package format

import (
	"regexp"
	"strings"

	"github.com/gubarz/lyfmt/internal/parser"
	"github.com/gubarz/lyfmt/internal/scan"
)

var (
	headerAnchor = regexp.MustCompile(`\\header\s*\{`)
	// key = "value", whitespace-tolerant around '='
	headerAssign = regexp.MustCompile(`([A-Za-z][\w-]*)\s*=\s*("(?:[^"\\]|\\.)*")`)
)

// headerFormatter rewrites \header { ... } blocks to one assignment per line.
// Text that is not a quoted assignment is dropped.
type headerFormatter struct {
	indent string
}

func (headerFormatter) Kind() parser.Kind { return parser.KindHeader }

func (headerFormatter) Blocks(text string) ([]parser.Block, []error) {
	anchors := parser.FindAnchors(headerAnchor, text, 0)
	return parser.Extract(parser.KindHeader, text, anchors, scan.Balanced('{', '}'), false)
}

func (f headerFormatter) Format(b parser.Block) string {
	var sb strings.Builder
	sb.WriteString("\\header {\n")
	for _, m := range headerAssign.FindAllStringSubmatch(b.Body, -1) {
		sb.WriteString(f.indent)
		sb.WriteString(m[1])
		sb.WriteString(" = ")
		sb.WriteString(m[2])
		sb.WriteString("\n")
	}
	return sb.String()
}
