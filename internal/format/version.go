package format

import (
	"regexp"

	"github.com/gubarz/lyfmt/internal/parser"
	"github.com/gubarz/lyfmt/internal/scan"
)

// Group 1 is the anchor; the quote only has to follow it.
var versionAnchor = regexp.MustCompile(`(\\version\s*)"`)

type versionFormatter struct{}

func (versionFormatter) Kind() parser.Kind { return parser.KindVersion }

func (versionFormatter) Blocks(text string) ([]parser.Block, []error) {
	anchors := parser.FindAnchors(versionAnchor, text, 1)
	return parser.Extract(parser.KindVersion, text, anchors, scan.Nth('"', 2), true)
}

func (versionFormatter) Format(b parser.Block) string {
	return "\\version " + b.Body
}
