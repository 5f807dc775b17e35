package format

import (
	"regexp"
	"strings"

	"github.com/gubarz/lyfmt/internal/parser"
	"github.com/gubarz/lyfmt/internal/scan"
)

// Voice anchor groups: 1 identifier, 2 words before \relative, 3 pitch.
// A % comment between '=' and \relative stops the match.
var voiceAnchor = regexp.MustCompile(
	`([A-Za-z]+)\s*=\s*([^={}%]*?)\\relative\s*([a-g](?:isis|eses|is|es|s)?[,']*)?\s*\{`)

var (
	stemSplit = regexp.MustCompile(`\\stem(?:Up|Down|Neutral)\b`)
	// stemLegacy carries the misspelled neutral token, so \stemNeutral
	// segments are never recognised as markers.
	stemLegacy = regexp.MustCompile(`\\stem(?:Up|Down|Nuetral)\b`)

	barCheck     = regexp.MustCompile(`\\barNumberCheck\s*#\s*(\d+)`)
	spaceRun     = regexp.MustCompile(`[ \t]+`)
	commentSplit = regexp.MustCompile(`\s*(%[ \t]*\d*)[ \t]*`)
)

type voiceFormatter struct {
	indent  string
	matcher *regexp.Regexp
}

func newVoiceFormatter(indent string, legacyNeutral bool) voiceFormatter {
	f := voiceFormatter{indent: indent, matcher: stemSplit}
	if legacyNeutral {
		f.matcher = stemLegacy
	}
	return f
}

func (voiceFormatter) Kind() parser.Kind { return parser.KindVoice }

func (voiceFormatter) Blocks(text string) ([]parser.Block, []error) {
	anchors := parser.FindAnchors(voiceAnchor, text, 0)
	return parser.Extract(parser.KindVoice, text, anchors, scan.Balanced('{', '}'), false)
}

func (f voiceFormatter) Format(b parser.Block) string {
	anchor := voiceHeading(b.Groups)
	if strings.TrimSpace(b.Body) == "" {
		return anchor
	}

	body := dedupeStems(b.Body, f.matcher)
	body = barCheck.ReplaceAllString(body, "%${1}\n")
	body = collapseLines(body)

	var sb strings.Builder
	sb.WriteString(anchor)
	for _, line := range splitComments(body) {
		sb.WriteString(f.indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// voiceHeading renders "<id> = [words ]\relative [pitch ]{\n"
func voiceHeading(groups []string) string {
	var sb strings.Builder
	sb.WriteString(groups[1])
	sb.WriteString(" = ")
	if words := strings.Fields(groups[2]); len(words) > 0 {
		sb.WriteString(strings.Join(words, " "))
		sb.WriteString(" ")
	}
	sb.WriteString("\\relative ")
	if groups[3] != "" {
		sb.WriteString(groups[3])
		sb.WriteString(" ")
	}
	sb.WriteString("{\n")
	return sb.String()
}

// splitAfterStems cuts body immediately after every stem-direction marker
func splitAfterStems(body string) []string {
	var segments []string
	prev := 0
	for _, loc := range stemSplit.FindAllStringIndex(body, -1) {
		segments = append(segments, body[prev:loc[1]])
		prev = loc[1]
	}
	return append(segments, body[prev:])
}

// dedupeStems drops a stem marker when it repeats the last one emitted.
// Segments the matcher does not recognise leave the carried marker alone.
func dedupeStems(body string, matcher *regexp.Regexp) string {
	var sb strings.Builder
	sb.Grow(len(body))

	last := ""
	for _, seg := range splitAfterStems(body) {
		marker := matcher.FindString(seg)
		switch {
		case marker == "":
		case marker == last && strings.HasSuffix(seg, marker):
			seg = seg[:len(seg)-len(marker)]
		default:
			last = marker
		}
		sb.WriteString(seg)
	}
	return sb.String()
}

// collapseLines joins the body onto one line with single spaces
func collapseLines(body string) string {
	body = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(body)
	return spaceRun.ReplaceAllString(body, " ")
}

// splitComments puts every % marker (with its optional number) on its own
// line and returns the non-blank lines
func splitComments(body string) []string {
	body = commentSplit.ReplaceAllString(body, "\n$1\n")

	var lines []string
	for _, line := range strings.Split(body, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
