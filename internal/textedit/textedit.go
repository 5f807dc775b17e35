package textedit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	// ErrOverlap is returned when two replacements cover the same bytes
	ErrOverlap = errors.New("overlapping replacements")
	// ErrOutOfRange is returned when a replacement falls outside the text
	ErrOutOfRange = errors.New("replacement out of range")
)

// Replacement replaces the bytes [Start, End) of the original text
type Replacement struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	NewText string `json:"newText"`
}

// Overlaps reports whether r and o share any bytes. Two insertions at the
// same offset also overlap since their order would be ambiguous.
func (r Replacement) Overlaps(o Replacement) bool {
	if r.Start == r.End && o.Start == o.End {
		return r.Start == o.Start
	}
	return r.Start < o.End && o.Start < r.End
}

// Apply returns text with all replacements applied. Offsets refer to the
// original text; replacements must not overlap.
func Apply(text string, edits []Replacement) (string, error) {
	sorted := make([]Replacement, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var sb strings.Builder
	sb.Grow(len(text))
	pos := 0
	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(text) {
			return "", fmt.Errorf("%w: [%d, %d) in %d bytes", ErrOutOfRange, e.Start, e.End, len(text))
		}
		if i > 0 && sorted[i-1].Overlaps(e) || e.Start < pos {
			return "", fmt.Errorf("%w: [%d, %d)", ErrOverlap, e.Start, e.End)
		}
		sb.WriteString(text[pos:e.Start])
		sb.WriteString(e.NewText)
		pos = e.End
	}
	sb.WriteString(text[pos:])
	return sb.String(), nil
}

// ============================================================================
// Positions
// ============================================================================

// Unit selects how columns are counted
type Unit int

const (
	UnitByte Unit = iota
	UnitRune
	UnitUTF16
)

// Position is a 0-based line/column pair
type Position struct {
	Line   int `json:"line"`
	Column int `json:"character"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Range is a start/end position pair
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// LineIndex maps byte offsets to positions
type LineIndex struct {
	text   string
	starts []int
	unit   Unit
}

// NewLineIndex indexes the line starts of text
func NewLineIndex(text string, unit Unit) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts, unit: unit}
}

// Position converts a byte offset. Offsets past the end clamp to the end.
func (li *LineIndex) Position(offset int) Position {
	offset = max(0, min(offset, len(li.text)))
	line := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	}) - 1

	prefix := li.text[li.starts[line]:offset]
	var col int
	switch li.unit {
	case UnitRune:
		col = utf8.RuneCountInString(prefix)
	case UnitUTF16:
		for _, r := range prefix {
			col += utf16.RuneLen(r)
		}
	default:
		col = len(prefix)
	}
	return Position{Line: line, Column: col}
}

// Range converts a replacement's offsets
func (li *LineIndex) Range(r Replacement) Range {
	return Range{Start: li.Position(r.Start), End: li.Position(r.End)}
}
