package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gubarz/lyfmt/internal/parser"
	"github.com/gubarz/lyfmt/internal/textedit"
)

// Options controls formatting
type Options struct {
	Indent            string        // Prefix for every body line
	Kinds             []parser.Kind // Enabled block kinds (nil means all)
	LegacyNeutralTypo bool          // Reproduce the old \stemNeutral matcher defect
	KeepUnchanged     bool          // Emit edits whose text is already canonical
}

// DefaultOptions returns the canonical layout settings
func DefaultOptions() Options {
	return Options{
		Indent: "\t",
		Kinds:  parser.Kinds,
	}
}

func (o Options) withDefaults() Options {
	if o.Indent == "" {
		o.Indent = "\t"
	}
	if o.Kinds == nil {
		o.Kinds = parser.Kinds
	}
	return o
}

func (o Options) enabled(k parser.Kind) bool {
	for _, kind := range o.Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Formatter locates and rewrites one kind of block
type Formatter interface {
	Kind() parser.Kind
	Blocks(text string) ([]parser.Block, []error)
	Format(b parser.Block) string
}

// formatters returns the formatters for opts in assembly order
func formatters(opts Options) []Formatter {
	all := []Formatter{
		headerFormatter{indent: opts.Indent},
		versionFormatter{},
		newVoiceFormatter(opts.Indent, opts.LegacyNeutralTypo),
	}
	var enabled []Formatter
	for _, f := range all {
		if opts.enabled(f.Kind()) {
			enabled = append(enabled, f)
		}
	}
	return enabled
}

// ============================================================================
// Edit Assembly
// ============================================================================

// Edit is a replacement produced for one block
type Edit struct {
	Kind parser.Kind `json:"kind"`
	textedit.Replacement
	OldText string `json:"oldText"`
}

// Changed reports whether the edit alters the document
func (e Edit) Changed() bool {
	return e.OldText != e.NewText
}

// OverlapError reports a block whose range collides with a block of a
// higher-priority kind. The lower-priority block is left untouched.
type OverlapError struct {
	Kind       parser.Kind
	Offset     int
	WithKind   parser.Kind
	WithOffset int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s block at offset %d overlaps %s block at offset %d; skipped",
		e.Kind, e.Offset, e.WithKind, e.WithOffset)
}

// Result is the edit set for one document
type Result struct {
	Edits    []Edit
	Problems []error
	Blocks   int // Blocks located, including unchanged ones
}

// Replacements returns the edits as plain text replacements
func (r Result) Replacements() []textedit.Replacement {
	out := make([]textedit.Replacement, len(r.Edits))
	for i, e := range r.Edits {
		out[i] = e.Replacement
	}
	return out
}

// Err joins all problems, or returns nil
func (r Result) Err() error {
	return errors.Join(r.Problems...)
}

// Document computes the edits that bring text into canonical layout. Kinds
// are processed in the fixed order header, version, voice; a block that
// overlaps one already claimed by an earlier kind is skipped and reported.
func Document(text string, opts Options) Result {
	opts = opts.withDefaults()

	var res Result
	var claimed []parser.Block
	eol := lineEnding(text)

	for _, f := range formatters(opts) {
		blocks, errs := f.Blocks(text)
		res.Problems = append(res.Problems, errs...)

	blockLoop:
		for _, b := range blocks {
			for _, c := range claimed {
				if b.Offset < c.End() && c.Offset < b.End() {
					res.Problems = append(res.Problems, &OverlapError{
						Kind:       b.Kind,
						Offset:     b.Offset,
						WithKind:   c.Kind,
						WithOffset: c.Offset,
					})
					continue blockLoop
				}
			}
			claimed = append(claimed, b)
			res.Blocks++

			edit := Edit{
				Kind: b.Kind,
				Replacement: textedit.Replacement{
					Start:   b.Offset,
					End:     b.End(),
					NewText: withLineEnding(f.Format(b), eol),
				},
				OldText: b.Source(),
			}
			if edit.Changed() || opts.KeepUnchanged {
				res.Edits = append(res.Edits, edit)
			}
		}
	}

	return res
}

// lineEnding returns "\r\n" when the document's first line break is CRLF
func lineEnding(text string) string {
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func withLineEnding(s, eol string) string {
	if eol == "\n" {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", eol)
}

// Text formats text and returns the rewritten document
func Text(text string, opts Options) (string, Result, error) {
	res := Document(text, opts)
	out, err := textedit.Apply(text, res.Replacements())
	if err != nil {
		return text, res, err
	}
	return out, res, nil
}
