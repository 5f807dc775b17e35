package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gubarz/lyfmt/internal/scan"
)

// Kind identifies the type of a top-level block
type Kind string

const (
	KindHeader  Kind = "header"
	KindVersion Kind = "version"
	KindVoice   Kind = "voice"
)

// Kinds lists every block kind in the order edits are assembled
var Kinds = []Kind{KindHeader, KindVersion, KindVoice}

// Block is one contiguous region of a document located by an anchor
type Block struct {
	Kind   Kind     // Block kind
	Anchor string   // Text matched by the anchor pattern
	Groups []string // Anchor submatches (index 0 is the full match)
	Body   string   // Text between the anchor and the boundary
	Offset int      // Byte offset of the anchor in the document
	Length int      // len(Anchor) + len(Body)
}

// End returns the byte offset just past the block
func (b Block) End() int {
	return b.Offset + b.Length
}

// Source returns the block's original text
func (b Block) Source() string {
	return b.Anchor + b.Body
}

// Anchor is one match of a kind's anchor pattern
type Anchor struct {
	Text   string
	Offset int
	Groups []string
}

// MalformedBlockError reports an anchor whose boundary could not be found.
// The block is skipped; other blocks are still formatted.
type MalformedBlockError struct {
	Kind   Kind
	Anchor string
	Offset int
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("malformed %s block at offset %d: no closing delimiter after %q",
		e.Kind, e.Offset, strings.TrimSpace(e.Anchor))
}

// FindAnchors runs re once over the whole text. group selects the submatch
// used as anchor text; the anchor offset is the start of that submatch.
func FindAnchors(re *regexp.Regexp, text string, group int) []Anchor {
	var anchors []Anchor
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		if 2*group+1 >= len(loc) || loc[2*group] < 0 {
			continue
		}
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}
		start, end := loc[2*group], loc[2*group+1]
		anchors = append(anchors, Anchor{
			Text:   text[start:end],
			Offset: start,
			Groups: groups,
		})
	}
	return anchors
}

// Extract builds a Block for each anchor. The finder runs over the text from
// the anchor to the end of the document. When includeBoundary is set the
// boundary character is part of the body.
func Extract(kind Kind, text string, anchors []Anchor, finder scan.Finder, includeBoundary bool) ([]Block, []error) {
	var blocks []Block
	var errs []error

	for _, a := range anchors {
		tail := text[a.Offset:]
		boundary := finder(tail)
		end := boundary.Index
		if includeBoundary {
			end++
		}
		if !boundary.Found || end < len(a.Text) {
			errs = append(errs, &MalformedBlockError{Kind: kind, Anchor: a.Text, Offset: a.Offset})
			continue
		}

		body := tail[len(a.Text):end]
		blocks = append(blocks, Block{
			Kind:   kind,
			Anchor: a.Text,
			Groups: a.Groups,
			Body:   body,
			Offset: a.Offset,
			Length: len(a.Text) + len(body),
		})
	}

	return blocks, errs
}

// ============================================================================
// Document discovery
// ============================================================================

// Document is a source file loaded for formatting
type Document struct {
	Path string
	Text string
}

// DefaultExtensions are the file suffixes picked up when walking a directory
var DefaultExtensions = []string{".ly", ".ily", ".lyi"}

// Discover returns the documents to format under root. A file root is
// returned as-is; directories are walked recursively for matching extensions.
func Discover(root string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if hasExtension(path, exts) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Load reads a single document from disk
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Text: string(data)}, nil
}

func hasExtension(path string, exts []string) bool {
	lower := strings.ToLower(path)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
