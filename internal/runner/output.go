package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/gubarz/lyfmt/internal/format"
	"github.com/gubarz/lyfmt/internal/textedit"
)

// ErrWouldChange is returned in check mode when a document is not canonical
var ErrWouldChange = errors.New("documents are not formatted")

// ============================================================================
// Clipboard Interface
// ============================================================================

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
}

// systemClipboard implements Clipboard using the platform clipboard
type systemClipboard struct {
	fallback io.Writer
}

// Copy copies text to the system clipboard
func (c *systemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		// No clipboard tool found, just print
		_, err := io.WriteString(c.fallback, text)
		return err
	}
	return clipboard.WriteAll(text)
}

// ============================================================================
// Output
// ============================================================================

// OutputMode represents how formatted documents are delivered
type OutputMode string

const (
	OutputPrint OutputMode = "print"
	OutputWrite OutputMode = "write"
	OutputList  OutputMode = "list"
	OutputCheck OutputMode = "check"
	OutputEdits OutputMode = "edits"
	OutputCopy  OutputMode = "copy"
)

// OutputModes lists the accepted modes
var OutputModes = []OutputMode{OutputPrint, OutputWrite, OutputList, OutputCheck, OutputEdits, OutputCopy}

// ParseOutputMode validates a mode name
func ParseOutputMode(s string) (OutputMode, error) {
	for _, m := range OutputModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown output mode %q (supported: print, write, list, check, edits, copy)", s)
}

// Output delivers formatting results
type Output struct {
	stdout    io.Writer
	stderr    io.Writer
	clipboard Clipboard
	writeFile func(path string, data []byte) error
}

// NewOutput creates an Output writing to the given streams
func NewOutput(stdout, stderr io.Writer) *Output {
	return &Output{
		stdout:    stdout,
		stderr:    stderr,
		clipboard: &systemClipboard{fallback: stdout},
		writeFile: writeFilePreservingMode,
	}
}

// WithClipboard sets a custom clipboard implementation (useful for testing)
func (o *Output) WithClipboard(c Clipboard) *Output {
	o.clipboard = c
	return o
}

// WithFileWriter sets a custom file writer (useful for testing)
func (o *Output) WithFileWriter(fn func(path string, data []byte) error) *Output {
	o.writeFile = fn
	return o
}

// Emit handles results according to mode. Problems in individual blocks are
// printed as warnings; load and apply failures are returned together.
func (o *Output) Emit(results []FileResult, mode OutputMode) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
			continue
		}
		for _, p := range r.Result.Problems {
			fmt.Fprintf(o.stderr, "%s: warning: %v\n", r.Path, p)
		}
	}

	if err := o.emit(results, mode); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (o *Output) emit(results []FileResult, mode OutputMode) error {
	switch mode {
	case OutputWrite:
		for _, r := range results {
			if !r.Changed() {
				continue
			}
			if err := o.writeFile(r.Path, []byte(r.Formatted)); err != nil {
				return fmt.Errorf("write %s: %w", r.Path, err)
			}
		}
		return nil
	case OutputList:
		for _, r := range results {
			if r.Changed() {
				fmt.Fprintln(o.stdout, r.Path)
			}
		}
		return nil
	case OutputCheck:
		changed := 0
		for _, r := range results {
			if r.Changed() {
				fmt.Fprintf(o.stderr, "%s: would reformat (%d edits)\n", r.Path, len(r.Result.Edits))
				changed++
			}
		}
		if changed > 0 {
			return fmt.Errorf("%w: %d of %d files", ErrWouldChange, changed, len(results))
		}
		return nil
	case OutputEdits:
		return o.writeEdits(results)
	case OutputCopy:
		var sb strings.Builder
		for _, r := range results {
			if r.Err == nil {
				sb.WriteString(r.Formatted)
			}
		}
		return o.clipboard.Copy(sb.String())
	default: // print
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			if _, err := io.WriteString(o.stdout, r.Formatted); err != nil {
				return err
			}
		}
		return nil
	}
}

// ============================================================================
// Edit listing
// ============================================================================

type jsonEdit struct {
	format.Edit
	Range textedit.Range `json:"range"`
}

type jsonFile struct {
	Path     string     `json:"path"`
	Edits    []jsonEdit `json:"edits"`
	Problems []string   `json:"problems,omitempty"`
}

func (o *Output) writeEdits(results []FileResult) error {
	files := make([]jsonFile, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		index := textedit.NewLineIndex(r.Original, textedit.UnitUTF16)
		f := jsonFile{Path: r.Path, Edits: make([]jsonEdit, 0, len(r.Result.Edits))}
		for _, e := range r.Result.Edits {
			f.Edits = append(f.Edits, jsonEdit{Edit: e, Range: index.Range(e.Replacement)})
		}
		for _, p := range r.Result.Problems {
			f.Problems = append(f.Problems, p.Error())
		}
		files = append(files, f)
	}

	enc := json.NewEncoder(o.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(files)
}

func writeFilePreservingMode(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, data, perm)
}
