package runner

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gubarz/lyfmt/internal/format"
	"github.com/gubarz/lyfmt/internal/parser"
)

// FileResult is the outcome of formatting one document
type FileResult struct {
	Path      string
	Original  string
	Formatted string
	Result    format.Result
	Err       error // Load or apply failure; Result.Problems are not errors
}

// Changed reports whether formatting altered the document
func (r FileResult) Changed() bool {
	return r.Err == nil && r.Original != r.Formatted
}

// FormatFile loads and formats a single document
func FormatFile(path string, opts format.Options) FileResult {
	doc, err := parser.Load(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	return FormatDocument(doc, opts)
}

// FormatDocument formats an already loaded document
func FormatDocument(doc *parser.Document, opts format.Options) FileResult {
	formatted, res, err := format.Text(doc.Text, opts)
	return FileResult{
		Path:      doc.Path,
		Original:  doc.Text,
		Formatted: formatted,
		Result:    res,
		Err:       err,
	}
}

// FormatFiles formats paths concurrently. Results keep the order of paths;
// per-file failures are reported in FileResult.Err.
func FormatFiles(ctx context.Context, paths []string, opts format.Options, jobs int) ([]FileResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine writes only its own index
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = FormatFile(path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
