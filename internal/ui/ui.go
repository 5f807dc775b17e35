package ui

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gubarz/lyfmt/internal/runner"
	"github.com/gubarz/lyfmt/internal/textedit"
)

// ============================================================================
// String Builder Pool - reduces GC pressure from rendering
// ============================================================================

var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 { // Don't pool huge builders
		builderPool.Put(b)
	}
}

// Review opens the edit preview for one document. It returns the accepted
// replacements and whether the user asked to write them.
func Review(res runner.FileResult) ([]textedit.Replacement, bool, error) {
	RefreshStyles()

	p := tea.NewProgram(newPreviewModel(res), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, false, fmt.Errorf("preview: %w", err)
	}

	m, ok := final.(previewModel)
	if !ok || !m.confirmed {
		return nil, false, nil
	}
	return m.Accepted(), true, nil
}
