package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/lyfmt/internal/format"
	"github.com/gubarz/lyfmt/internal/runner"
	"github.com/gubarz/lyfmt/internal/textedit"
)

// ============================================================================
// Edit Item
// ============================================================================

// editItem wraps an Edit with display metadata
type editItem struct {
	edit     format.Edit
	pos      textedit.Position
	accepted bool
}

// summary returns the first non-blank line of the replacement text
func (item *editItem) summary() string {
	for _, line := range strings.Split(item.edit.NewText, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ============================================================================
// Preview Model
// ============================================================================

// previewModel is the Bubble Tea model for reviewing a document's edits
type previewModel struct {
	width  int
	height int

	path     string
	original string
	items    []editItem
	cursor   int
	offset   int // list scroll offset

	viewport  viewport.Model
	quitting  bool
	confirmed bool
}

// newPreviewModel creates a previewModel with every edit accepted
func newPreviewModel(res runner.FileResult) previewModel {
	index := textedit.NewLineIndex(res.Original, textedit.UnitRune)
	items := make([]editItem, len(res.Result.Edits))
	for i, e := range res.Result.Edits {
		items[i] = editItem{edit: e, pos: index.Position(e.Start), accepted: true}
	}

	m := previewModel{
		width:    80,
		height:   24,
		path:     res.Path,
		original: res.Original,
		items:    items,
		viewport: viewport.New(76, 10),
	}
	m.resize()
	m.refreshDiff()
	return m
}

// Init implements tea.Model
func (m previewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshDiff()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey processes keyboard input
func (m previewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		m.confirmed = true
		return m, tea.Quit
	case "up", "k", "ctrl+p":
		m.moveCursor(-1)
	case "down", "j", "ctrl+n":
		m.moveCursor(1)
	case "home":
		m.moveCursor(-len(m.items))
	case "end":
		m.moveCursor(len(m.items))
	case " ", "space", "x":
		if m.cursor < len(m.items) {
			m.items[m.cursor].accepted = !m.items[m.cursor].accepted
		}
	case "a":
		m.setAll(true)
	case "n":
		m.setAll(false)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// moveCursor moves the cursor by delta, clamping to valid range
func (m *previewModel) moveCursor(delta int) {
	prev := m.cursor
	m.cursor = clamp(m.cursor+delta, 0, max(0, len(m.items)-1))
	m.adjustOffset()
	if m.cursor != prev {
		m.refreshDiff()
	}
}

// adjustOffset ensures cursor is visible within the list area
func (m *previewModel) adjustOffset() {
	listHeight := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+listHeight {
		m.offset = m.cursor - listHeight + 1
	}
	m.offset = clamp(m.offset, 0, max(0, len(m.items)-listHeight))
}

func (m *previewModel) setAll(accepted bool) {
	for i := range m.items {
		m.items[i].accepted = accepted
	}
}

// listHeight is the number of edit rows shown above the diff
func (m *previewModel) listHeight() int {
	return clamp(m.height/3, 3, max(3, len(m.items)))
}

// resize fits the diff viewport below the list
func (m *previewModel) resize() {
	// title + list + divider + help
	chrome := 1 + m.listHeight() + 1 + 1
	m.viewport.Width = max(10, m.width-4)
	m.viewport.Height = max(3, m.height-chrome-2)
}

// refreshDiff renders the selected edit into the viewport
func (m *previewModel) refreshDiff() {
	if len(m.items) == 0 {
		m.viewport.SetContent(styles.Dim.Render("Document is already formatted."))
		return
	}
	m.viewport.SetContent(renderDiff(m.items[m.cursor].edit))
	m.viewport.GotoTop()
}

// Accepted returns the replacements the user kept
func (m previewModel) Accepted() []textedit.Replacement {
	var out []textedit.Replacement
	for _, item := range m.items {
		if item.accepted {
			out = append(out, item.edit.Replacement)
		}
	}
	return out
}

// ============================================================================
// Rendering
// ============================================================================

// View implements tea.Model
func (m previewModel) View() string {
	if m.quitting {
		return ""
	}

	b := getBuilder()
	defer putBuilder(b)

	accepted := len(m.Accepted())
	b.WriteString(styles.Title.Render(m.path))
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  %d edits, %d accepted", len(m.items), accepted)))
	b.WriteString("\n")

	end := min(len(m.items), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderItem(i))
		b.WriteString("\n")
	}

	b.WriteString(styles.Divider.Render(strings.Repeat("─", max(0, m.width-2))))
	b.WriteString("\n")
	b.WriteString(styles.Border.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("↑/↓ move • space toggle • a all • n none • enter write • esc cancel"))

	return b.String()
}

func (m previewModel) renderItem(i int) string {
	item := &m.items[i]

	mark := styles.Rejected.Render("[ ]")
	if item.accepted {
		mark = styles.Accepted.Render("[x]")
	}
	cursor := "  "
	if i == m.cursor {
		cursor = styles.Cursor.Render("▶ ")
	}

	kind := styles.Kind.Render(fmt.Sprintf("%-7s", item.edit.Kind))
	pos := styles.Position.Render(fmt.Sprintf("%-8s", item.pos.String()))
	line := fmt.Sprintf("%s%s %s %s %s", cursor, mark, kind, pos, truncate(item.summary(), max(10, m.width-30)))

	if i == m.cursor {
		return styles.Selected.Render(line)
	}
	return line
}

// renderDiff shows the old text as removed lines and the new text as added lines
func renderDiff(e format.Edit) string {
	b := getBuilder()
	defer putBuilder(b)

	for _, line := range strings.Split(strings.TrimRight(e.OldText, "\n"), "\n") {
		b.WriteString(styles.Removed.Render("- " + visibleTabs(line)))
		b.WriteString("\n")
	}
	for _, line := range strings.Split(strings.TrimRight(e.NewText, "\n"), "\n") {
		b.WriteString(styles.Added.Render("+ " + visibleTabs(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func visibleTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "→   ")
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
