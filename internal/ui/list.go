package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todohl/internal/render"
	"todohl/internal/source"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// chrome is the header, the separator and the help line.
	chrome = 4
)

// ListModel is the terminal list renderer: annotations in global order on top,
// a source preview below. Enter jumps the preview to the selected line.
type ListModel struct {
	path     string
	file     *source.File
	items    []render.ListItem
	cursor   int
	offset   int
	selected int
	jump     render.Jump
	preview  viewport.Model
	width    int
	height   int
	quitting bool
}

// NewListModel builds the list for one document. file may be nil, in which
// case the preview stays empty.
func NewListModel(path string, file *source.File, items []render.ListItem) *ListModel {
	m := &ListModel{
		path:     path,
		file:     file,
		items:    items,
		selected: -1,
		jump:     render.Jump{Line: -1},
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.preview = viewport.New(m.width, m.previewHeight())
	m.refreshPreview()
	return m
}

func (m *ListModel) Init() tea.Cmd {
	return nil
}

func (m *ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "home", "g":
			m.move(-len(m.items))
		case "end", "G":
			m.move(len(m.items))
		case "enter":
			m.activate()
		case "pgdown", "ctrl+d":
			m.preview.HalfViewDown()
		case "pgup", "ctrl+u":
			m.preview.HalfViewUp()
		}
		return m, nil
	case tea.WindowSizeMsg:
		if msg.Width > 0 && msg.Height > 0 {
			m.width = msg.Width
			m.height = msg.Height
			m.preview.Width = m.width
			m.preview.Height = m.previewHeight()
			m.refreshPreview()
		}
		return m, nil
	}
	return m, nil
}

func (m *ListModel) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.items)-1)
	rows := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// activate jumps to the item under the cursor: the cursor marker goes to the
// start of its line and the preview scrolls it into view.
func (m *ListModel) activate() {
	if len(m.items) == 0 {
		return
	}
	m.selected = m.cursor
	m.jump = render.JumpTo(m.items[m.cursor])
	m.refreshPreview()
	m.preview.SetYOffset(max(m.jump.Line-m.preview.Height/2, 0))
}

// Selected returns the last item activated with enter.
func (m *ListModel) Selected() (render.ListItem, bool) {
	if m.selected < 0 || m.selected >= len(m.items) {
		return render.ListItem{}, false
	}
	return m.items[m.selected], true
}

// Jump returns the current cursor target, or false before the first jump.
func (m *ListModel) Jump() (render.Jump, bool) {
	return m.jump, m.jump.Line >= 0
}

// Quitting reports whether the user closed the list.
func (m *ListModel) Quitting() bool {
	return m.quitting
}

func (m *ListModel) listHeight() int {
	available := max(m.height-chrome, 2)
	return max(min(len(m.items), available/2), 1)
}

func (m *ListModel) previewHeight() int {
	return max(m.height-chrome-m.listHeight(), 1)
}

func (m *ListModel) refreshPreview() {
	if m.file == nil {
		m.preview.SetContent("")
		return
	}
	count := m.file.LineCount()
	gutter := len(strconv.Itoa(count))
	marked := lipgloss.NewStyle().Reverse(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	var b strings.Builder
	for i := range count {
		num := dim.Render(fmt.Sprintf("%*d", gutter, i+1))
		line := truncate(expandTabs(m.file.Line(i)), max(m.width-gutter-3, 10))
		if i == m.jump.Line {
			// the cursor sits on the first column
			if line == "" {
				line = " "
			}
			head, tail := splitFirst(line)
			line = marked.Render(head) + tail
			num = lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%*d", gutter, i+1))
		}
		fmt.Fprintf(&b, "%s │ %s", num, line)
		if i < count-1 {
			b.WriteString("\n")
		}
	}
	m.preview.SetContent(b.String())
}

func (m *ListModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Render(m.path)
	fmt.Fprintf(&b, "%s  %d annotations\n", title, len(m.items))
	if len(m.items) == 0 {
		b.WriteString("  no TODO or FIXME annotations\n")
	}
	end := min(m.offset+m.listHeight(), len(m.items))
	labelWidth := max(m.width-14, 10)
	for i := m.offset; i < end; i++ {
		item := m.items[i]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(render.StyleFor(item.Bucket).Color))
		pointer := "  "
		if i == m.cursor {
			pointer = "> "
			style = style.Bold(true)
		}
		row := fmt.Sprintf("%s%s %s", pointer, iconGlyph(item.Icon), truncate(item.Label, labelWidth))
		fmt.Fprintf(&b, "%s %s\n", style.Render(row), lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(fmt.Sprintf(":%d", item.Line+1)))
	}
	b.WriteString(strings.Repeat("─", max(m.width, 1)))
	b.WriteString("\n")
	b.WriteString(m.preview.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("j/k move · enter jump · pgup/pgdn scroll · q quit"))
	return b.String()
}

func iconGlyph(icon render.Icon) string {
	switch icon {
	case render.IconError:
		return "✖"
	case render.IconWarning:
		return "▲"
	default:
		return "●"
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func splitFirst(s string) (string, string) {
	for i := range s {
		if i > 0 {
			return s[:i], s[i:]
		}
	}
	return s, ""
}
