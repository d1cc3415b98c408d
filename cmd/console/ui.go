package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mbutler/war-machine/internal/storage"
	"github.com/mbutler/war-machine/pkg/event"
)

const (
	tailLimit    = 500
	pollInterval = 2 * time.Second
)

// ChronicleUI is the BubbleTea model that tails the chronicle.
// https://github.com/charmbracelet/bubbletea
type ChronicleUI struct {
	store     storage.Store
	worldName string
	viewport  viewport.Model
	entries   []event.ChronicleEntry
	selected  int // index into entries, -1 until loaded
	ready     bool
	width     int
	height    int
	err       error
	status    string
	statusAt  time.Time
}

type entriesMsg struct {
	entries []event.ChronicleEntry
	err     error
}

type pollMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("205")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// categoryStyles colors chronicle lines by what kind of record they are.
var categoryStyles = map[string]lipgloss.Style{
	"raid":             lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
	"battle":           lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	"assassination":    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	"death":            lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	"caravan_ambush":   lipgloss.NewStyle().Foreground(lipgloss.Color("202")), // orange
	"betrayal":         lipgloss.NewStyle().Foreground(lipgloss.Color("135")), // violet
	"plague":           lipgloss.NewStyle().Foreground(lipgloss.Color("100")), // olive
	"festival":         lipgloss.NewStyle().Foreground(lipgloss.Color("86")),  // green
	"alliance":         lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
	"discovery":        lipgloss.NewStyle().Foreground(lipgloss.Color("220")), // gold
	"disappearance":    lipgloss.NewStyle().Foreground(lipgloss.Color("63")),  // blue
	"monster_sighting": lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
	"story":            lipgloss.NewStyle().Foreground(lipgloss.Color("212")), // purple
	"aftermath":        lipgloss.NewStyle().Foreground(lipgloss.Color("250")), // light grey
}

var defaultCategoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))

func NewChronicleUI(store storage.Store, worldName string) ChronicleUI {
	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true
	return ChronicleUI{
		store:     store,
		worldName: worldName,
		viewport:  vp,
		selected:  -1,
	}
}

func (m ChronicleUI) Init() tea.Cmd {
	return tea.Batch(m.loadEntries(), poll())
}

func (m ChronicleUI) loadEntries() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		entries, err := m.store.TailChronicle(ctx, tailLimit)
		return entriesMsg{entries: entries, err: err}
	}
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func (m ChronicleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var vpCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width - 2
		m.viewport.Height = m.height - 4
		m.ready = true
		m.writeContent()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.writeContent()
				m.keepSelectionVisible()
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.entries)-1 {
				m.selected++
				m.writeContent()
				m.keepSelectionVisible()
			}
			return m, nil
		case "g":
			m.selected = 0
			m.writeContent()
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.selected = len(m.entries) - 1
			m.writeContent()
			m.viewport.GotoBottom()
			return m, nil
		case "c":
			if m.selected >= 0 && m.selected < len(m.entries) {
				if err := clipboard.WriteAll(m.entries[m.selected].String()); err != nil {
					m.setStatus("copy failed: " + err.Error())
				} else {
					m.setStatus("copied to clipboard")
				}
			}
			return m, nil
		case "r":
			return m, m.loadEntries()
		}

	case entriesMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		atTail := m.selected == len(m.entries)-1 || m.selected < 0
		m.entries = msg.entries
		if atTail {
			m.selected = len(m.entries) - 1
		}
		if m.selected >= len(m.entries) {
			m.selected = len(m.entries) - 1
		}
		if m.ready {
			m.writeContent()
			if atTail {
				m.viewport.GotoBottom()
			}
		}

	case pollMsg:
		return m, tea.Batch(m.loadEntries(), poll())
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, vpCmd
}

// writeContent renders every entry into the viewport, highlighting the
// selected one.
func (m *ChronicleUI) writeContent() {
	width := m.viewport.Width - 2
	if width < 20 {
		width = 20
	}
	var content strings.Builder
	for i, e := range m.entries {
		line := renderEntry(e, width)
		if i == m.selected {
			line = selectedStyle.Render(wordwrap.String(e.String(), width))
		}
		content.WriteString(line + "\n")
	}
	if len(m.entries) == 0 {
		content.WriteString(helpStyle.Render("The chronicle is empty. The world has no history yet."))
	}
	m.viewport.SetContent(content.String())
}

// renderEntry styles one chronicle line by category and wraps it.
func renderEntry(e event.ChronicleEntry, width int) string {
	style, ok := categoryStyles[e.Category]
	if !ok {
		style = defaultCategoryStyle
	}
	prefix := timeStyle.Render(e.WorldTime) + " " + style.Render("["+e.Category+"]")
	body := e.Summary
	if e.Location != "" {
		body = "@" + e.Location + " " + body
	}
	if e.Details != "" {
		body += " — " + e.Details
	}
	return prefix + " " + wordwrap.String(body, width-4)
}

// keepSelectionVisible nudges the viewport so the highlighted entry
// stays on screen. Entries can wrap, so this is approximate.
func (m *ChronicleUI) keepSelectionVisible() {
	if len(m.entries) == 0 {
		return
	}
	frac := float64(m.selected) / float64(len(m.entries))
	total := m.viewport.TotalLineCount()
	target := int(frac*float64(total)) - m.viewport.Height/2
	if target < 0 {
		target = 0
	}
	m.viewport.SetYOffset(target)
}

func (m *ChronicleUI) setStatus(s string) {
	m.status = s
	m.statusAt = time.Now()
}

func (m ChronicleUI) View() string {
	if !m.ready {
		return "Loading chronicle..."
	}
	title := titleStyle.Render("CHRONICLE") + timeStyle.Render("  "+m.worldName)
	var footer string
	switch {
	case m.err != nil:
		footer = errorStyle.Render("Error: " + m.err.Error())
	case m.status != "" && time.Since(m.statusAt) < 3*time.Second:
		footer = statusStyle.Render(m.status)
	default:
		footer = helpStyle.Render(fmt.Sprintf(
			"%d entries • j/k select • c copy • r refresh • q quit", len(m.entries)))
	}
	return fmt.Sprintf("%s\n%s\n%s", title, m.viewport.View(), footer)
}
