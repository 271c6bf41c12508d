package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hfgrass/heatmap"
)

const cellGlyph = "■"

// browser is a read-only terminal view over the rendered buckets.
type browser struct {
	styles    styleSet
	buckets   []heatmap.DayBucket
	theme     heatmap.Theme
	weekStart time.Weekday
	title     string
	cursor    int
}

func newBrowser(buckets []heatmap.DayBucket, cfg heatmap.Config) browser {
	return browser{
		styles:    newStyles(),
		buckets:   buckets,
		theme:     cfg.Theme,
		weekStart: cfg.WeekStart,
		title:     cfg.Title,
		cursor:    len(buckets) - 1,
	}
}

func (m browser) Init() tea.Cmd {
	return nil
}

func (m browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.move(-7)
		case "right", "l":
			m.move(7)
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "t", "T":
			m.cursor = len(m.buckets) - 1
		case "g", "home":
			m.cursor = 0
		}
	}
	return m, nil
}

func (m *browser) move(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.buckets)-1 {
		m.cursor = len(m.buckets) - 1
	}
}

func (m browser) selected() heatmap.DayBucket {
	if m.cursor < 0 || m.cursor >= len(m.buckets) {
		return heatmap.DayBucket{}
	}
	return m.buckets[m.cursor]
}

func (m browser) View() string {
	if len(m.buckets) == 0 {
		return m.styles.help.Render("No days to show")
	}

	var b strings.Builder
	b.WriteString(m.styles.header.Render(m.title))
	b.WriteString("\n\n")

	first := m.buckets[0].Date
	weeks := heatmap.Weeks(first, m.weekStart, len(m.buckets))
	grid := make([][]string, 7)
	for row := range grid {
		grid[row] = make([]string, weeks)
		for col := range grid[row] {
			grid[row][col] = " "
		}
	}
	for i, day := range m.buckets {
		col, row := heatmap.Position(first, m.weekStart, i)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Fill(day)))
		if i == m.cursor {
			style = m.styles.selected.Copy().Foreground(lipgloss.Color(m.theme.Fill(day)))
		}
		grid[row][col] = style.Render(cellGlyph)
	}

	for row, cells := range grid {
		label := (m.weekStart + time.Weekday(row)) % 7
		b.WriteString(m.styles.weekday.Render(label.String()[:3]))
		b.WriteString(" ")
		b.WriteString(strings.Join(cells, ""))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	day := m.selected()
	noun := "activities"
	if day.Count == 1 {
		noun = "activity"
	}
	selected := fmt.Sprintf("Selected: %s  %d %s", day.Date.Format(time.DateOnly), day.Count, noun)
	if day.Kinds != 0 {
		selected += fmt.Sprintf("  (%s)", day.Kinds)
	}
	b.WriteString(m.styles.footer.Render(selected))
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render(fmt.Sprintf("Total: %d", heatmap.Total(m.buckets))))
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("Arrows/Vim: Move (left/right by week, up/down by day)  t: Today  g: First day  q: Quit"))
	return b.String()
}

type styleSet struct {
	header   lipgloss.Style
	weekday  lipgloss.Style
	selected lipgloss.Style
	footer   lipgloss.Style
	help     lipgloss.Style
	summary  lipgloss.Style
	errText  lipgloss.Style
}

func newStyles() styleSet {
	base := lipgloss.NewStyle().Padding(0).Margin(0)

	return styleSet{
		header:   base.Copy().Foreground(lipgloss.Color("213")).Bold(true),
		weekday:  base.Copy().Foreground(lipgloss.Color("111")).Bold(true),
		selected: base.Copy().Background(lipgloss.Color("57")).Bold(true),
		footer:   base.Copy().Foreground(lipgloss.Color("248")),
		help:     base.Copy().Foreground(lipgloss.Color("244")),
		summary:  base.Copy().Foreground(lipgloss.Color("#ff9d00")).Bold(true),
		errText:  base.Copy().Foreground(lipgloss.Color("203")),
	}
}
