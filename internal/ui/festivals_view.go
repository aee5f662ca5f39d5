package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-panchang/internal/festival"
)

// FestivalsModel lists a year's festivals.
type FestivalsModel struct {
	width   int
	height  int
	year    int
	offset  int
	matches []festival.Match
	lastErr error
	loaded  bool
	loading bool
}

// NewFestivalsModel creates a festivals view for year.
func NewFestivalsModel(year int) FestivalsModel {
	return FestivalsModel{year: year}
}

// SetSize updates the viewport size.
func (m FestivalsModel) SetSize(width, height int) FestivalsModel {
	m.width = width
	m.height = height
	return m
}

// SetYear switches to year; its matches must be loaded again.
func (m FestivalsModel) SetYear(year int) FestivalsModel {
	if year == m.year {
		return m
	}
	return NewFestivalsModel(year).SetSize(m.width, m.height)
}

// Invalidate drops the loaded matches, e.g. after a rule reload.
func (m FestivalsModel) Invalidate() FestivalsModel {
	return NewFestivalsModel(m.year).SetSize(m.width, m.height)
}

// SetMatches installs the scan result for the current year.
func (m FestivalsModel) SetMatches(matches []festival.Match, err error) FestivalsModel {
	m.matches = matches
	m.lastErr = err
	m.loading = false
	m.loaded = err == nil
	m.offset = 0
	return m
}

// Year returns the displayed year.
func (m FestivalsModel) Year() int {
	return m.year
}

func (m FestivalsModel) visibleRows() int {
	// Title, blank line and table header
	rows := m.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Update handles messages.
func (m FestivalsModel) Update(msg tea.Msg) (FestivalsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		maxOffset := max(len(m.matches)-m.visibleRows(), 0)

		switch msg.String() {
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.offset < maxOffset {
				m.offset++
			}
		case "pgup":
			m.offset = max(m.offset-m.visibleRows(), 0)
		case "pgdown":
			m.offset = min(m.offset+m.visibleRows(), maxOffset)
		case "home":
			m.offset = 0
		case "end":
			m.offset = maxOffset
		}
	}

	return m, nil
}

// View renders the festival list.
func (m FestivalsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Festivals %d", m.year)))
	b.WriteString("\n\n")

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n")
		return b.String()
	}
	if !m.loaded {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Scanning %d...", m.year)))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.matches) == 0 {
		b.WriteString("No festivals\n")
		return b.String()
	}

	header := fmt.Sprintf("%-10s  %-24s %-24s", "Date", "Festival", "Type")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	end := min(m.offset+m.visibleRows(), len(m.matches))
	for _, f := range m.matches[m.offset:end] {
		line := fmt.Sprintf("%-10s  %-24s %-24s", f.Date, f.Name, f.Type)
		b.WriteString(kindStyle(f.Kind).Render(line))
		b.WriteString("\n")
	}

	if len(m.matches) > m.visibleRows() {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d-%d of %d", m.offset+1, end, len(m.matches))))
		b.WriteString("\n")
	}
	return b.String()
}

func kindStyle(k festival.Kind) lipgloss.Style {
	switch k {
	case festival.KindFixed:
		return valueStyle
	case festival.KindSolar:
		return neutralStyle
	default:
		return goodStyle
	}
}
