package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-panchang/internal/daypart"
	"github.com/litescript/ls-panchang/internal/panchang"
)

// Styles shared by the views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	activeTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// DayModel shows the panchang of one civil date.
type DayModel struct {
	width   int
	height  int
	date    time.Time
	now     time.Time
	report  *panchang.Report
	lastErr error
	loading bool
}

// NewDayModel creates a day view for date.
func NewDayModel(date time.Time) DayModel {
	return DayModel{date: date, loading: true}
}

// SetSize updates the viewport size.
func (m DayModel) SetSize(width, height int) DayModel {
	m.width = width
	m.height = height
	return m
}

// SetDate moves to date and clears the previous report.
func (m DayModel) SetDate(date time.Time) DayModel {
	m.date = date
	m.report = nil
	m.lastErr = nil
	m.loading = true
	return m
}

// SetReport installs the report for the current date.
func (m DayModel) SetReport(r *panchang.Report, err error) DayModel {
	m.report = r
	m.lastErr = err
	m.loading = false
	return m
}

// SetNow updates the wall clock used to mark the current choghadiya.
func (m DayModel) SetNow(t time.Time) DayModel {
	m.now = t
	return m
}

// Date returns the displayed date.
func (m DayModel) Date() time.Time {
	return m.date
}

// Update handles messages.
func (m DayModel) Update(msg tea.Msg) (DayModel, tea.Cmd) {
	return m, nil
}

// View renders the day.
func (m DayModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.date.Format("Monday, 2 January 2006")))
	b.WriteString("\n\n")

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n")
		return b.String()
	}
	if m.loading || m.report == nil {
		b.WriteString(mutedStyle.Render("Computing panchang..."))
		b.WriteString("\n")
		return b.String()
	}

	r := m.report
	b.WriteString(m.renderElements(r))
	b.WriteString("\n")
	b.WriteString(m.renderChoghadiya("Day Choghadiya", r.Day.DaySegs[:], r.DayChoghadiya))
	b.WriteString("\n")
	b.WriteString(m.renderChoghadiya("Night Choghadiya", r.Day.NightSegs[:], r.NightChoghadiya))

	return b.String()
}

func (m DayModel) renderElements(r *panchang.Report) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString("  " + labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	row("Tithi", fmt.Sprintf("%s %s, until %s", r.Paksha, r.Tithi, r.TithiEnds))
	row("Nakshatra", fmt.Sprintf("%s (%s), until %s", r.Nakshatra, r.NakshatraLord, r.NakshatraEnds))
	row("Yoga", r.Yoga)
	row("Karana", r.Karana)
	row("Lunar month", r.LunarMonth)
	row("Sun / Moon", fmt.Sprintf("%s %.2f° / %s %.2f°", r.SunSign, r.SunLongitude, r.MoonSign, r.MoonLongitude))

	sun := r.Sunrise + " - " + r.Sunset
	if r.SunEventApproximated {
		sun += " " + neutralStyle.Render("(approximated)")
	}
	row("Sunrise/sunset", sun)
	row("Rahu Kalam", r.RahuKalam)
	row("Abhijit", r.AbhijitMuhurat)
	return b.String()
}

func (m DayModel) renderChoghadiya(title string, segs []daypart.Segment, rows []panchang.ChoghadiyaExport) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	for i, c := range rows {
		line := fmt.Sprintf("%-8s %-8s %s", c.Name, c.Quality, c.Time)
		switch {
		case i < len(segs) && !m.now.IsZero() && segs[i].Contains(m.now):
			b.WriteString("▶ " + currentStyle.Render(line))
		default:
			b.WriteString("  " + qualityStyle(c.Label).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func qualityStyle(label string) lipgloss.Style {
	switch label {
	case daypart.Good.String():
		return goodStyle
	case daypart.Bad.String():
		return badStyle
	default:
		return neutralStyle
	}
}
