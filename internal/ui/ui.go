// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-panchang/internal/festival"
	"github.com/litescript/ls-panchang/internal/geo"
	"github.com/litescript/ls-panchang/internal/panchang"
	"github.com/litescript/ls-panchang/internal/state"
	"github.com/litescript/ls-panchang/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewDay ViewMode = iota
	ViewFestivals
)

// Source answers the queries the UI displays.
type Source interface {
	GetPanchang(ctx context.Context, q panchang.PanchangQuery) (*panchang.Report, error)
	GetYearlyFestivals(ctx context.Context, year int) ([]festival.Match, error)
}

// queryTimeout bounds one background query.
const queryTimeout = 2 * time.Minute

// Msg types for Bubble Tea
type (
	// TickMsg refreshes the clock and the current-choghadiya marker.
	TickMsg time.Time

	// reportMsg carries a computed day.
	reportMsg struct {
		date   time.Time
		report *panchang.Report
		err    error
	}

	// scanMsg carries a completed year scan.
	scanMsg struct {
		year     int
		matches  []festival.Match
		duration time.Duration
		err      error
	}

	// RulesUpdatedMsg signals a rule file reload from the watcher.
	RulesUpdatedMsg struct {
		Update festival.Update
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	src   Source
	state *state.Manager
	zone  *time.Location
	now   func() time.Time

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string

	// Sub-models
	day       DayModel
	festivals FestivalsModel
}

// New creates a new root UI model. zone is the civil zone of the default
// location; dates are stepped in it.
func New(src Source, stateMgr *state.Manager, zone *time.Location) Model {
	if zone == nil {
		zone = time.Local
	}
	m := Model{
		src:   src,
		state: stateMgr,
		zone:  zone,
		now:   time.Now,
	}
	today := m.today()
	m.day = NewDayModel(today)
	m.festivals = NewFestivalsModel(today.Year())
	return m
}

// WithClock replaces the wall clock, for tests.
func (m Model) WithClock(now func() time.Time) Model {
	m.now = now
	today := m.today()
	m.day = NewDayModel(today)
	m.festivals = NewFestivalsModel(today.Year())
	return m
}

func (m Model) today() time.Time {
	n := m.now().In(m.zone)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, m.zone)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.loadDay(m.day.date),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "d":
			m.viewMode = ViewDay
		case "2", "f":
			m.viewMode = ViewFestivals
			cmds = append(cmds, m.ensureScan())

		case "tab":
			m.viewMode = (m.viewMode + 1) % 2
			if m.viewMode == ViewFestivals {
				cmds = append(cmds, m.ensureScan())
			}

		case "t":
			today := m.today()
			if m.viewMode == ViewDay {
				m.day = m.day.SetDate(today)
				cmds = append(cmds, m.loadDay(today))
			} else {
				m.festivals = m.festivals.SetYear(today.Year())
				cmds = append(cmds, m.ensureScan())
			}

		case "left", "h", "right", "l":
			step := 1
			if s := msg.String(); s == "left" || s == "h" {
				step = -1
			}
			if m.viewMode == ViewDay {
				d := m.day.date.AddDate(0, 0, step)
				m.day = m.day.SetDate(d)
				cmds = append(cmds, m.loadDay(d))
			} else {
				m.festivals = m.festivals.SetYear(m.festivals.year + step)
				cmds = append(cmds, m.ensureScan())
			}

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Header takes 3 lines, footer 2
		contentHeight := msg.Height - 5
		m.day = m.day.SetSize(msg.Width, contentHeight)
		m.festivals = m.festivals.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.day = m.day.SetNow(time.Time(msg))

	case reportMsg:
		// Drop answers for a date the user has already moved past.
		if msg.date.Equal(m.day.date) {
			m.day = m.day.SetReport(msg.report, msg.err)
		}

	case scanMsg:
		if msg.err != nil {
			if m.state != nil {
				m.state.ScanFailed(msg.year, msg.err)
			}
		} else if m.state != nil {
			m.state.RecordScan(msg.year, msg.matches, msg.duration)
		}
		if msg.year == m.festivals.year {
			m.festivals = m.festivals.SetMatches(msg.matches, msg.err)
		}

	case RulesUpdatedMsg:
		if m.state != nil {
			m.state.ApplyUpdate(msg.Update)
		}
		if msg.Update.Err != nil {
			m.statusMsg = "Rules rejected: " + msg.Update.Err.Error()
			break
		}
		m.statusMsg = fmt.Sprintf("Reloaded %d rules from %s", msg.Update.Table.Len(), msg.Update.Path)
		m.festivals = m.festivals.Invalidate()
		m.day = m.day.SetDate(m.day.date)
		cmds = append(cmds, m.loadDay(m.day.date))
		if m.viewMode == ViewFestivals {
			cmds = append(cmds, m.ensureScan())
		}

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewDay:
		m.day, cmd = m.day.Update(msg)
	case ViewFestivals:
		m.festivals, cmd = m.festivals.Update(msg)
	}
	return cmd
}

// loadDay computes the panchang of date in the background.
func (m Model) loadDay(date time.Time) tea.Cmd {
	src := m.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		r, err := src.GetPanchang(ctx, panchang.PanchangQuery{Date: date.Format(geo.DateLayout)})
		return reportMsg{date: date, report: r, err: err}
	}
}

// ensureScan serves the festivals view from the state cache, or starts a
// background scan of its year.
func (m *Model) ensureScan() tea.Cmd {
	year := m.festivals.year
	if m.festivals.loaded {
		return nil
	}
	if m.state != nil {
		if s, ok := m.state.Scan(year); ok {
			m.festivals = m.festivals.SetMatches(s.Matches, nil)
			return nil
		}
	}
	if m.festivals.loading {
		return nil
	}
	m.festivals.loading = true

	src := m.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		start := time.Now()
		matches, err := src.GetYearlyFestivals(ctx, year)
		return scanMsg{year: year, matches: matches, duration: time.Since(start), err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewDay:
		content = m.day.View()
	case ViewFestivals:
		content = m.festivals.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(renderTitle("ls-panchang"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  v%s · %s", version.Version, m.now().In(m.zone).Format("Mon Jan 2 15:04 MST"))))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	return b.String()
}

// renderTitle draws text in a saffron-to-vermilion gradient.
func renderTitle(text string) string {
	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		t := float64(i) / float64(max(len(runes)-1, 1))
		// #FF9933 -> #E34234
		rr := 255 + t*(227-255)
		gg := 153 + t*(66-153)
		bb := 51 + t*(52-51)
		color := fmt.Sprintf("#%02X%02X%02X", int(rr), int(gg), int(bb))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(string(r)))
	}
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Day", "[2] Festivals"}

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeTabStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, mutedStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	var help string
	switch m.viewMode {
	case ViewFestivals:
		help = "←/→: year | ↑↓: scroll | t: this year | tab: switch view | q: quit"
	default:
		help = "←/→: day | t: today | tab: switch view | q: quit"
	}

	footer := "  " + mutedStyle.Render(help)
	if m.statusMsg != "" {
		footer += "\n  " + mutedStyle.Render(m.statusMsg)
	}
	return footer
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// SendRulesUpdate creates a command that delivers a watcher update.
func SendRulesUpdate(u festival.Update) tea.Cmd {
	return func() tea.Msg {
		return RulesUpdatedMsg{Update: u}
	}
}
