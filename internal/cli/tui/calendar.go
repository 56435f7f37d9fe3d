package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ilogapp/ilog-cli/internal/calendar"
	"github.com/ilogapp/ilog-cli/internal/models"
	"github.com/ilogapp/ilog-cli/internal/store"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	weekdayStyle  = lipgloss.NewStyle().Faint(true)
	cellStyle     = lipgloss.NewStyle().Width(5)
	outsideStyle  = cellStyle.Foreground(lipgloss.Color("240"))
	selectedStyle = cellStyle.Reverse(true)
	todayStyle    = cellStyle.Bold(true).Foreground(lipgloss.Color("212"))
	helpStyle     = lipgloss.NewStyle().Faint(true).MarginTop(1)
)

// CalendarModel is a full-screen month browser over the cached schedule and
// journal data. It never talks to the network itself; the stores are fetched
// before the program starts.
type CalendarModel struct {
	schedules *store.ScheduleStore
	ilogs     *store.ILogStore

	anchor time.Time // any day inside the displayed month
	grid   []time.Time
	cursor int // index into grid
}

// NewCalendarModel starts on the current month with today selected.
func NewCalendarModel(schedules *store.ScheduleStore, ilogs *store.ILogStore) CalendarModel {
	now := time.Now()
	m := CalendarModel{
		schedules: schedules,
		ilogs:     ilogs,
		anchor:    now,
	}
	m.rebuildGrid()
	for i, day := range m.grid {
		if calendar.SameDate(day, now) {
			m.cursor = i
			break
		}
	}
	return m
}

func (m CalendarModel) Init() tea.Cmd {
	return nil
}

func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.move(-1)
		case "right", "l":
			m.move(1)
		case "up", "k":
			m.move(-7)
		case "down", "j":
			m.move(7)
		case "n":
			m.setMonth(calendar.NextMonth(m.anchor))
		case "p":
			m.setMonth(calendar.PrevMonth(m.anchor))
		case "t":
			m.setMonth(time.Now())
			for i, day := range m.grid {
				if calendar.SameDate(day, time.Now()) {
					m.cursor = i
				}
			}
		}
	}
	return m, nil
}

func (m *CalendarModel) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.grid) {
		return
	}
	m.cursor = next
}

func (m *CalendarModel) setMonth(anchor time.Time) {
	m.anchor = anchor
	m.rebuildGrid()
	// Land on the first day of the month rather than a padding cell.
	for i, day := range m.grid {
		if day.Month() == m.anchor.Month() && day.Day() == 1 {
			m.cursor = i
			break
		}
	}
}

func (m *CalendarModel) rebuildGrid() {
	m.grid = calendar.MonthGrid(m.anchor)
}

func (m CalendarModel) View() string {
	var b strings.Builder
	used := m.ilogs.UsedDates()
	today := time.Now()

	b.WriteString(titleStyle.Render(m.anchor.Format("January 2006")) + "\n")
	b.WriteString(weekdayStyle.Render(" Sun  Mon  Tue  Wed  Thu  Fri  Sat") + "\n")

	for i, day := range m.grid {
		mark := " "
		if used[day.Format(models.DateLayout)] {
			mark = "•"
		}
		text := fmt.Sprintf("%3d%s", day.Day(), mark)

		style := cellStyle
		switch {
		case i == m.cursor:
			style = selectedStyle
		case calendar.SameDate(day, today):
			style = todayStyle
		case day.Month() != m.anchor.Month():
			style = outsideStyle
		}
		b.WriteString(style.Render(text))

		if (i+1)%7 == 0 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + m.dayDetail())
	b.WriteString(helpStyle.Render("←↓↑→ move  n/p month  t today  q quit"))
	return b.String()
}

// dayDetail lists the selected day's schedules and journal entry.
func (m CalendarModel) dayDetail() string {
	day := m.grid[m.cursor]
	var b strings.Builder
	b.WriteString(titleStyle.Render(day.Format("Mon Jan 2")) + "\n")

	records := m.schedules.OnDate(day)
	if len(records) == 0 {
		b.WriteString(weekdayStyle.Render("  nothing scheduled") + "\n")
	}
	for _, rec := range records {
		dot := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.schedules.ColorFor(rec.TagID))).
			Render("■")
		when := "all day"
		if !rec.IsAllDay {
			when = rec.StartTime.Format("15:04") + "–" + rec.EndTime.Format("15:04")
		}
		b.WriteString(fmt.Sprintf("  %s %-13s %s\n", dot, when, rec.Title))
	}

	if used := m.ilogs.UsedDates(); used[day.Format(models.DateLayout)] {
		b.WriteString("  📓 journal entry written\n")
	}
	return b.String()
}
