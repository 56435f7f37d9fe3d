package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ilogapp/ilog-cli/internal/calendar"
	"github.com/ilogapp/ilog-cli/internal/models"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	todayStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	journalMarker = "•"
)

// NewMonthCmd creates the month view command.
func NewMonthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "month [yyyy-MM]",
		Short: "Show the month grid with schedules and journal marks",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			anchor, err := calendar.ParseAnchor(strings.Join(args, ""))
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}
			if err := refreshSchedules(app); err != nil {
				reportError(err)
				return
			}
			// Journal marks are decoration; a failed fetch only hides them.
			_ = app.ILogs.Fetch()

			renderMonth(app, anchor)
		},
	}
}

// NewWeekCmd creates the week view command.
func NewWeekCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "week [yyyy-MM-dd]",
		Short: "Show the week containing a date (today by default)",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			anchor, err := calendar.ParseAnchor(strings.Join(args, ""))
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}
			if err := refreshSchedules(app); err != nil {
				reportError(err)
				return
			}

			days := calendar.WeekRange(anchor)
			fmt.Println(headerStyle.Render(fmt.Sprintf("Week of %s", days[0].Format("January 2, 2006"))))
			for _, day := range days {
				printDay(app, day, false)
			}
		},
	}
}

// NewDayCmd creates the day view command.
func NewDayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "day [yyyy-MM-dd]",
		Short: "Show one day's schedules on a timeline",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			anchor, err := calendar.ParseAnchor(strings.Join(args, ""))
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}
			if err := refreshSchedules(app); err != nil {
				reportError(err)
				return
			}
			printDay(app, anchor, true)
		},
	}
}

func renderMonth(app *App, anchor time.Time) {
	grid := calendar.MonthGrid(anchor)
	used := app.ILogs.UsedDates()
	today := time.Now()

	fmt.Println(headerStyle.Render(anchor.Format("January 2006")))
	fmt.Println(" Sun  Mon  Tue  Wed  Thu  Fri  Sat")

	var row strings.Builder
	for i, day := range grid {
		cell := fmt.Sprintf("%3d", day.Day())
		mark := " "
		if used[day.Format(models.DateLayout)] {
			mark = journalMarker
		}
		cell += mark

		switch {
		case calendar.SameDate(day, today):
			cell = todayStyle.Render(cell)
		case day.Month() != anchor.Month():
			cell = mutedStyle.Render(cell)
		}
		row.WriteString(cell + " ")

		if (i+1)%7 == 0 {
			fmt.Println(row.String())
			row.Reset()
		}
	}

	// Day summaries under the grid, schedules colored by their tag.
	for _, day := range grid {
		if day.Month() != anchor.Month() {
			continue
		}
		records := app.Schedules.OnDate(day)
		for _, rec := range records {
			fmt.Printf("%2d %s %s\n", day.Day(), swatch(app.Schedules.ColorFor(rec.TagID)), rec.Title)
		}
	}
}

func printDay(app *App, day time.Time, timeline bool) {
	records := app.Schedules.OnDate(day)
	label := day.Format("Mon Jan 2")
	if calendar.SameDate(day, time.Now()) {
		label = todayStyle.Render(label)
	}
	fmt.Println(label)

	if len(records) == 0 {
		fmt.Println(mutedStyle.Render("   nothing scheduled"))
		return
	}

	tl := calendar.Timeline{HourHeight: app.Config.Calendar.HourHeight}
	for _, rec := range records {
		marker := swatch(app.Schedules.ColorFor(rec.TagID))
		if rec.IsAllDay {
			fmt.Printf("   %s all day      %s\n", marker, rec.Title)
			continue
		}
		line := fmt.Sprintf("   %s %s–%s  %s", marker,
			rec.StartTime.Format("15:04"), rec.EndTime.Format("15:04"), rec.Title)
		if timeline {
			top, height := tl.Block(rec.StartTime.Time, rec.EndTime.Time)
			line += mutedStyle.Render(fmt.Sprintf("  (y=%.0f h=%.0f)", top, height))
		}
		fmt.Println(line)
	}
}
