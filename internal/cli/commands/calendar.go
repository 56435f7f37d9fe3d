package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ilogapp/ilog-cli/internal/cli/tui"
)

// NewCalendarCmd creates the interactive calendar command.
func NewCalendarCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Browse the calendar interactively",
		Long:  "A full-screen month browser. Arrow keys move, n/p switch months, q quits.",
		Run: func(cmd *cobra.Command, args []string) {
			if err := refreshSchedules(app); err != nil {
				reportError(err)
				return
			}
			_ = app.ILogs.Fetch()

			model := tui.NewCalendarModel(app.Schedules, app.ILogs)
			if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
				fmt.Printf("❌ Calendar closed with an error: %v\n", err)
			}
		},
	}
}
