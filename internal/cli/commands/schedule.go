package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ilogapp/ilog-cli/internal/api"
	"github.com/ilogapp/ilog-cli/internal/calendar"
	"github.com/ilogapp/ilog-cli/internal/models"
	"github.com/ilogapp/ilog-cli/internal/store"
)

const scheduleTimeLayout = "2006-01-02 15:04"

// NewScheduleCmd creates the schedule command with all subcommands.
func NewScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule management commands",
		Long:  "Create, list, edit, and delete calendar schedules",
	}

	cmd.AddCommand(newScheduleCreateCmd(app))
	cmd.AddCommand(newScheduleListCmd(app))
	cmd.AddCommand(newScheduleShowCmd(app))
	cmd.AddCommand(newScheduleEditCmd(app))
	cmd.AddCommand(newScheduleDeleteCmd(app))

	return cmd
}

func newScheduleCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create [title]",
		Short:   "Create a new schedule",
		Aliases: []string{"add"},
		Run: func(cmd *cobra.Command, args []string) {
			isInteractive, _ := cmd.Flags().GetBool("interactive")

			var req api.ScheduleRequest
			var err error
			if isInteractive {
				req, err = promptSchedule(app, api.ScheduleRequest{})
				if err != nil {
					fmt.Printf("❌ %v\n", err)
					return
				}
			} else {
				if len(args) < 1 {
					fmt.Println("❌ Title is required when not in interactive mode.")
					fmt.Println("💡 Use 'ilog schedule create \"Team standup\" --start ...' or 'ilog schedule create -i'")
					return
				}
				req, err = scheduleFromFlags(cmd, strings.Join(args, " "))
				if err != nil {
					fmt.Printf("❌ %v\n", err)
					return
				}
			}

			created, err := app.Schedules.Create(req)
			if err != nil {
				reportError(err)
				return
			}
			fmt.Printf("✅ Created schedule #%d: %s\n", created.ID, created.Title)
		},
	}

	cmd.Flags().BoolP("interactive", "i", false, "Use interactive mode")
	addScheduleFlags(cmd)

	return cmd
}

func newScheduleListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List schedules",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, args []string) {
			onDate, _ := cmd.Flags().GetString("date")

			if err := refreshSchedules(app); err != nil {
				reportError(err)
				return
			}

			records := app.Schedules.Schedules()
			if onDate != "" {
				date, err := time.ParseInLocation(models.DateLayout, onDate, time.Local)
				if err != nil {
					fmt.Printf("❌ invalid date %q, expected yyyy-MM-dd\n", onDate)
					return
				}
				records = app.Schedules.OnDate(date)
			}

			if len(records) == 0 {
				fmt.Println("📋 No schedules found.")
				fmt.Println("💡 Create one with 'ilog schedule create -i'")
				return
			}

			for _, rec := range records {
				printScheduleLine(app.Schedules, rec)
			}
		},
	}

	cmd.Flags().StringP("date", "d", "", "Only schedules touching this date (yyyy-MM-dd)")

	return cmd
}

func newScheduleShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one schedule in full",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := parseID(args[0])
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}
			if err := refreshSchedules(app); err != nil {
				reportError(err)
				return
			}
			rec, ok := app.Schedules.FindByID(id)
			if !ok {
				fmt.Printf("❌ No schedule with id %d\n", id)
				return
			}

			fmt.Printf("📅 %s\n", rec.Title)
			fmt.Printf("   When: %s\n", formatSpan(rec.Schedule))
			if rec.Location != "" {
				fmt.Printf("   Where: %s\n", rec.Location)
			}
			if rec.TagID != models.NoTagID {
				fmt.Printf("   Tag: %s %s\n", swatch(app.Schedules.ColorFor(rec.TagID)), app.Schedules.LabelFor(rec.TagID))
			}
			if rec.Description != "" {
				fmt.Printf("   Notes: %s\n", rec.Description)
			}
			if rec.RRule != "" {
				fmt.Printf("   Repeats: %s\n", rec.RRule)
			}
		},
	}
}

func newScheduleEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Edit a schedule",
		Aliases: []string{"modify"},
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := parseID(args[0])
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}
			if err := refreshSchedules(app); err != nil {
				reportError(err)
				return
			}
			rec, ok := app.Schedules.FindByID(id)
			if !ok {
				fmt.Printf("❌ No schedule with id %d\n", id)
				return
			}

			req, err := promptSchedule(app, api.ScheduleRequest{
				TagID:       rec.TagID,
				Title:       rec.Title,
				Location:    rec.Location,
				Description: rec.Description,
				StartTime:   rec.StartTime.Time,
				EndTime:     rec.EndTime.Time,
				IsAllDay:    rec.IsAllDay,
				RRule:       rec.RRule,
				CalendarID:  rec.CalendarID,
			})
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}

			updated, err := app.Schedules.Update(id, req)
			if err != nil {
				reportError(err)
				return
			}
			fmt.Printf("✅ Updated schedule #%d: %s\n", updated.ID, updated.Title)
		},
	}

	return cmd
}

func newScheduleDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a schedule",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := parseID(args[0])
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				confirm := false
				prompt := &survey.Confirm{Message: fmt.Sprintf("Delete schedule #%d?", id)}
				if err := survey.AskOne(prompt, &confirm); err != nil || !confirm {
					fmt.Println("Cancelled.")
					return
				}
			}
			if err := app.Schedules.Delete(id); err != nil {
				reportError(err)
				return
			}
			fmt.Printf("🗑️  Deleted schedule #%d\n", id)
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")

	return cmd
}

// refreshSchedules pulls schedules and tags so tag colors resolve in output.
func refreshSchedules(app *App) error {
	if err := app.Schedules.FetchTags(); err != nil {
		return err
	}
	return app.Schedules.Fetch()
}

func addScheduleFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "Start time (yyyy-MM-dd HH:mm, or yyyy-MM-dd with --all-day)")
	cmd.Flags().String("end", "", "End time (yyyy-MM-dd HH:mm, or yyyy-MM-dd with --all-day)")
	cmd.Flags().Bool("all-day", false, "All-day schedule")
	cmd.Flags().String("location", "", "Location")
	cmd.Flags().String("notes", "", "Description")
	cmd.Flags().Int64("tag", 0, "Tag id (0 for none)")
	cmd.Flags().String("rrule", "", "Recurrence rule, stored as-is")
}

func scheduleFromFlags(cmd *cobra.Command, title string) (api.ScheduleRequest, error) {
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	allDay, _ := cmd.Flags().GetBool("all-day")
	location, _ := cmd.Flags().GetString("location")
	notes, _ := cmd.Flags().GetString("notes")
	tagID, _ := cmd.Flags().GetInt64("tag")
	rrule, _ := cmd.Flags().GetString("rrule")

	start, err := parseScheduleTime(startStr, allDay)
	if err != nil {
		return api.ScheduleRequest{}, fmt.Errorf("--start: %w", err)
	}
	end, err := parseScheduleTime(endStr, allDay)
	if err != nil {
		return api.ScheduleRequest{}, fmt.Errorf("--end: %w", err)
	}

	return api.ScheduleRequest{
		TagID:       tagID,
		Title:       title,
		Location:    location,
		Description: notes,
		StartTime:   start,
		EndTime:     end,
		IsAllDay:    allDay,
		RRule:       rrule,
	}, nil
}

func parseScheduleTime(s string, allDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("time is required")
	}
	if allDay {
		return time.ParseInLocation(models.DateLayout, s, time.Local)
	}
	return time.ParseInLocation(scheduleTimeLayout, s, time.Local)
}

// promptSchedule walks the user through every schedule field, pre-filled
// with the given defaults when editing.
func promptSchedule(app *App, defaults api.ScheduleRequest) (api.ScheduleRequest, error) {
	req := defaults

	if err := survey.AskOne(&survey.Input{Message: "Title:", Default: defaults.Title}, &req.Title, survey.WithValidator(survey.Required)); err != nil {
		return req, err
	}
	if err := survey.AskOne(&survey.Confirm{Message: "All day?", Default: defaults.IsAllDay}, &req.IsAllDay); err != nil {
		return req, err
	}

	layout := scheduleTimeLayout
	if req.IsAllDay {
		layout = models.DateLayout
	}
	defStart, defEnd := "", ""
	if !defaults.StartTime.IsZero() {
		defStart = defaults.StartTime.Format(layout)
	}
	if !defaults.EndTime.IsZero() {
		defEnd = defaults.EndTime.Format(layout)
	}

	var startStr, endStr string
	if err := survey.AskOne(&survey.Input{Message: fmt.Sprintf("Start (%s):", layout), Default: defStart}, &startStr, survey.WithValidator(survey.Required)); err != nil {
		return req, err
	}
	if err := survey.AskOne(&survey.Input{Message: fmt.Sprintf("End (%s):", layout), Default: defEnd}, &endStr, survey.WithValidator(survey.Required)); err != nil {
		return req, err
	}

	var err error
	if req.StartTime, err = time.ParseInLocation(layout, startStr, time.Local); err != nil {
		return req, fmt.Errorf("invalid start time: %w", err)
	}
	if req.EndTime, err = time.ParseInLocation(layout, endStr, time.Local); err != nil {
		return req, fmt.Errorf("invalid end time: %w", err)
	}

	if err := survey.AskOne(&survey.Input{Message: "Location:", Default: defaults.Location}, &req.Location); err != nil {
		return req, err
	}
	if err := survey.AskOne(&survey.Input{Message: "Notes:", Default: defaults.Description}, &req.Description); err != nil {
		return req, err
	}

	req.TagID, err = promptTagChoice(app, defaults.TagID)
	if err != nil {
		return req, err
	}
	return req, nil
}

// promptTagChoice lets the user pick a tag from the cached tag list.
func promptTagChoice(app *App, current int64) (int64, error) {
	tags := app.Schedules.Tags()
	if len(tags) == 0 {
		return models.NoTagID, nil
	}

	options := []string{"(no tag)"}
	defaultOpt := options[0]
	ids := map[string]int64{options[0]: models.NoTagID}
	for _, tag := range tags {
		label := fmt.Sprintf("%s %s", swatch(tag.Color), tag.Label)
		options = append(options, label)
		ids[label] = tag.ID
		if tag.ID == current {
			defaultOpt = label
		}
	}

	var picked string
	prompt := &survey.Select{Message: "Tag:", Options: options, Default: defaultOpt}
	if err := survey.AskOne(prompt, &picked); err != nil {
		return models.NoTagID, err
	}
	return ids[picked], nil
}

func printScheduleLine(schedules *store.ScheduleStore, rec store.Record) {
	marker := swatch(schedules.ColorFor(rec.TagID))
	state := ""
	if rec.State == store.StatePending {
		state = " ⏳"
	}
	fmt.Printf("%s #%-4d %s  %s%s\n", marker, rec.ID, formatSpan(rec.Schedule), rec.Title, state)
}

func formatSpan(s models.Schedule) string {
	if s.IsAllDay {
		start := s.StartTime.Format(models.DateLayout)
		end := s.EndTime.Format(models.DateLayout)
		if start == end {
			return start + " (all day)"
		}
		return fmt.Sprintf("%s – %s (all day)", start, end)
	}
	if calendar.SameDate(s.StartTime.Time, s.EndTime.Time) {
		return fmt.Sprintf("%s %s–%s", s.StartTime.Format(models.DateLayout),
			s.StartTime.Format("15:04"), s.EndTime.Format("15:04"))
	}
	return fmt.Sprintf("%s – %s", s.StartTime.Format(scheduleTimeLayout), s.EndTime.Format(scheduleTimeLayout))
}

// swatch renders a colored block for a tag's hex color.
func swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}
