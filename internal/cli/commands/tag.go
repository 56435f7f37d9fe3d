package commands

import (
	"fmt"
	"regexp"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// NewTagCmd creates the tag command with all subcommands.
func NewTagCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag management commands",
		Long:  "Create, list, edit, and delete the colored tags attached to schedules",
	}

	cmd.AddCommand(newTagListCmd(app))
	cmd.AddCommand(newTagCreateCmd(app))
	cmd.AddCommand(newTagEditCmd(app))
	cmd.AddCommand(newTagDeleteCmd(app))

	return cmd
}

func newTagListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List tags",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, args []string) {
			if err := app.Schedules.FetchTags(); err != nil {
				reportError(err)
				return
			}
			tags := app.Schedules.Tags()
			if len(tags) == 0 {
				fmt.Println("🏷️  No tags yet.")
				fmt.Println("💡 Create one with 'ilog tag create <label> <#rrggbb>'")
				return
			}
			for _, tag := range tags {
				fmt.Printf("%s #%-4d %s (%s)\n", swatch(tag.Color), tag.ID, tag.Label, tag.Color)
			}
		},
	}
}

func newTagCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "create <label> <color>",
		Short:   "Create a tag",
		Aliases: []string{"add"},
		Args:    cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			label, color := args[0], args[1]
			if !hexColorPattern.MatchString(color) {
				fmt.Printf("❌ invalid color %q, expected #rrggbb\n", color)
				return
			}
			tag, err := app.Schedules.CreateTag(label, color)
			if err != nil {
				reportError(err)
				return
			}
			fmt.Printf("✅ Created tag %s #%d %s\n", swatch(tag.Color), tag.ID, tag.Label)
		},
	}
}

func newTagEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "edit <id> <label> <color>",
		Short:   "Edit a tag's label and color",
		Aliases: []string{"modify"},
		Args:    cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := parseID(args[0])
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}
			label, color := args[1], args[2]
			if !hexColorPattern.MatchString(color) {
				fmt.Printf("❌ invalid color %q, expected #rrggbb\n", color)
				return
			}
			tag, err := app.Schedules.UpdateTag(id, label, color)
			if err != nil {
				reportError(err)
				return
			}
			fmt.Printf("✅ Updated tag %s #%d %s\n", swatch(tag.Color), tag.ID, tag.Label)
		},
	}
}

func newTagDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a tag",
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
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Delete tag #%d? Schedules using it fall back to no tag.", id),
				}
				if err := survey.AskOne(prompt, &confirm); err != nil || !confirm {
					fmt.Println("Cancelled.")
					return
				}
			}
			if err := app.Schedules.DeleteTag(id); err != nil {
				reportError(err)
				return
			}
			fmt.Printf("🗑️  Deleted tag #%d\n", id)
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")

	return cmd
}
