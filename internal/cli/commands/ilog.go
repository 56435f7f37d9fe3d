package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ilogapp/ilog-cli/internal/api"
	"github.com/ilogapp/ilog-cli/internal/hashtag"
	"github.com/ilogapp/ilog-cli/internal/models"
	"github.com/ilogapp/ilog-cli/internal/store"
)

// NewILogCmd creates the ilog journal command with all subcommands.
func NewILogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ilog",
		Short: "Daily journal (i-log) commands",
		Long:  "Write, view, edit, and delete daily journal entries",
	}

	cmd.AddCommand(newILogWriteCmd(app))
	cmd.AddCommand(newILogListCmd(app))
	cmd.AddCommand(newILogViewCmd(app))
	cmd.AddCommand(newILogEditCmd(app))
	cmd.AddCommand(newILogDeleteCmd(app))

	return cmd
}

func newILogWriteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write [date]",
		Short: "Write the journal entry for a date (today by default)",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			date, err := parseDateArg(args)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}

			existing, err := app.ILogs.ByDate(date)
			if err != nil {
				reportError(err)
				return
			}
			if existing != nil {
				fmt.Printf("❌ An entry for %s already exists.\n", date.Format(models.DateLayout))
				fmt.Println("💡 Use 'ilog ilog edit' to change it")
				return
			}

			var content string
			prompt := &survey.Multiline{Message: "What happened today? (#tags inline)"}
			if err := survey.AskOne(prompt, &content, survey.WithValidator(survey.Required)); err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}

			body, tags := splitHashtags(content)
			if capped := store.TruncateContent(body); len(capped) < len(body) {
				fmt.Printf("⚠️  Entry trimmed to %d characters\n", models.MaxILogContentLen)
				body = capped
			}

			visibility, err := visibilityFlag(cmd)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}
			imagePaths, _ := cmd.Flags().GetStringSlice("image")
			images, err := readUploads(imagePaths)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}

			friends, _ := cmd.Flags().GetStringSlice("friend")
			entry, err := app.ILogs.Create(api.ILogRequest{
				LogDate:    date,
				Content:    body,
				Visibility: visibility,
				FriendTags: friends,
				Tags:       tags,
			}, images)
			if err != nil {
				reportError(err)
				return
			}

			fmt.Printf("✅ Saved entry for %s\n", entry.LogDate.Format(models.DateLayout))
			if tags != "" {
				fmt.Printf("🏷️  %s\n", tags)
			}
		},
	}

	cmd.Flags().String("visibility", "private", "Who can see the entry (public, friends, private)")
	cmd.Flags().StringSlice("friend", nil, "Tag a friend on the entry (repeatable)")
	cmd.Flags().StringSlice("image", nil, "Attach an image file (repeatable)")

	return cmd
}

func newILogListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List journal entries, newest first",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, args []string) {
			if err := app.ILogs.Fetch(); err != nil {
				reportError(err)
				return
			}
			entries := app.ILogs.Entries()
			if len(entries) == 0 {
				fmt.Println("📓 No journal entries yet.")
				fmt.Println("💡 Write one with 'ilog ilog write'")
				return
			}
			for _, entry := range entries {
				extras := ""
				if len(entry.Images) > 0 {
					extras = fmt.Sprintf(" 🖼 %d", len(entry.Images))
				}
				fmt.Printf("%s  %s%s\n", entry.LogDate.Format(models.DateLayout),
					truncate(strings.ReplaceAll(entry.Content, "\n", " "), 60), extras)
			}
		},
	}
}

func newILogViewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [date]",
		Short: "View the entry for a date (today by default)",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			date, err := parseDateArg(args)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}

			jump, _ := cmd.Flags().GetString("jump")
			var entry *models.ILog
			switch jump {
			case "":
				entry, err = app.ILogs.ByDate(date)
			case "prev":
				entry, err = app.ILogs.Previous(date)
			case "next":
				entry, err = app.ILogs.Next(date)
			default:
				fmt.Printf("❌ invalid --jump %q, expected prev or next\n", jump)
				return
			}
			if err != nil {
				reportError(err)
				return
			}
			if entry == nil {
				fmt.Println("📓 No entry there.")
				return
			}

			printEntry(entry)

			if doCopy, _ := cmd.Flags().GetBool("copy"); doCopy {
				if err := clipboard.WriteAll(entry.Content); err != nil {
					fmt.Printf("❌ Could not copy to clipboard: %v\n", err)
					return
				}
				fmt.Println("📋 Copied to clipboard")
			}
		},
	}

	cmd.Flags().Bool("copy", false, "Copy the entry text to the clipboard")
	cmd.Flags().String("jump", "", "View the entry before/after the date (prev, next)")

	return cmd
}

func newILogEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [date]",
		Short: "Edit the entry for a date (today by default)",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			date, err := parseDateArg(args)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}
			entry, err := app.ILogs.ByDate(date)
			if err != nil {
				reportError(err)
				return
			}
			if entry == nil {
				fmt.Println("📓 No entry to edit.")
				fmt.Println("💡 Write one with 'ilog ilog write'")
				return
			}

			seed := entry.Content
			if entry.Tags != "" {
				seed += "\n" + entry.Tags + " "
			}
			var content string
			prompt := &survey.Multiline{Message: "Edit your entry:", Default: seed}
			if err := survey.AskOne(prompt, &content, survey.WithValidator(survey.Required)); err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}
			body, tags := splitHashtags(content)
			body = store.TruncateContent(body)

			visibility := entry.Visibility
			if visStr, _ := cmd.Flags().GetString("visibility"); visStr != "" {
				visibility, err = models.ParseVisibility(visStr)
				if err != nil {
					fmt.Printf("❌ %v\n", err)
					return
				}
			}

			friends := decodeFriendTags(entry.FriendTags)
			if cmd.Flags().Changed("friend") {
				friends, _ = cmd.Flags().GetStringSlice("friend")
			}

			removeImages, _ := cmd.Flags().GetStringSlice("remove-image")
			kept := keepImages(entry.Images, removeImages)
			imagePaths, _ := cmd.Flags().GetStringSlice("image")
			newImages, err := readUploads(imagePaths)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}

			updated, err := app.ILogs.Update(entry.ID, api.ILogRequest{
				LogDate:    entry.LogDate.Time,
				Content:    body,
				Visibility: visibility,
				FriendTags: friends,
				Tags:       tags,
				KeptImages: kept,
			}, newImages)
			if err != nil {
				reportError(err)
				return
			}
			fmt.Printf("✅ Updated entry for %s\n", updated.LogDate.Format(models.DateLayout))
		},
	}

	cmd.Flags().String("visibility", "", "Change who can see the entry (public, friends, private)")
	cmd.Flags().StringSlice("friend", nil, "Replace the tagged friends (repeatable; empty clears)")
	cmd.Flags().StringSlice("image", nil, "Attach a new image file (repeatable)")
	cmd.Flags().StringSlice("remove-image", nil, "Remove an existing image by URL (repeatable)")

	return cmd
}

func newILogDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete [date]",
		Short:   "Delete the entry for a date (today by default)",
		Aliases: []string{"rm"},
		Args:    cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			date, err := parseDateArg(args)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}
			entry, err := app.ILogs.ByDate(date)
			if err != nil {
				reportError(err)
				return
			}
			if entry == nil {
				fmt.Println("📓 Nothing to delete.")
				return
			}

			force, _ := cmd.Flags().GetBool("force")
			if !force {
				confirm := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Delete the entry for %s?", entry.LogDate.Format(models.DateLayout)),
				}
				if err := survey.AskOne(prompt, &confirm); err != nil || !confirm {
					fmt.Println("Cancelled.")
					return
				}
			}
			if err := app.ILogs.Delete(entry.ID); err != nil {
				reportError(err)
				return
			}
			fmt.Printf("🗑️  Deleted entry for %s\n", entry.LogDate.Format(models.DateLayout))
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")

	return cmd
}

func printEntry(entry *models.ILog) {
	header := fmt.Sprintf("# %s\n\n", entry.LogDate.Format("Monday, January 2 2006"))
	rendered, err := glamour.Render(header+entry.Content, "dark")
	if err != nil {
		// Fall back to plain text when the terminal profile cannot be set up.
		fmt.Printf("📓 %s\n\n%s\n", entry.LogDate.Format(models.DateLayout), entry.Content)
	} else {
		fmt.Print(rendered)
	}
	if entry.Tags != "" {
		fmt.Printf("🏷️  %s\n", entry.Tags)
	}
	for _, url := range entry.Images {
		fmt.Printf("🖼  %s\n", url)
	}
	if entry.LikeCount > 0 || entry.CommentCount > 0 {
		fmt.Printf("❤️ %d  💬 %d\n", entry.LikeCount, entry.CommentCount)
	}
}

// splitHashtags replays the text through the hashtag editor as if it were
// typed, pulling confirmed #tokens out of the body. A trailing token without
// its closing space is flushed with one, since the text is final.
func splitHashtags(content string) (body, tags string) {
	editor := hashtag.NewEditor(nil)
	var buf []rune
	for _, r := range content {
		buf = append(buf, r)
		if editor.Apply(string(buf), len(buf)) != "" {
			buf = []rune(editor.Text())
		}
	}
	if editor.Apply(string(buf)+" ", len(buf)+1) != "" {
		buf = []rune(editor.Text())
	}
	return strings.TrimRight(string(buf), " \n"), editor.TagString()
}

// decodeFriendTags parses the loosely typed friendTags field, which the
// backend stores as a JSON-encoded array of names. Anything unreadable is
// treated as no friends tagged.
func decodeFriendTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var friends []string
	if err := json.Unmarshal([]byte(raw), &friends); err != nil {
		return nil
	}
	return friends
}

// keepImages filters the existing image list down to the ones not removed.
func keepImages(existing, removed []string) []string {
	drop := make(map[string]bool, len(removed))
	for _, url := range removed {
		drop[url] = true
	}
	var kept []string
	for _, url := range existing {
		if !drop[url] {
			kept = append(kept, url)
		}
	}
	return kept
}

func visibilityFlag(cmd *cobra.Command) (models.Visibility, error) {
	s, _ := cmd.Flags().GetString("visibility")
	return models.ParseVisibility(s)
}
