package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/ilogapp/ilog-cli/internal/api"
)

// NewProfileCmd creates the profile command with all subcommands.
func NewProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile commands",
		Long:  "Show and edit your public profile",
	}

	cmd.AddCommand(newProfileShowCmd(app))
	cmd.AddCommand(newProfileEditCmd(app))
	cmd.AddCommand(newProfileNicknameCmd(app))

	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Run: func(cmd *cobra.Command, args []string) {
			profile, err := app.Client.GetProfile()
			if err != nil {
				reportError(err)
				return
			}
			fmt.Printf("👤 %s <%s>\n", profile.Nickname, profile.Email)
			if profile.Biography != "" {
				fmt.Printf("   %s\n", profile.Biography)
			}
			if profile.PhotoURL != "" {
				fmt.Printf("🖼  %s\n", profile.PhotoURL)
			}
		},
	}
}

func newProfileEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit nickname, biography, and photo",
		Run: func(cmd *cobra.Command, args []string) {
			profile, err := app.Client.GetProfile()
			if err != nil {
				reportError(err)
				return
			}

			var nickname string
			prompt := &survey.Input{Message: "Nickname:", Default: profile.Nickname}
			if err := survey.AskOne(prompt, &nickname); err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}

			if nickname != profile.Nickname {
				result := app.Nicknames.CheckNow(nickname)
				if result.Err != nil {
					fmt.Printf("❌ %v\n", result.Err)
					return
				}
				if !result.Available {
					fmt.Printf("❌ Nickname %q is taken\n", nickname)
					return
				}
			}

			var biography string
			if err := survey.AskOne(&survey.Input{Message: "Biography:", Default: profile.Biography}, &biography); err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}

			req := api.ProfileRequest{Nickname: nickname, Biography: biography}
			if photoPath, _ := cmd.Flags().GetString("photo"); photoPath != "" {
				data, err := os.ReadFile(photoPath)
				if err != nil {
					fmt.Printf("❌ Could not read photo: %v\n", err)
					return
				}
				req.Photo = &api.Upload{FileName: filepath.Base(photoPath), Data: data}
			}

			updated, err := app.Client.UpdateProfile(req)
			if err != nil {
				reportError(err)
				return
			}
			fmt.Printf("✅ Profile saved for %s\n", updated.Nickname)
		},
	}

	cmd.Flags().String("photo", "", "Replace the profile photo with this image file")

	return cmd
}

func newProfileNicknameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "nickname <name>",
		Short: "Check whether a nickname is available",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result := app.Nicknames.CheckNow(args[0])
			if result.Err != nil {
				fmt.Printf("❌ %v\n", result.Err)
				return
			}
			if result.Available {
				fmt.Printf("✅ %q is available\n", result.Nickname)
			} else {
				fmt.Printf("❌ %q is taken\n", result.Nickname)
			}
		},
	}
}
