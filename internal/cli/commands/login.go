package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// googleOAuthURL is the consent page that yields the ID token the backend
// exchanges for a JWT. The CLI cannot open a system browser everywhere, so
// the user pastes the resulting token back in.
const googleOAuthURL = "https://accounts.google.com/o/oauth2/v2/auth" +
	"?client_id=ilog-cli&response_type=id_token&scope=openid%20email%20profile" +
	"&redirect_uri=urn:ietf:wg:oauth:2.0:oob&nonce=ilog"

// NewLoginCmd creates the login command.
func NewLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your Google account",
		Long:  "Exchanges a Google ID token for an ilog session and stores it securely.",
		Run: func(cmd *cobra.Command, args []string) {
			copyURL, _ := cmd.Flags().GetBool("copy-url")
			pushToken, _ := cmd.Flags().GetString("push-token")

			fmt.Println("🌐 Open this URL in a browser and sign in with Google:")
			fmt.Printf("   %s\n", googleOAuthURL)
			if copyURL {
				if err := clipboard.WriteAll(googleOAuthURL); err == nil {
					fmt.Println("📋 URL copied to clipboard")
				}
			}

			idToken, err := readSecret("Paste the ID token: ")
			if err != nil {
				fmt.Printf("❌ Could not read token: %v\n", err)
				return
			}
			if idToken == "" {
				fmt.Println("❌ No token provided")
				return
			}

			sess, err := app.Client.ExchangeGoogleToken(idToken)
			if err != nil {
				reportError(err)
				return
			}

			if err := app.Sessions.Save(sess); err != nil {
				fmt.Printf("❌ Signed in but could not store the session: %v\n", err)
				return
			}

			if pushToken != "" {
				if err := app.Client.RegisterFCMToken(pushToken); err != nil {
					fmt.Printf("⚠️  Push token registration failed: %v\n", err)
				}
			}

			fmt.Printf("✅ Signed in as %s <%s>\n", sess.Name, sess.Email)
			fmt.Printf("🔐 Session stored via %s\n", app.Sessions.StorageMode())
		},
	}

	cmd.Flags().Bool("copy-url", false, "Copy the sign-in URL to the clipboard")
	cmd.Flags().String("push-token", "", "Register an FCM push token after signing in")

	return cmd
}

// NewLogoutCmd creates the logout command.
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Run: func(cmd *cobra.Command, args []string) {
			if err := app.Sessions.Clear(); err != nil {
				fmt.Printf("❌ Could not clear session: %v\n", err)
				return
			}
			fmt.Println("👋 Signed out")
		},
	}
}

// NewWhoamiCmd creates the whoami command.
func NewWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Run: func(cmd *cobra.Command, args []string) {
			sess, err := app.Sessions.Load()
			if err != nil {
				fmt.Println("❌ Not signed in")
				fmt.Println("💡 Use 'ilog login' to sign in")
				return
			}
			fmt.Printf("👤 %s <%s>\n", sess.Name, sess.Email)
		},
	}
}

// readSecret reads a line without echo when stdin is a terminal, falling
// back to plain reads when piped.
func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		data, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
