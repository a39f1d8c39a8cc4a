package cmd

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/traderkit/schwabauth/broker"
	"github.com/traderkit/schwabauth/client"
)

// authCmd runs the full interactive authorization-code flow: print the
// authorization URL, collect the redirect URL the user lands on after
// logging in, exchange the embedded code for a token pair, and persist it.
func authCmd() *cobra.Command {
	var useBrowser bool

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Obtain a fresh token pair from the Schwab API",
		Run: func(cmd *cobra.Command, args []string) {
			log.Info().Msg("Starting the authorization-code flow")

			cfg, err := resolveConfig()
			if err != nil {
				cmd.PrintErrln("Error:", err.Error())
				return
			}

			service := newBrokerService(cfg)

			authURL, err := service.AuthorizationURL()
			if err != nil {
				cmd.PrintErrln("Error: Failed to build the authorization URL:", err.Error())
				return
			}

			var redirectURL string
			if useBrowser {
				cmd.Println("A browser window will open. Log in and authorize the app.")
				redirectURL, err = client.CaptureRedirect(cmd.Context(), authURL, cfg.RedirectURI)
				if err != nil {
					cmd.PrintErrln("Error: Failed to capture the redirect URL:", err.Error())
					return
				}
			} else {
				cmd.Println("1. Visit this URL:", authURL)
				cmd.Println("2. Log in and authorize the app.")
				cmd.Println("3. You'll be redirected to a URL that looks like:")
				cmd.Println("   " + cfg.RedirectURI + "/?code=LONG_CODE_HERE&session=...")
				cmd.Println("4. Copy the ENTIRE redirect URL.")
				redirectURL = promptForInput("\nPaste the full redirect URL here: ")
			}

			code, err := broker.ExtractAuthCode(redirectURL)
			if err != nil {
				// Pastes are messy: try a plain split before asking again.
				code = splitCodeFallback(redirectURL)
			}
			if code == "" {
				cmd.Println("Could not find a code in the URL. Please enter it manually.")
				code = promptForInput("Enter the authorization code: ")
				if code == "" {
					cmd.PrintErrln("Error: No authorization code provided.")
					return
				}
			}

			token, err := service.ExchangeCode(cmd.Context(), code)
			if err != nil {
				cmd.PrintErrln("Error: Failed to obtain tokens:", err.Error())
				cmd.PrintErrln("Run 'schwabauth auth' again to retry.")
				return
			}

			cmd.Println("Tokens obtained successfully.")
			cmd.Println("Access token:", truncateToken(token.AccessToken))
			cmd.Println("Refresh token saved to", cfg.TokenFile)
		},
	}

	cmd.Flags().BoolVarP(&useBrowser, "browser", "b", false, "Open a browser window and capture the redirect URL automatically")

	return cmd
}

// truncateToken shortens a token for display so full secrets don't land in scrollback.
func truncateToken(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}

// splitCodeFallback pulls a code out of a paste that contains "code=" but
// does not parse as a URL.
func splitCodeFallback(paste string) string {
	if !strings.Contains(paste, "code=") {
		return ""
	}
	code := strings.SplitN(paste, "code=", 2)[1]
	if i := strings.IndexByte(code, '&'); i >= 0 {
		code = code[:i]
	}
	return code
}
