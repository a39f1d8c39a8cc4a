package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/traderkit/schwabauth/tokenfile"
)

// refreshCmd obtains a fresh access token from the persisted refresh token.
func refreshCmd() *cobra.Command {
	var refreshToken string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the access token using the saved refresh token",
		Run: func(cmd *cobra.Command, args []string) {
			log.Info().Msg("Refreshing the access token")

			cfg, err := resolveConfig()
			if err != nil {
				cmd.PrintErrln("Error:", err.Error())
				return
			}

			if refreshToken == "" {
				refreshToken, err = tokenfile.NewStore(cfg.TokenFile).Load()
				if err != nil {
					cmd.PrintErrln("Error:", err.Error())
					cmd.PrintErrln("Run 'schwabauth auth' to obtain a refresh token first.")
					return
				}
			}

			token, err := newBrokerService(cfg).Refresh(cmd.Context(), refreshToken)
			if err != nil {
				cmd.PrintErrln("Error: Failed to refresh the access token:", err.Error())
				cmd.PrintErrln("Run 'schwabauth auth' again to obtain a fresh token pair.")
				return
			}

			cmd.Println("Access token refreshed successfully.")
			cmd.Println("Access token:", truncateToken(token.AccessToken))
			cmd.Println("Refresh token saved to", cfg.TokenFile)
		},
	}

	cmd.Flags().StringVarP(&refreshToken, "token", "t", "", "Refresh token to use instead of the saved one")

	return cmd
}
