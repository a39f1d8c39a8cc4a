package cmd

import (
	"context"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/traderkit/schwabauth/db"
)

// tokenCmd shows the last token record obtained by auth or refresh. The
// record is purely informational: flows never consult it for freshness.
func tokenCmd() *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Show the last obtained token pair",
		Run: func(cmd *cobra.Command, args []string) {
			repo := db.NewTokenRepository(db.GetDB())
			token, err := repo.Get(context.Background())
			if err != nil {
				cmd.PrintErrln("Error: Failed to read the token record.")
				return
			}
			if token == nil {
				cmd.Println("No token pair has been obtained yet. Run 'schwabauth auth' first.")
				return
			}

			accessToken := token.AccessToken
			refreshToken := token.RefreshToken
			if !showSecrets {
				accessToken = truncateToken(accessToken)
				refreshToken = truncateToken(refreshToken)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Field", "Value"})

			// Table appearance settings
			table.SetColMinWidth(1, 40)                      // Set minimum width for the value column
			table.SetAlignment(tablewriter.ALIGN_LEFT)       // Align all columns to the left
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT) // Align headers to the left
			table.SetAutoWrapText(false)                     // Disable text wrapping in all columns
			table.SetRowLine(false)                          // Disable row line breaks

			table.Append([]string{"Access token", accessToken})
			table.Append([]string{"Refresh token", refreshToken})
			table.Append([]string{"Obtained at", token.ObtainedAt})
			table.Append([]string{"Expires at", token.ExpiresAt})

			table.Render()
		},
	}

	cmd.Flags().BoolVarP(&showSecrets, "show-secrets", "s", false, "Print the full token values instead of truncating them")

	return cmd
}
