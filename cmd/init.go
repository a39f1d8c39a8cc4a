package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/traderkit/schwabauth/db"
)

// initCmd initializes schwabauth for first-time use by saving the Schwab
// developer app credentials in the internal database. Environment variables
// take precedence over stored credentials on every run.
func initCmd() *cobra.Command {
	var appKey, appSecret string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize schwabauth for first-time use",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("Please enter your Schwab app key and app secret.")
			appKey = promptForInput("App key: ")
			appSecret = promptForSecret("App secret: ")

			if validateCredentials(appKey, appSecret) {
				repo := db.NewCredentialsRepository(db.GetDB())
				if err := repo.Upsert(context.Background(), &db.Credentials{AppKey: appKey, AppSecret: appSecret}); err != nil {
					cmd.PrintErrln("Error: Failed to save the credentials.")
				} else {
					cmd.Println("Credentials saved successfully.")
				}
			} else {
				cmd.PrintErrln("Error: App key and app secret cannot be empty.")
			}
		},
	}

	return cmd
}
