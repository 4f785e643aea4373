package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const checkTimeout = 30 * time.Second

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify configuration and the Graph connection",
	Long: `Resolve the configuration, load the access token and call Microsoft Graph
once to confirm the token is accepted. Prints the signed-in principal.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("sandbox", false, "check against the in-memory tenant")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	sandbox, err := cmd.Flags().GetBool("sandbox")
	if err != nil {
		return fmt.Errorf("getting sandbox flag: %w", err)
	}

	a, err := newApp(appSettings, sandbox)
	if err != nil {
		return err
	}

	cmd.Printf("Config:   %s\n", settingsService.ConfigPath())
	cmd.Printf("Graph:    %s\n", appSettings.Graph.BaseURL)
	if a.tokens.IsTokenValid() {
		cmd.Printf("Token:    valid until %s\n", a.tokens.ExpiresAt().UTC().Format(time.RFC3339))
	} else {
		cmd.Println("Token:    missing or expired")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	name, err := a.sharepoint.CheckConnection(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Signed in as %s\n", name)
	return nil
}
