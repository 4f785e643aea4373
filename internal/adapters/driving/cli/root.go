// Package cli provides the sharepoint-mcp command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sharepoint-mcp/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/services"
	"github.com/custodia-labs/sharepoint-mcp/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var (
	configPath string
	verbose    bool

	settingsService driving.SettingsService
	appSettings     *domain.AppSettings
)

var rootCmd = &cobra.Command{
	Use:   "sharepoint-mcp",
	Short: "SharePoint tools for MCP clients",
	Long: `sharepoint-mcp exposes SharePoint sites, document libraries, lists and
pages to AI assistants over the Model Context Protocol.

Requests go to Microsoft Graph with the bearer token supplied by the host in
ACCESS_TOKEN (or a token file named by ACCESS_TOKEN_FILE). Documents are
returned as bounded text or table previews.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default $SHAREPOINT_MCP_CONFIG or ~/.sharepoint-mcp/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// ExecuteContext runs the root command. Cancelling ctx stops a running server.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadSettings resolves configuration before any subcommand runs.
func loadSettings(cmd *cobra.Command, _ []string) error {
	logger.SetOutput(cmd.ErrOrStderr())

	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settingsService = services.NewSettingsService(store)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("resolving settings: %w", err)
	}
	if err := settingsService.Validate(settings); err != nil {
		return fmt.Errorf("invalid settings in %s: %w", settingsService.ConfigPath(), err)
	}
	appSettings = settings

	logger.SetVerbose(verbose || settings.Debug)
	logger.Debug("config: %s", settingsService.ConfigPath())
	return nil
}
