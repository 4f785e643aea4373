package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sharepoint-mcp/internal/adapters/driven/auth"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the effective settings",
	Long: `Show the settings the server runs with after defaults, the config file and
environment overrides are applied. The access token is masked.`,
	RunE: runSettingsShow,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil || appSettings == nil {
		return errors.New("settings service not configured")
	}
	settings := appSettings

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", settingsService.ConfigPath())
	cmd.Printf("Debug: %s\n", yesNo(settings.Debug))
	cmd.Println()

	cmd.Println("[Document Processing]")
	cmd.Printf("  Max text preview length: %d\n", settings.Processing.MaxTextPreviewLength)
	cmd.Printf("  Max rows preview: %d\n", settings.Processing.MaxRowsPreview)
	cmd.Printf("  Max PDF pages: %d\n", settings.Processing.MaxPDFPages)
	cmd.Printf("  Supported extensions: %s\n", strings.Join(settings.Processing.SupportedExtensions, ", "))
	if len(settings.Processing.ExtensionKinds) > 0 {
		cmd.Printf("  Extension kinds: %s\n", formatKinds(settings.Processing.ExtensionKinds))
	}
	cmd.Println()

	cmd.Println("[Content Generation]")
	cmd.Printf("  Default audience: %s\n", settings.Generation.DefaultAudience)
	cmd.Printf("  Default purpose: %s\n", settings.Generation.DefaultPurpose)
	cmd.Printf("  Rich layout: %s\n", yesNo(settings.Generation.EnableRichLayout))
	cmd.Println()

	cmd.Println("[Graph]")
	cmd.Printf("  Base URL: %s\n", settings.Graph.BaseURL)
	cmd.Printf("  Timeout: %s\n", settings.Graph.Timeout)
	if settings.Graph.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %g req/s (burst %d)\n", settings.Graph.RequestsPerSecond, settings.Graph.Burst)
	} else {
		cmd.Println("  Rate limit: off")
	}
	cmd.Printf("  Max download: %d bytes\n", settings.Graph.MaxDownloadBytes)
	cmd.Printf("  Simple upload limit: %d bytes\n", settings.Graph.SimpleUploadLimit)
	cmd.Println()

	cmd.Println("[Auth]")
	if settings.Auth.TokenFile != "" {
		cmd.Printf("  Token file: %s\n", settings.Auth.TokenFile)
	} else if token := os.Getenv(auth.EnvAccessToken); token != "" {
		cmd.Printf("  Access token: %s\n", maskToken(token))
	} else {
		cmd.Println("  Access token: (not set)")
	}
	cmd.Printf("  Token lifetime: %s\n", settings.Auth.TokenExpiresIn)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// formatKinds renders ext=kind pairs in extension order.
func formatKinds(kinds map[string]string) string {
	exts := make([]string, 0, len(kinds))
	for ext := range kinds {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	pairs := make([]string, len(exts))
	for i, ext := range exts {
		pairs[i] = fmt.Sprintf("%s=%s", ext, kinds[ext])
	}
	return strings.Join(pairs, ", ")
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
