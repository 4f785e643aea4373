package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/services"
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Preview a local file with the document processor",
	Long: `Run a local file through the same document processor get_document_content
uses and print the JSON result. The file extension selects the parser.

Example:
  sharepoint-mcp process report.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	processor := services.NewDocumentProcessor(appSettings.Processing)
	result := processor.Process(&domain.RawDocument{
		Filename: filepath.Base(path),
		Content:  content,
	})

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
