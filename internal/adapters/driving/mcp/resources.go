package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for SharePoint resources.
	uriScheme = "sharepoint://"

	processingSettingsURI = uriScheme + "settings/document-processing"
	listTemplatePrefix    = uriScheme + "templates/lists/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         processingSettingsURI,
		Name:        "document-processing-settings",
		Description: "Effective Document Processor limits and recognised extensions",
		MIMEType:    "application/json",
	}, s.handleProcessingSettingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: listTemplatePrefix + "{purpose}",
		Name:        "list-template",
		Description: "Columns created by create_intelligent_list for a purpose",
		MIMEType:    "application/json",
	}, s.handleListTemplateResource)
}

// handleProcessingSettingsResource returns the processor's effective settings.
func (s *Server) handleProcessingSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	settings := s.ports.Processor.Settings()
	byKind := s.ports.Processor.Extensions()

	var all []string
	for _, exts := range byKind {
		all = append(all, exts...)
	}
	sort.Strings(all)

	return jsonResource(req.Params.URI, map[string]any{
		"max_text_preview_length": settings.MaxTextPreviewLength,
		"max_rows_preview":        settings.MaxRowsPreview,
		"max_pdf_pages":           settings.MaxPDFPages,
		"supported_extensions":    all,
		"extensions_by_kind":      byKind,
	})
}

// handleListTemplateResource returns the list columns for a purpose.
// Unknown purposes resolve to the general template, as the tool does.
func (s *Server) handleListTemplateResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	raw := extractPurpose(req.Params.URI)
	if raw == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	purpose := s.ports.Generator.ResolvePurpose(raw)
	return jsonResource(req.Params.URI, map[string]any{
		"purpose": purpose.String(),
		"columns": columnsJSON(s.ports.Generator.ListColumns(purpose)),
	})
}

// extractPurpose extracts the purpose from a URI like sharepoint://templates/lists/{purpose}.
func extractPurpose(uri string) string {
	if !strings.HasPrefix(uri, listTemplatePrefix) {
		return ""
	}
	purpose := strings.TrimPrefix(uri, listTemplatePrefix)
	if strings.Contains(purpose, "/") {
		return ""
	}
	return purpose
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
