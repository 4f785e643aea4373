package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// SiteURLInput is the input schema for tools addressing a site by URL.
type SiteURLInput struct {
	SiteURL string `json:"site_url" jsonschema:"full URL of the SharePoint site, e.g. https://contoso.sharepoint.com/sites/hr"`
}

// SearchInput is the input schema for search_sharepoint.
type SearchInput struct {
	SiteURL string `json:"site_url" jsonschema:"full URL of the SharePoint site"`
	Query   string `json:"query" jsonschema:"text to search for in file names and content"`
}

// CreateSiteInput is the input schema for create_sharepoint_site.
type CreateSiteInput struct {
	DisplayName string `json:"display_name" jsonschema:"display name of the new site"`
	Alias       string `json:"alias" jsonschema:"mail nickname; becomes the /sites/ path"`
	Description string `json:"description,omitempty" jsonschema:"optional site description"`
}

func (s *Server) registerSiteTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_site_info",
		Description: "Get basic information about a SharePoint site",
	}, s.handleGetSiteInfo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_document_libraries",
		Description: "List all document libraries in a SharePoint site",
	}, s.handleListDocumentLibraries)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_sharepoint",
		Description: "Search files in the default document library of a SharePoint site",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_sharepoint_site",
		Description: "Create a group-connected SharePoint team site",
	}, s.handleCreateSite)
}

func (s *Server) handleGetSiteInfo(
	ctx context.Context, _ *mcp.CallToolRequest, in SiteURLInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("get_site_info", "accessing SharePoint", in.SiteURL, func() (any, error) {
		site, err := s.ports.SharePoint.GetSiteInfo(ctx, in.SiteURL)
		if err != nil {
			return nil, err
		}
		return siteInfo(site, in.SiteURL), nil
	})
}

func (s *Server) handleListDocumentLibraries(
	ctx context.Context, _ *mcp.CallToolRequest, in SiteURLInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("list_document_libraries", "listing document libraries", in.SiteURL, func() (any, error) {
		drives, err := s.ports.SharePoint.ListDocumentLibraries(ctx, in.SiteURL)
		if err != nil {
			return nil, err
		}
		return collection("libraries", drives, libraryJSON), nil
	})
}

func (s *Server) handleSearch(
	ctx context.Context, _ *mcp.CallToolRequest, in SearchInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("search_sharepoint", "searching SharePoint", in.SiteURL, func() (any, error) {
		items, err := s.ports.SharePoint.Search(ctx, in.SiteURL, in.Query)
		if err != nil {
			return nil, err
		}
		out := collection("results", items, searchResultJSON)
		out["query"] = in.Query
		return out, nil
	})
}

func (s *Server) handleCreateSite(
	ctx context.Context, _ *mcp.CallToolRequest, in CreateSiteInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("create_sharepoint_site", "creating SharePoint site", in.Alias, func() (any, error) {
		group, err := s.ports.SharePoint.CreateSite(ctx, domain.SiteRequest{
			DisplayName: in.DisplayName,
			Alias:       in.Alias,
			Description: in.Description,
		})
		if err != nil {
			return nil, err
		}
		return groupJSON(group), nil
	})
}
