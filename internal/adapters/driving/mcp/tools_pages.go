package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ModernPageInput is the input schema for create_modern_page.
type ModernPageInput struct {
	SiteURL  string `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID   string `json:"site_id" jsonschema:"ID of the site"`
	Name     string `json:"name" jsonschema:"page name; becomes the .aspx file name"`
	Title    string `json:"title,omitempty" jsonschema:"page title; derived from the purpose and name when empty"`
	Purpose  string `json:"purpose,omitempty" jsonschema:"projects, events, tasks, contacts, documents or general"`
	Audience string `json:"audience,omitempty" jsonschema:"who the page is written for, e.g. general or executives"`
}

// NewsPostInput is the input schema for create_news_post.
type NewsPostInput struct {
	SiteURL     string `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID      string `json:"site_id" jsonschema:"ID of the site"`
	Title       string `json:"title" jsonschema:"headline of the news post"`
	Description string `json:"description,omitempty" jsonschema:"short summary shown under the headline"`
	Content     string `json:"content,omitempty" jsonschema:"body of the post in markdown"`
}

// SiteIDInput is the input schema for tools addressing a site by ID.
type SiteIDInput struct {
	SiteID string `json:"site_id" jsonschema:"ID of the site"`
}

// PageInput is the input schema for get_page_content.
type PageInput struct {
	SiteID string `json:"site_id" jsonschema:"ID of the site"`
	PageID string `json:"page_id" jsonschema:"ID of the page"`
}

func (s *Server) registerPageTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_modern_page",
		Description: "Create and publish a modern page laid out for a purpose and audience",
	}, s.handleCreateModernPage)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_news_post",
		Description: "Create and publish a news post from markdown content",
	}, s.handleCreateNewsPost)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_pages",
		Description: "List the site pages and news posts of a site",
	}, s.handleListPages)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_page_content",
		Description: "Get a page with its text rendered as markdown",
	}, s.handleGetPageContent)
}

func (s *Server) handleCreateModernPage(
	ctx context.Context, _ *mcp.CallToolRequest, in ModernPageInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("create_modern_page", "creating page", in.Name, func() (any, error) {
		page, err := s.ports.SharePoint.CreateModernPage(ctx, in.SiteID, in.Name, in.Title, in.Purpose, in.Audience)
		if err != nil {
			return nil, err
		}
		return pageJSON(page), nil
	})
}

func (s *Server) handleCreateNewsPost(
	ctx context.Context, _ *mcp.CallToolRequest, in NewsPostInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("create_news_post", "creating news post", in.Title, func() (any, error) {
		page, err := s.ports.SharePoint.CreateNewsPost(ctx, in.SiteID, in.Title, in.Description, in.Content)
		if err != nil {
			return nil, err
		}
		return pageJSON(page), nil
	})
}

func (s *Server) handleListPages(
	ctx context.Context, _ *mcp.CallToolRequest, in SiteIDInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("list_pages", "listing pages", in.SiteID, func() (any, error) {
		pages, err := s.ports.SharePoint.ListPages(ctx, in.SiteID)
		if err != nil {
			return nil, err
		}
		return collection("pages", pages, pageJSON), nil
	})
}

func (s *Server) handleGetPageContent(
	ctx context.Context, _ *mcp.CallToolRequest, in PageInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("get_page_content", "getting page content", in.PageID, func() (any, error) {
		content, err := s.ports.SharePoint.GetPageContent(ctx, in.SiteID, in.PageID)
		if err != nil {
			return nil, err
		}
		return pageContentJSON(content), nil
	})
}
