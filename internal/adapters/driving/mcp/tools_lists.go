package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// IntelligentListInput is the input schema for create_intelligent_list.
type IntelligentListInput struct {
	SiteURL     string `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID      string `json:"site_id" jsonschema:"ID of the site"`
	Purpose     string `json:"purpose" jsonschema:"projects, events, tasks, contacts, documents or general"`
	DisplayName string `json:"display_name" jsonschema:"display name of the new list"`
}

// ListItemInput is the input schema for create_list_item.
type ListItemInput struct {
	SiteURL string         `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID  string         `json:"site_id" jsonschema:"ID of the site"`
	ListID  string         `json:"list_id" jsonschema:"ID of the list"`
	Fields  map[string]any `json:"fields" jsonschema:"column values keyed by internal column name"`
}

// UpdateListItemInput is the input schema for update_list_item.
type UpdateListItemInput struct {
	SiteURL string         `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID  string         `json:"site_id" jsonschema:"ID of the site"`
	ListID  string         `json:"list_id" jsonschema:"ID of the list"`
	ItemID  string         `json:"item_id" jsonschema:"ID of the list item"`
	Fields  map[string]any `json:"fields" jsonschema:"column values to change"`
}

// DocumentLibraryInput is the input schema for create_advanced_document_library.
type DocumentLibraryInput struct {
	SiteURL     string `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID      string `json:"site_id" jsonschema:"ID of the site"`
	DisplayName string `json:"display_name" jsonschema:"display name of the new library"`
	DocType     string `json:"doc_type,omitempty" jsonschema:"general, contracts, policies, projects, reports or marketing"`
}

func (s *Server) registerListTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_intelligent_list",
		Description: "Create a list with columns chosen for its purpose",
	}, s.handleCreateIntelligentList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_list_item",
		Description: "Add an item to a SharePoint list",
	}, s.handleCreateListItem)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_list_item",
		Description: "Update the fields of a list item",
	}, s.handleUpdateListItem)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_advanced_document_library",
		Description: "Create a document library with metadata columns for a document type",
	}, s.handleCreateDocumentLibrary)
}

func (s *Server) handleCreateIntelligentList(
	ctx context.Context, _ *mcp.CallToolRequest, in IntelligentListInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("create_intelligent_list", "creating list", in.DisplayName, func() (any, error) {
		list, err := s.ports.SharePoint.CreateIntelligentList(ctx, in.SiteID, in.Purpose, in.DisplayName)
		if err != nil {
			return nil, err
		}
		return listJSON(list), nil
	})
}

func (s *Server) handleCreateListItem(
	ctx context.Context, _ *mcp.CallToolRequest, in ListItemInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("create_list_item", "creating list item", in.ListID, func() (any, error) {
		item, err := s.ports.SharePoint.CreateListItem(ctx, in.SiteID, in.ListID, in.Fields)
		if err != nil {
			return nil, err
		}
		return listItemJSON(item), nil
	})
}

func (s *Server) handleUpdateListItem(
	ctx context.Context, _ *mcp.CallToolRequest, in UpdateListItemInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("update_list_item", "updating list item", in.ItemID, func() (any, error) {
		return s.ports.SharePoint.UpdateListItem(ctx, in.SiteID, in.ListID, in.ItemID, in.Fields)
	})
}

func (s *Server) handleCreateDocumentLibrary(
	ctx context.Context, _ *mcp.CallToolRequest, in DocumentLibraryInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("create_advanced_document_library", "creating document library", in.DisplayName, func() (any, error) {
		lib, err := s.ports.SharePoint.CreateDocumentLibrary(ctx, in.SiteID, in.DisplayName, in.DocType)
		if err != nil {
			return nil, err
		}
		return listJSON(lib), nil
	})
}
