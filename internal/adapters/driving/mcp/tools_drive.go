package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// FolderInput is the input schema for tools addressing a folder by path.
type FolderInput struct {
	SiteURL    string `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID     string `json:"site_id" jsonschema:"ID of the site"`
	DriveID    string `json:"drive_id" jsonschema:"ID of the document library"`
	FolderPath string `json:"folder_path,omitempty" jsonschema:"folder path inside the library; empty means the root"`
}

func (in FolderInput) ref() domain.DriveRef {
	return domain.DriveRef{SiteID: in.SiteID, DriveID: in.DriveID}
}

// CreateFolderInput is the input schema for create_folder.
type CreateFolderInput struct {
	SiteURL    string `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID     string `json:"site_id" jsonschema:"ID of the site"`
	DriveID    string `json:"drive_id" jsonschema:"ID of the document library"`
	FolderPath string `json:"folder_path" jsonschema:"path of the folder to create; its parent must exist"`
}

// DeleteFolderInput is the input schema for delete_folder.
type DeleteFolderInput struct {
	SiteURL  string `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID   string `json:"site_id" jsonschema:"ID of the site"`
	DriveID  string `json:"drive_id" jsonschema:"ID of the document library"`
	FolderID string `json:"folder_id" jsonschema:"ID of the folder to delete"`
}

// FolderTreeInput is the input schema for get_folder_tree.
type FolderTreeInput struct {
	SiteURL    string `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID     string `json:"site_id" jsonschema:"ID of the site"`
	DriveID    string `json:"drive_id" jsonschema:"ID of the document library"`
	FolderPath string `json:"folder_path,omitempty" jsonschema:"folder to start from; empty means the root"`
	MaxDepth   int    `json:"max_depth,omitempty" jsonschema:"how many folder levels to expand (default 10)"`
}

func (s *Server) registerDriveTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_folders",
		Description: "List the folders in a document library location",
	}, s.handleListFolders)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_folder",
		Description: "Create a folder in a document library",
	}, s.handleCreateFolder)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_folder",
		Description: "Delete a folder and everything in it",
	}, s.handleDeleteFolder)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_folder_tree",
		Description: "Get the recursive folder structure of a document library",
	}, s.handleGetFolderTree)
}

func (s *Server) handleListFolders(
	ctx context.Context, _ *mcp.CallToolRequest, in FolderInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("list_folders", "listing folders", in.SiteURL, func() (any, error) {
		folders, err := s.ports.SharePoint.ListFolders(ctx, in.ref(), in.FolderPath)
		if err != nil {
			return nil, err
		}
		return collection("folders", folders, folderJSON), nil
	})
}

func (s *Server) handleCreateFolder(
	ctx context.Context, _ *mcp.CallToolRequest, in CreateFolderInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("create_folder", "creating folder", in.FolderPath, func() (any, error) {
		ref := domain.DriveRef{SiteID: in.SiteID, DriveID: in.DriveID}
		item, err := s.ports.SharePoint.CreateFolder(ctx, ref, in.FolderPath)
		if err != nil {
			return nil, err
		}
		return driveItemJSON(item), nil
	})
}

func (s *Server) handleDeleteFolder(
	ctx context.Context, _ *mcp.CallToolRequest, in DeleteFolderInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("delete_folder", "deleting folder", in.FolderID, func() (any, error) {
		ref := domain.DriveRef{SiteID: in.SiteID, DriveID: in.DriveID}
		if err := s.ports.SharePoint.DeleteFolder(ctx, ref, in.FolderID); err != nil {
			return nil, err
		}
		return deletedJSON("Folder", in.FolderID), nil
	})
}

func (s *Server) handleGetFolderTree(
	ctx context.Context, _ *mcp.CallToolRequest, in FolderTreeInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("get_folder_tree", "getting folder tree", in.SiteURL, func() (any, error) {
		ref := domain.DriveRef{SiteID: in.SiteID, DriveID: in.DriveID}
		tree, err := s.ports.SharePoint.GetFolderTree(ctx, ref, in.FolderPath, in.MaxDepth)
		if err != nil {
			return nil, err
		}
		return folderTreeJSON(tree), nil
	})
}
