package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// Content encodings accepted for file_content.
const (
	encodingText   = "text"
	encodingBase64 = "base64"
)

// DocumentInput is the input schema for tools addressing a file by ID.
type DocumentInput struct {
	SiteURL string `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID  string `json:"site_id" jsonschema:"ID of the site"`
	DriveID string `json:"drive_id" jsonschema:"ID of the document library"`
	ItemID  string `json:"item_id" jsonschema:"ID of the file"`
}

// DocumentContentInput is the input schema for get_document_content.
type DocumentContentInput struct {
	SiteURL  string `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID   string `json:"site_id" jsonschema:"ID of the site"`
	DriveID  string `json:"drive_id" jsonschema:"ID of the document library"`
	ItemID   string `json:"item_id" jsonschema:"ID of the file"`
	Filename string `json:"filename" jsonschema:"file name; its extension selects the parser"`
}

// UploadDocumentInput is the input schema for upload_document.
type UploadDocumentInput struct {
	SiteURL         string `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID          string `json:"site_id" jsonschema:"ID of the site"`
	DriveID         string `json:"drive_id" jsonschema:"ID of the document library"`
	FolderPath      string `json:"folder_path,omitempty" jsonschema:"folder to upload into; empty means the root"`
	FileName        string `json:"file_name" jsonschema:"name of the new file"`
	FileContent     string `json:"file_content" jsonschema:"file content, encoded as content_encoding says"`
	ContentEncoding string `json:"content_encoding,omitempty" jsonschema:"text (default) or base64"`
	ContentType     string `json:"content_type,omitempty" jsonschema:"MIME type; detected from the content when empty"`
}

// UpdateDocumentInput is the input schema for update_document.
type UpdateDocumentInput struct {
	SiteURL         string `json:"site_url,omitempty" jsonschema:"URL of the SharePoint site, for reference"`
	SiteID          string `json:"site_id" jsonschema:"ID of the site"`
	DriveID         string `json:"drive_id" jsonschema:"ID of the document library"`
	ItemID          string `json:"item_id" jsonschema:"ID of the file to replace"`
	FileContent     string `json:"file_content" jsonschema:"new file content, encoded as content_encoding says"`
	ContentEncoding string `json:"content_encoding,omitempty" jsonschema:"text (default) or base64"`
	ContentType     string `json:"content_type,omitempty" jsonschema:"MIME type; detected from the content when empty"`
}

// decodeContent turns file_content into bytes.
func decodeContent(content, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", encodingText:
		return []byte(content), nil
	case encodingBase64:
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(content))
		if err != nil {
			return nil, fmt.Errorf("%w: file_content is not valid base64: %v", domain.ErrInvalidInput, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: content_encoding must be %q or %q", domain.ErrInvalidInput, encodingText, encodingBase64)
	}
}

func (s *Server) registerDocumentTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the files in a document library location",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "get_document_content",
		Description: "Download a file and return a bounded preview: text for txt, md, html, docx and pdf; " +
			"headers and rows for csv and Excel",
	}, s.handleGetDocumentContent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload_document",
		Description: "Upload a new file to a document library",
	}, s.handleUploadDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_document",
		Description: "Replace the content of an existing file",
	}, s.handleUpdateDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a file from a document library",
	}, s.handleDeleteDocument)
}

func (s *Server) handleListDocuments(
	ctx context.Context, _ *mcp.CallToolRequest, in FolderInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("list_documents", "listing documents", in.SiteURL, func() (any, error) {
		docs, err := s.ports.SharePoint.ListDocuments(ctx, in.ref(), in.FolderPath)
		if err != nil {
			return nil, err
		}
		return collection("documents", docs, documentJSON), nil
	})
}

func (s *Server) handleGetDocumentContent(
	ctx context.Context, _ *mcp.CallToolRequest, in DocumentContentInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("get_document_content", "getting document content", in.Filename, func() (any, error) {
		ref := domain.DriveRef{SiteID: in.SiteID, DriveID: in.DriveID}
		return s.ports.SharePoint.GetDocumentContent(ctx, ref, in.ItemID, in.Filename)
	})
}

func (s *Server) handleUploadDocument(
	ctx context.Context, _ *mcp.CallToolRequest, in UploadDocumentInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("upload_document", "uploading document", in.FileName, func() (any, error) {
		content, err := decodeContent(in.FileContent, in.ContentEncoding)
		if err != nil {
			return nil, err
		}
		ref := domain.DriveRef{SiteID: in.SiteID, DriveID: in.DriveID}
		item, err := s.ports.SharePoint.UploadDocument(ctx, ref, in.FolderPath, in.FileName, content, in.ContentType)
		if err != nil {
			return nil, err
		}
		return driveItemJSON(item), nil
	})
}

func (s *Server) handleUpdateDocument(
	ctx context.Context, _ *mcp.CallToolRequest, in UpdateDocumentInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("update_document", "updating document", in.ItemID, func() (any, error) {
		content, err := decodeContent(in.FileContent, in.ContentEncoding)
		if err != nil {
			return nil, err
		}
		ref := domain.DriveRef{SiteID: in.SiteID, DriveID: in.DriveID}
		item, err := s.ports.SharePoint.UpdateDocument(ctx, ref, in.ItemID, content, in.ContentType)
		if err != nil {
			return nil, err
		}
		return driveItemJSON(item), nil
	})
}

func (s *Server) handleDeleteDocument(
	ctx context.Context, _ *mcp.CallToolRequest, in DocumentInput,
) (*mcp.CallToolResult, any, error) {
	return s.call("delete_document", "deleting document", in.ItemID, func() (any, error) {
		ref := domain.DriveRef{SiteID: in.SiteID, DriveID: in.DriveID}
		if err := s.ports.SharePoint.DeleteDocument(ctx, ref, in.ItemID); err != nil {
			return nil, err
		}
		return deletedJSON("Document", in.ItemID), nil
	})
}
