package driving

import (
	"context"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// SharePointService is the operation surface exposed as MCP tools.
type SharePointService interface {
	// CheckConnection verifies the token against Graph and returns the
	// signed-in principal's display name.
	CheckConnection(ctx context.Context) (string, error)

	// GetSiteInfo resolves a site from its URL.
	GetSiteInfo(ctx context.Context, siteURL string) (*domain.Site, error)

	// ListDocumentLibraries lists the document libraries of the site at siteURL.
	ListDocumentLibraries(ctx context.Context, siteURL string) ([]domain.Drive, error)

	// Search searches the default library of the site at siteURL.
	Search(ctx context.Context, siteURL, query string) ([]domain.DriveItem, error)

	// CreateSite creates a group-connected team site.
	CreateSite(ctx context.Context, req domain.SiteRequest) (*domain.Group, error)

	// ListFolders lists the folders directly inside folderPath.
	ListFolders(ctx context.Context, ref domain.DriveRef, folderPath string) ([]domain.DriveItem, error)

	// CreateFolder creates folderPath; its parent must exist.
	CreateFolder(ctx context.Context, ref domain.DriveRef, folderPath string) (*domain.DriveItem, error)

	// DeleteFolder deletes a folder and everything in it.
	DeleteFolder(ctx context.Context, ref domain.DriveRef, folderID string) error

	// GetFolderTree walks folders below folderPath up to maxDepth levels.
	GetFolderTree(ctx context.Context, ref domain.DriveRef, folderPath string, maxDepth int) (*domain.FolderTree, error)

	// ListDocuments lists the files directly inside folderPath.
	ListDocuments(ctx context.Context, ref domain.DriveRef, folderPath string) ([]domain.DriveItem, error)

	// GetDocumentContent downloads a file and runs it through the Document Processor.
	GetDocumentContent(
		ctx context.Context, ref domain.DriveRef, itemID, filename string,
	) (*domain.ProcessedContent, error)

	// UploadDocument writes a new file into folderPath. An empty contentType
	// is detected from the content.
	UploadDocument(
		ctx context.Context, ref domain.DriveRef, folderPath, fileName string, content []byte, contentType string,
	) (*domain.DriveItem, error)

	// UpdateDocument replaces the content of an existing file.
	UpdateDocument(
		ctx context.Context, ref domain.DriveRef, itemID string, content []byte, contentType string,
	) (*domain.DriveItem, error)

	// DeleteDocument deletes a file.
	DeleteDocument(ctx context.Context, ref domain.DriveRef, itemID string) error

	// CreateIntelligentList creates a list with columns chosen by purpose.
	CreateIntelligentList(ctx context.Context, siteID, purpose, displayName string) (*domain.List, error)

	// CreateListItem adds an item to a list.
	CreateListItem(ctx context.Context, siteID, listID string, fields map[string]any) (*domain.ListItem, error)

	// UpdateListItem patches an item's fields.
	UpdateListItem(
		ctx context.Context, siteID, listID, itemID string, fields map[string]any,
	) (map[string]any, error)

	// CreateDocumentLibrary creates a library with metadata columns chosen by docType.
	CreateDocumentLibrary(ctx context.Context, siteID, displayName, docType string) (*domain.List, error)

	// CreateModernPage creates and publishes a page laid out for purpose and audience.
	CreateModernPage(ctx context.Context, siteID, name, title, purpose, audience string) (*domain.Page, error)

	// CreateNewsPost creates and publishes a news post. content is markdown.
	CreateNewsPost(ctx context.Context, siteID, title, description, content string) (*domain.Page, error)

	// ListPages lists the site pages of a site.
	ListPages(ctx context.Context, siteID string) ([]domain.Page, error)

	// GetPageContent fetches a page and renders its web parts as markdown.
	GetPageContent(ctx context.Context, siteID, pageID string) (*domain.PageContent, error)

	// ProcessDocument runs local content through the Document Processor.
	ProcessDocument(raw *domain.RawDocument) *domain.ProcessedContent
}
