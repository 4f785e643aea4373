package driven

import (
	"context"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// GraphClient is the subset of Microsoft Graph the SharePoint service needs.
// All paths are drive-relative; an empty folder path means the drive root.
type GraphClient interface {
	// Me returns the display name of the signed-in principal.
	// Used as a connection test.
	Me(ctx context.Context) (string, error)

	// GetSite resolves a site by host name and server-relative path.
	// An empty sitePath resolves the root site of the host.
	GetSite(ctx context.Context, hostname, sitePath string) (*domain.Site, error)

	// ListDrives lists the document libraries of a site.
	ListDrives(ctx context.Context, siteID string) ([]domain.Drive, error)

	// SearchSite searches the default document library of a site.
	SearchSite(ctx context.Context, siteID, query string) ([]domain.DriveItem, error)

	// CreateGroupSite creates a Microsoft 365 group, which provisions a team site.
	CreateGroupSite(ctx context.Context, req domain.SiteRequest) (*domain.Group, error)

	// ListChildren lists the items directly inside a folder.
	ListChildren(ctx context.Context, siteID, driveID, folderPath string) ([]domain.DriveItem, error)

	// CreateFolder creates the last segment of folderPath inside its parent.
	CreateFolder(ctx context.Context, siteID, driveID, folderPath string) (*domain.DriveItem, error)

	// DeleteItem deletes a file or folder.
	DeleteItem(ctx context.Context, siteID, driveID, itemID string) error

	// DownloadContent fetches the bytes of a file.
	DownloadContent(ctx context.Context, siteID, driveID, itemID string) ([]byte, error)

	// UploadContent creates or replaces the file at itemPath.
	UploadContent(
		ctx context.Context, siteID, driveID, itemPath string, content []byte, contentType string,
	) (*domain.DriveItem, error)

	// ReplaceContent replaces the bytes of an existing file.
	ReplaceContent(
		ctx context.Context, siteID, driveID, itemID string, content []byte, contentType string,
	) (*domain.DriveItem, error)

	// CreateList creates a list or document library with columns.
	CreateList(ctx context.Context, siteID string, req domain.ListRequest) (*domain.List, error)

	// CreateListItem adds an item to a list.
	CreateListItem(ctx context.Context, siteID, listID string, fields map[string]any) (*domain.ListItem, error)

	// UpdateListItem patches the fields of a list item and returns the resulting fields.
	UpdateListItem(ctx context.Context, siteID, listID, itemID string, fields map[string]any) (map[string]any, error)

	// CreatePage creates a draft site page.
	CreatePage(ctx context.Context, siteID string, req domain.PageRequest) (*domain.Page, error)

	// PublishPage publishes a draft page.
	PublishPage(ctx context.Context, siteID, pageID string) error

	// ListPages lists the site pages of a site.
	ListPages(ctx context.Context, siteID string) ([]domain.Page, error)

	// GetPage fetches a page together with its text web parts.
	GetPage(ctx context.Context, siteID, pageID string) (*domain.Page, error)
}
