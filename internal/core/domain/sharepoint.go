package domain

import (
	"fmt"
	"time"
)

// Site is a SharePoint site.
type Site struct {
	ID          string
	Name        string
	DisplayName string
	Description string
	WebURL      string
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

// Drive is a document library.
type Drive struct {
	ID          string
	Name        string
	Description string
	WebURL      string
	DriveType   string
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

// DriveItem is a file or folder inside a document library.
type DriveItem struct {
	ID         string
	Name       string
	WebURL     string
	Size       int64
	CreatedAt  time.Time
	ModifiedAt time.Time
	CreatedBy  string
	ModifiedBy string

	// IsFolder distinguishes folders from files.
	IsFolder bool

	// ChildCount is set for folders.
	ChildCount int

	// MIMEType is set for files.
	MIMEType string

	// ParentPath is the drive-relative path of the containing folder.
	ParentPath string
}

// ItemFilter selects which drive items a listing returns.
type ItemFilter int

// Item filters.
const (
	ItemsAll ItemFilter = iota
	ItemsFolders
	ItemsFiles
)

// Matches reports whether the item passes the filter.
func (f ItemFilter) Matches(item *DriveItem) bool {
	switch f {
	case ItemsFolders:
		return item.IsFolder
	case ItemsFiles:
		return !item.IsFolder
	default:
		return true
	}
}

// FolderNode is one folder in a recursive folder tree.
type FolderNode struct {
	ID         string
	Name       string
	Path       string
	WebURL     string
	ChildCount int
	Children   []FolderNode

	// DepthLimited is true when the folder has subfolders that were not expanded
	// because the maximum depth was reached.
	DepthLimited bool
}

// FolderTree is the result of a folder tree walk.
type FolderTree struct {
	Path     string
	MaxDepth int
	Folders  []FolderNode
}

// List is a SharePoint list or document library viewed as a list.
type List struct {
	ID          string
	Name        string
	DisplayName string
	Description string
	WebURL      string
	Template    string
	CreatedAt   time.Time
	Columns     []ColumnDefinition
}

// ListItem is an item in a SharePoint list.
type ListItem struct {
	ID         string
	WebURL     string
	Fields     map[string]any
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Page is a modern site page or news post.
type Page struct {
	ID              string
	Name            string
	Title           string
	Description     string
	WebURL          string
	PromotionKind   string
	PublishingState string
	CreatedAt       time.Time
	ModifiedAt      time.Time

	// Sections hold the page's text web parts, populated when the
	// page is fetched with its canvas layout.
	Sections []PageSection
}

// Group is the Microsoft 365 group behind a group-connected team site.
type Group struct {
	ID           string
	DisplayName  string
	MailNickname string
	Description  string
	CreatedAt    time.Time
}

// SiteRequest describes a new group-connected site.
type SiteRequest struct {
	DisplayName string
	Alias       string
	Description string
}

// ListRequest describes a list or library to create.
type ListRequest struct {
	DisplayName string
	Description string
	Template    string
	Columns     []ColumnDefinition
}

// List templates understood by Graph.
const (
	ListTemplateGeneric         = "genericList"
	ListTemplateDocumentLibrary = "documentLibrary"
)

// Page promotion kinds.
const (
	PromotionPage     = "page"
	PromotionNewsPost = "newsPost"
)

// PageRequest describes a page to create.
type PageRequest struct {
	Name          string
	Title         string
	Description   string
	PromotionKind string
	Layout        PageLayout
}

// DriveRef addresses a document library within a site.
type DriveRef struct {
	SiteID  string
	DriveID string
}

// Validate checks that both identifiers are present.
func (r DriveRef) Validate() error {
	if r.SiteID == "" {
		return fmt.Errorf("%w: site_id is required", ErrInvalidInput)
	}
	if r.DriveID == "" {
		return fmt.Errorf("%w: drive_id is required", ErrInvalidInput)
	}
	return nil
}

// PageContent is a page rendered for an agent.
type PageContent struct {
	Page *Page

	// Markdown is the page's web part HTML converted to markdown and
	// bounded like a text preview.
	Markdown  string
	Truncated bool
}
