package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/sharepoint-mcp/internal/logger"
	"github.com/custodia-labs/sharepoint-mcp/internal/markup"
	"github.com/custodia-labs/sharepoint-mcp/internal/normalisers"
)

// Ensure SharePointService implements the interface.
var _ driving.SharePointService = (*SharePointService)(nil)

// DefaultFolderTreeDepth is used when a folder tree is requested without a depth.
const DefaultFolderTreeDepth = 10

// MaxFolderTreeDepth caps how deep a folder tree walk may go.
const MaxFolderTreeDepth = 32

const octetStream = "application/octet-stream"

// SiteAddress is a SharePoint site URL split into its Graph lookup parts.
type SiteAddress struct {
	Host string

	// Collection is "sites" or "teams". Empty for the root site.
	Collection string
	Name       string
}

// Path returns the server-relative path of the site, or "" for the root site.
func (a SiteAddress) Path() string {
	if a.Name == "" {
		return ""
	}
	return "/" + a.Collection + "/" + a.Name
}

// ParseSiteURL splits a site URL such as https://contoso.sharepoint.com/sites/hr.
// Anything other than a /sites/ or /teams/ path addresses the root site.
func ParseSiteURL(siteURL string) (SiteAddress, error) {
	rest := strings.TrimSpace(siteURL)
	for _, scheme := range []string{"https://", "http://"} {
		if len(rest) >= len(scheme) && strings.EqualFold(rest[:len(scheme)], scheme) {
			rest = rest[len(scheme):]
			break
		}
	}

	parts := strings.Split(rest, "/")
	addr := SiteAddress{Host: strings.ToLower(parts[0])}
	if addr.Host == "" {
		return SiteAddress{}, fmt.Errorf("%w: site_url %q has no host", domain.ErrInvalidInput, siteURL)
	}

	if len(parts) > 2 && parts[2] != "" {
		switch strings.ToLower(parts[1]) {
		case "sites", "teams":
			addr.Collection = strings.ToLower(parts[1])
			addr.Name = parts[2]
		}
	}
	return addr, nil
}

// SharePointService implements the SharePoint operations on top of Graph.
type SharePointService struct {
	graph      driven.GraphClient
	processor  driving.DocumentProcessor
	generator  driving.ContentGenerator
	maxPreview int
}

// NewSharePointService creates a new SharePoint service.
func NewSharePointService(
	graph driven.GraphClient,
	processor driving.DocumentProcessor,
	generator driving.ContentGenerator,
) *SharePointService {
	return &SharePointService{
		graph:      graph,
		processor:  processor,
		generator:  generator,
		maxPreview: processor.Settings().MaxTextPreviewLength,
	}
}

// CheckConnection verifies the token by fetching the signed-in principal.
func (s *SharePointService) CheckConnection(ctx context.Context) (string, error) {
	name, err := s.graph.Me(ctx)
	if err != nil {
		return "", fmt.Errorf("connection test: %w", err)
	}
	return name, nil
}

func (s *SharePointService) resolveSite(ctx context.Context, siteURL string) (*domain.Site, error) {
	addr, err := ParseSiteURL(siteURL)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolving site host=%s path=%q", addr.Host, addr.Path())

	site, err := s.graph.GetSite(ctx, addr.Host, addr.Path())
	if err != nil {
		return nil, fmt.Errorf("get site: %w", err)
	}
	return site, nil
}

// GetSiteInfo resolves a site from its URL.
func (s *SharePointService) GetSiteInfo(ctx context.Context, siteURL string) (*domain.Site, error) {
	return s.resolveSite(ctx, siteURL)
}

// ListDocumentLibraries lists the document libraries of the site at siteURL.
func (s *SharePointService) ListDocumentLibraries(ctx context.Context, siteURL string) ([]domain.Drive, error) {
	site, err := s.resolveSite(ctx, siteURL)
	if err != nil {
		return nil, err
	}
	drives, err := s.graph.ListDrives(ctx, site.ID)
	if err != nil {
		return nil, fmt.Errorf("list drives: %w", err)
	}
	return drives, nil
}

// Search searches the default library of the site at siteURL.
func (s *SharePointService) Search(ctx context.Context, siteURL, query string) ([]domain.DriveItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	site, err := s.resolveSite(ctx, siteURL)
	if err != nil {
		return nil, err
	}
	items, err := s.graph.SearchSite(ctx, site.ID, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return items, nil
}

// CreateSite creates a group-connected team site.
func (s *SharePointService) CreateSite(ctx context.Context, req domain.SiteRequest) (*domain.Group, error) {
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Alias = strings.TrimSpace(req.Alias)
	if req.DisplayName == "" {
		return nil, fmt.Errorf("%w: display_name is required", domain.ErrInvalidInput)
	}
	if req.Alias == "" {
		return nil, fmt.Errorf("%w: alias is required", domain.ErrInvalidInput)
	}
	if strings.IndexFunc(req.Alias, unicode.IsSpace) >= 0 {
		return nil, fmt.Errorf("%w: alias must not contain whitespace", domain.ErrInvalidInput)
	}

	group, err := s.graph.CreateGroupSite(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	logger.Info("created site %s (%s)", group.DisplayName, group.ID)
	return group, nil
}

func (s *SharePointService) listItems(
	ctx context.Context, ref domain.DriveRef, folderPath string, filter domain.ItemFilter,
) ([]domain.DriveItem, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	children, err := s.graph.ListChildren(ctx, ref.SiteID, ref.DriveID, cleanPath(folderPath))
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}

	items := make([]domain.DriveItem, 0, len(children))
	for i := range children {
		if filter.Matches(&children[i]) {
			items = append(items, children[i])
		}
	}
	return items, nil
}

// ListFolders lists the folders directly inside folderPath.
func (s *SharePointService) ListFolders(
	ctx context.Context, ref domain.DriveRef, folderPath string,
) ([]domain.DriveItem, error) {
	return s.listItems(ctx, ref, folderPath, domain.ItemsFolders)
}

// ListDocuments lists the files directly inside folderPath.
func (s *SharePointService) ListDocuments(
	ctx context.Context, ref domain.DriveRef, folderPath string,
) ([]domain.DriveItem, error) {
	return s.listItems(ctx, ref, folderPath, domain.ItemsFiles)
}

// CreateFolder creates folderPath; its parent must exist.
func (s *SharePointService) CreateFolder(
	ctx context.Context, ref domain.DriveRef, folderPath string,
) (*domain.DriveItem, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	p := cleanPath(folderPath)
	if p == "" {
		return nil, fmt.Errorf("%w: folder_path is required", domain.ErrInvalidInput)
	}
	item, err := s.graph.CreateFolder(ctx, ref.SiteID, ref.DriveID, p)
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return item, nil
}

// DeleteFolder deletes a folder and everything in it.
func (s *SharePointService) DeleteFolder(ctx context.Context, ref domain.DriveRef, folderID string) error {
	return s.deleteItem(ctx, ref, folderID, "folder_id")
}

// DeleteDocument deletes a file.
func (s *SharePointService) DeleteDocument(ctx context.Context, ref domain.DriveRef, itemID string) error {
	return s.deleteItem(ctx, ref, itemID, "item_id")
}

func (s *SharePointService) deleteItem(ctx context.Context, ref domain.DriveRef, id, field string) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
	}
	if err := s.graph.DeleteItem(ctx, ref.SiteID, ref.DriveID, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// GetFolderTree walks folders below folderPath. Top-level folders are at
// depth 1; folders at maxDepth are not expanded and are marked DepthLimited
// when they have children.
func (s *SharePointService) GetFolderTree(
	ctx context.Context, ref domain.DriveRef, folderPath string, maxDepth int,
) (*domain.FolderTree, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if maxDepth <= 0 {
		maxDepth = DefaultFolderTreeDepth
	}
	if maxDepth > MaxFolderTreeDepth {
		maxDepth = MaxFolderTreeDepth
	}

	root := cleanPath(folderPath)
	folders, err := s.walkFolders(ctx, ref, root, 1, maxDepth)
	if err != nil {
		return nil, err
	}

	display := root
	if display == "" {
		display = "/"
	}
	return &domain.FolderTree{Path: display, MaxDepth: maxDepth, Folders: folders}, nil
}

func (s *SharePointService) walkFolders(
	ctx context.Context, ref domain.DriveRef, folderPath string, depth, maxDepth int,
) ([]domain.FolderNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	children, err := s.graph.ListChildren(ctx, ref.SiteID, ref.DriveID, folderPath)
	if err != nil {
		return nil, fmt.Errorf("list children of %q: %w", folderPath, err)
	}

	nodes := make([]domain.FolderNode, 0, len(children))
	for _, child := range children {
		if !child.IsFolder {
			continue
		}
		node := domain.FolderNode{
			ID:         child.ID,
			Name:       child.Name,
			Path:       joinPath(folderPath, child.Name),
			WebURL:     child.WebURL,
			ChildCount: child.ChildCount,
			Children:   []domain.FolderNode{},
		}
		if child.ChildCount > 0 {
			if depth >= maxDepth {
				node.DepthLimited = true
			} else {
				sub, err := s.walkFolders(ctx, ref, node.Path, depth+1, maxDepth)
				if err != nil {
					return nil, err
				}
				node.Children = sub
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// GetDocumentContent downloads a file and runs it through the Document Processor.
func (s *SharePointService) GetDocumentContent(
	ctx context.Context, ref domain.DriveRef, itemID, filename string,
) (*domain.ProcessedContent, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if itemID == "" {
		return nil, fmt.Errorf("%w: item_id is required", domain.ErrInvalidInput)
	}

	content, err := s.graph.DownloadContent(ctx, ref.SiteID, ref.DriveID, itemID)
	if err != nil {
		return nil, fmt.Errorf("download content: %w", err)
	}
	return s.processor.Process(&domain.RawDocument{Filename: filename, Content: content}), nil
}

// UploadDocument writes a new file into folderPath.
func (s *SharePointService) UploadDocument(
	ctx context.Context, ref domain.DriveRef, folderPath, fileName string, content []byte, contentType string,
) (*domain.DriveItem, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, fmt.Errorf("%w: file_name is required", domain.ErrInvalidInput)
	}
	if strings.ContainsAny(fileName, `/\`) {
		return nil, fmt.Errorf("%w: file_name must not contain path separators", domain.ErrInvalidInput)
	}

	item, err := s.graph.UploadContent(
		ctx, ref.SiteID, ref.DriveID, joinPath(cleanPath(folderPath), fileName),
		content, DetectContentType(content, contentType),
	)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	logger.Info("uploaded %s (%d bytes)", item.Name, len(content))
	return item, nil
}

// UpdateDocument replaces the content of an existing file.
func (s *SharePointService) UpdateDocument(
	ctx context.Context, ref domain.DriveRef, itemID string, content []byte, contentType string,
) (*domain.DriveItem, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if itemID == "" {
		return nil, fmt.Errorf("%w: item_id is required", domain.ErrInvalidInput)
	}

	item, err := s.graph.ReplaceContent(
		ctx, ref.SiteID, ref.DriveID, itemID, content, DetectContentType(content, contentType),
	)
	if err != nil {
		return nil, fmt.Errorf("replace content: %w", err)
	}
	return item, nil
}

// DetectContentType returns declared unless it is empty or the generic
// octet-stream type, in which case the type is sniffed from content.
func DetectContentType(content []byte, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && !strings.EqualFold(declared, octetStream) {
		return declared
	}
	if len(content) == 0 {
		return octetStream
	}
	return mimetype.Detect(content).String()
}

func requireSite(siteID string) error {
	if siteID == "" {
		return fmt.Errorf("%w: site_id is required", domain.ErrInvalidInput)
	}
	return nil
}

// CreateIntelligentList creates a list with columns chosen by purpose.
func (s *SharePointService) CreateIntelligentList(
	ctx context.Context, siteID, purpose, displayName string,
) (*domain.List, error) {
	if err := requireSite(siteID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, fmt.Errorf("%w: display_name is required", domain.ErrInvalidInput)
	}

	p := s.generator.ResolvePurpose(purpose)
	req := domain.ListRequest{
		DisplayName: displayName,
		Description: fmt.Sprintf("%s list created with a %s template", displayName, p),
		Template:    domain.ListTemplateGeneric,
		Columns:     s.generator.ListColumns(p),
	}
	return s.createList(ctx, siteID, req)
}

// CreateDocumentLibrary creates a library with metadata columns chosen by docType.
func (s *SharePointService) CreateDocumentLibrary(
	ctx context.Context, siteID, displayName, docType string,
) (*domain.List, error) {
	if err := requireSite(siteID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, fmt.Errorf("%w: display_name is required", domain.ErrInvalidInput)
	}

	if docType == "" {
		docType = LibraryGeneral
	}
	req := domain.ListRequest{
		DisplayName: displayName,
		Description: fmt.Sprintf("%s library for %s documents", displayName, docType),
		Template:    domain.ListTemplateDocumentLibrary,
		Columns:     s.generator.LibraryColumns(docType),
	}
	return s.createList(ctx, siteID, req)
}

func (s *SharePointService) createList(
	ctx context.Context, siteID string, req domain.ListRequest,
) (*domain.List, error) {
	list, err := s.graph.CreateList(ctx, siteID, req)
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	if len(list.Columns) == 0 {
		list.Columns = req.Columns
	}
	logger.Info("created %s %s with %d columns", req.Template, list.DisplayName, len(list.Columns))
	return list, nil
}

// CreateListItem adds an item to a list.
func (s *SharePointService) CreateListItem(
	ctx context.Context, siteID, listID string, fields map[string]any,
) (*domain.ListItem, error) {
	if err := requireListItem(siteID, listID, fields); err != nil {
		return nil, err
	}
	item, err := s.graph.CreateListItem(ctx, siteID, listID, fields)
	if err != nil {
		return nil, fmt.Errorf("create list item: %w", err)
	}
	return item, nil
}

// UpdateListItem patches an item's fields.
func (s *SharePointService) UpdateListItem(
	ctx context.Context, siteID, listID, itemID string, fields map[string]any,
) (map[string]any, error) {
	if err := requireListItem(siteID, listID, fields); err != nil {
		return nil, err
	}
	if itemID == "" {
		return nil, fmt.Errorf("%w: item_id is required", domain.ErrInvalidInput)
	}
	updated, err := s.graph.UpdateListItem(ctx, siteID, listID, itemID, fields)
	if err != nil {
		return nil, fmt.Errorf("update list item: %w", err)
	}
	return updated, nil
}

func requireListItem(siteID, listID string, fields map[string]any) error {
	if err := requireSite(siteID); err != nil {
		return err
	}
	if listID == "" {
		return fmt.Errorf("%w: list_id is required", domain.ErrInvalidInput)
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: fields must not be empty", domain.ErrInvalidInput)
	}
	return nil
}

// CreateModernPage creates and publishes a page laid out for purpose and audience.
func (s *SharePointService) CreateModernPage(
	ctx context.Context, siteID, name, title, purpose, audience string,
) (*domain.Page, error) {
	if err := requireSite(siteID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	p := s.generator.ResolvePurpose(purpose)
	if strings.TrimSpace(title) == "" {
		title = s.generator.PageTitle(p, name)
	}

	req := domain.PageRequest{
		Name:          pageFileName(name),
		Title:         title,
		PromotionKind: domain.PromotionPage,
		Layout:        s.generator.PageLayout(p, s.generator.ResolveAudience(audience), title),
	}
	return s.createAndPublish(ctx, siteID, req)
}

// CreateNewsPost creates and publishes a news post. content is markdown.
func (s *SharePointService) CreateNewsPost(
	ctx context.Context, siteID, title, description, content string,
) (*domain.Page, error) {
	if err := requireSite(siteID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	body, err := markup.MarkdownToHTML(content)
	if err != nil {
		return nil, err
	}

	req := domain.PageRequest{
		Name:          pageFileName(title),
		Title:         title,
		Description:   description,
		PromotionKind: domain.PromotionNewsPost,
		Layout:        s.generator.NewsLayout(title, description, body),
	}
	return s.createAndPublish(ctx, siteID, req)
}

func (s *SharePointService) createAndPublish(
	ctx context.Context, siteID string, req domain.PageRequest,
) (*domain.Page, error) {
	page, err := s.graph.CreatePage(ctx, siteID, req)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	if err := s.graph.PublishPage(ctx, siteID, page.ID); err != nil {
		return nil, fmt.Errorf("publish page %s: %w", page.ID, err)
	}
	page.PublishingState = "published"
	logger.Info("published %s %s", req.PromotionKind, page.Name)
	return page, nil
}

// ListPages lists the site pages of a site.
func (s *SharePointService) ListPages(ctx context.Context, siteID string) ([]domain.Page, error) {
	if err := requireSite(siteID); err != nil {
		return nil, err
	}
	pages, err := s.graph.ListPages(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// GetPageContent fetches a page and renders its web parts as bounded markdown.
func (s *SharePointService) GetPageContent(
	ctx context.Context, siteID, pageID string,
) (*domain.PageContent, error) {
	if err := requireSite(siteID); err != nil {
		return nil, err
	}
	if pageID == "" {
		return nil, fmt.Errorf("%w: page_id is required", domain.ErrInvalidInput)
	}

	page, err := s.graph.GetPage(ctx, siteID, pageID)
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}

	var parts []string
	for _, section := range page.Sections {
		for _, col := range section.Columns {
			if strings.TrimSpace(col) != "" {
				parts = append(parts, col)
			}
		}
	}

	md, err := markup.HTMLToMarkdown(strings.Join(parts, "\n"))
	if err != nil {
		return nil, err
	}
	md, truncated := normalisers.Truncate(md, s.maxPreview)
	return &domain.PageContent{Page: page, Markdown: md, Truncated: truncated}, nil
}

// ProcessDocument runs local content through the Document Processor.
func (s *SharePointService) ProcessDocument(raw *domain.RawDocument) *domain.ProcessedContent {
	return s.processor.Process(raw)
}

// cleanPath trims slashes and whitespace from a drive-relative path.
func cleanPath(p string) string {
	return strings.Trim(strings.TrimSpace(p), "/")
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// pageFileName turns a page name or title into a site page file name.
func pageFileName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(strings.ToLower(name), ".aspx") {
		name = name[:len(name)-len(".aspx")]
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "page"
	}
	return slug + ".aspx"
}
