package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
)

// Ensure Tenant implements the interface.
var _ driven.GraphClient = (*Tenant)(nil)

// DefaultHost is the host name of a tenant created without one.
const DefaultHost = "contoso.sharepoint.com"

// Tenant is an in-memory implementation of driven.GraphClient. It backs the
// sandbox server and tests. Items are addressed by ID and by drive-relative
// path the same way Graph addresses them.
type Tenant struct {
	mu     sync.RWMutex
	host   string
	user   string
	sites  map[string]*siteRecord
	groups map[string]domain.Group
	now    func() time.Time
}

type siteRecord struct {
	site   domain.Site
	path   string
	drives []*driveRecord
	lists  map[string]*listRecord
	pages  map[string]*domain.Page
	order  []string
}

type driveRecord struct {
	drive  domain.Drive
	rootID string
	items  map[string]*itemRecord
}

type itemRecord struct {
	item     domain.DriveItem
	parentID string
	content  []byte
}

type listRecord struct {
	list   domain.List
	items  map[string]*domain.ListItem
	nextID int
}

// NewTenant creates an empty tenant for host. The signed-in principal is user.
func NewTenant(host, user string) *Tenant {
	if host == "" {
		host = DefaultHost
	}
	return &Tenant{
		host:   strings.ToLower(host),
		user:   user,
		sites:  make(map[string]*siteRecord),
		groups: make(map[string]domain.Group),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Host returns the tenant's SharePoint host name.
func (t *Tenant) Host() string {
	return t.host
}

// AddSite creates a site at the server-relative sitePath with a default
// "Documents" library. An empty sitePath creates the root site.
func (t *Tenant) AddSite(sitePath, displayName string) *domain.Site {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := t.addSiteLocked(sitePath, displayName, "")
	site := rec.site
	return &site
}

func (t *Tenant) addSiteLocked(sitePath, displayName, description string) *siteRecord {
	now := t.now()
	sitePath = strings.ToLower(strings.TrimSuffix(sitePath, "/"))
	name := sitePath[strings.LastIndex(sitePath, "/")+1:]
	if name == "" {
		name = "root"
	}

	rec := &siteRecord{
		site: domain.Site{
			ID:          t.host + "," + uuid.NewString() + "," + uuid.NewString(),
			Name:        name,
			DisplayName: displayName,
			Description: description,
			WebURL:      "https://" + t.host + sitePath,
			CreatedAt:   now,
			ModifiedAt:  now,
		},
		path:  sitePath,
		lists: make(map[string]*listRecord),
		pages: make(map[string]*domain.Page),
	}
	t.sites[rec.site.ID] = rec
	t.addDriveLocked(rec, "Documents", "")
	return rec
}

// AddDrive adds a document library to a site.
func (t *Tenant) AddDrive(siteID, name string) (*domain.Drive, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, err := t.siteLocked(siteID)
	if err != nil {
		return nil, err
	}
	d := t.addDriveLocked(rec, name, "").drive
	return &d, nil
}

func (t *Tenant) addDriveLocked(rec *siteRecord, name, description string) *driveRecord {
	now := t.now()
	d := &driveRecord{
		drive: domain.Drive{
			ID:          "b!" + uuid.NewString(),
			Name:        name,
			Description: description,
			WebURL:      rec.site.WebURL + "/" + strings.ReplaceAll(name, " ", "%20"),
			DriveType:   "documentLibrary",
			CreatedAt:   now,
			ModifiedAt:  now,
		},
		items: make(map[string]*itemRecord),
	}
	root := &itemRecord{item: domain.DriveItem{
		ID: uuid.NewString(), Name: "root", WebURL: d.drive.WebURL, IsFolder: true,
		CreatedAt: now, ModifiedAt: now,
	}}
	d.rootID = root.item.ID
	d.items[root.item.ID] = root
	rec.drives = append(rec.drives, d)
	return d
}

func (t *Tenant) siteLocked(siteID string) (*siteRecord, error) {
	rec, ok := t.sites[siteID]
	if !ok {
		return nil, fmt.Errorf("site %s: %w", siteID, domain.ErrNotFound)
	}
	return rec, nil
}

func (t *Tenant) driveLocked(siteID, driveID string) (*driveRecord, error) {
	rec, err := t.siteLocked(siteID)
	if err != nil {
		return nil, err
	}
	for _, d := range rec.drives {
		if d.drive.ID == driveID {
			return d, nil
		}
	}
	return nil, fmt.Errorf("drive %s: %w", driveID, domain.ErrNotFound)
}

func (d *driveRecord) children(parentID string) []*itemRecord {
	var out []*itemRecord
	for _, it := range d.items {
		if it.parentID == parentID && it.item.ID != d.rootID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].item.Name < out[j].item.Name })
	return out
}

func (d *driveRecord) child(parentID, name string) *itemRecord {
	for _, it := range d.children(parentID) {
		if strings.EqualFold(it.item.Name, name) {
			return it
		}
	}
	return nil
}

// resolve walks a drive-relative path from the root.
func (d *driveRecord) resolve(p string) (*itemRecord, error) {
	cur := d.items[d.rootID]
	for _, seg := range splitPath(p) {
		next := d.child(cur.item.ID, seg)
		if next == nil {
			return nil, fmt.Errorf("path %q: %w", p, domain.ErrNotFound)
		}
		cur = next
	}
	return cur, nil
}

func (d *driveRecord) pathOf(it *itemRecord) string {
	var segs []string
	for cur := it; cur != nil && cur.item.ID != d.rootID; cur = d.items[cur.parentID] {
		segs = append([]string{cur.item.Name}, segs...)
	}
	return strings.Join(segs, "/")
}

func (d *driveRecord) snapshot(it *itemRecord) domain.DriveItem {
	item := it.item
	if item.IsFolder {
		item.ChildCount = len(d.children(it.item.ID))
	}
	if parent, ok := d.items[it.parentID]; ok {
		item.ParentPath = "/" + d.pathOf(parent)
	}
	return item
}

func (t *Tenant) newItemLocked(d *driveRecord, parent *itemRecord, name string, folder bool) *itemRecord {
	now := t.now()
	base := d.drive.WebURL
	if p := d.pathOf(parent); p != "" {
		base += "/" + p
	}
	it := &itemRecord{
		item: domain.DriveItem{
			ID: uuid.NewString(), Name: name, WebURL: base + "/" + name, IsFolder: folder,
			CreatedAt: now, ModifiedAt: now, CreatedBy: t.user, ModifiedBy: t.user,
		},
		parentID: parent.item.ID,
	}
	d.items[it.item.ID] = it
	return it
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// Me returns the signed-in principal.
func (t *Tenant) Me(_ context.Context) (string, error) {
	return t.user, nil
}

// GetSite resolves a site by host and server-relative path.
func (t *Tenant) GetSite(_ context.Context, hostname, sitePath string) (*domain.Site, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !strings.EqualFold(hostname, t.host) {
		return nil, fmt.Errorf("host %s: %w", hostname, domain.ErrNotFound)
	}
	want := strings.ToLower(strings.TrimSuffix(sitePath, "/"))
	for _, rec := range t.sites {
		if rec.path == want {
			site := rec.site
			return &site, nil
		}
	}
	return nil, fmt.Errorf("site %s%s: %w", hostname, sitePath, domain.ErrNotFound)
}

// ListDrives lists the document libraries of a site.
func (t *Tenant) ListDrives(_ context.Context, siteID string) ([]domain.Drive, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, err := t.siteLocked(siteID)
	if err != nil {
		return nil, err
	}
	drives := make([]domain.Drive, 0, len(rec.drives))
	for _, d := range rec.drives {
		drives = append(drives, d.drive)
	}
	return drives, nil
}

// SearchSite matches item names in the site's default library.
func (t *Tenant) SearchSite(_ context.Context, siteID, query string) ([]domain.DriveItem, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, err := t.siteLocked(siteID)
	if err != nil {
		return nil, err
	}
	if len(rec.drives) == 0 {
		return []domain.DriveItem{}, nil
	}

	d := rec.drives[0]
	q := strings.ToLower(query)
	results := []domain.DriveItem{}
	for id, it := range d.items {
		if id != d.rootID && strings.Contains(strings.ToLower(it.item.Name), q) {
			results = append(results, d.snapshot(it))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

// CreateGroupSite creates a group and its team site under /sites/<alias>.
func (t *Tenant) CreateGroupSite(_ context.Context, req domain.SiteRequest) (*domain.Group, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, g := range t.groups {
		if strings.EqualFold(g.MailNickname, req.Alias) {
			return nil, fmt.Errorf("group alias %s: %w", req.Alias, domain.ErrConflict)
		}
	}
	g := domain.Group{
		ID:           uuid.NewString(),
		DisplayName:  req.DisplayName,
		MailNickname: req.Alias,
		Description:  req.Description,
		CreatedAt:    t.now(),
	}
	t.groups[g.ID] = g
	t.addSiteLocked("/sites/"+req.Alias, req.DisplayName, req.Description)
	return &g, nil
}

// ListChildren lists the items directly inside a folder.
func (t *Tenant) ListChildren(_ context.Context, siteID, driveID, folderPath string) ([]domain.DriveItem, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, err := t.driveLocked(siteID, driveID)
	if err != nil {
		return nil, err
	}
	folder, err := d.resolve(folderPath)
	if err != nil {
		return nil, err
	}
	if !folder.item.IsFolder {
		return nil, fmt.Errorf("%q is not a folder: %w", folderPath, domain.ErrInvalidInput)
	}

	children := d.children(folder.item.ID)
	items := make([]domain.DriveItem, 0, len(children))
	for _, it := range children {
		items = append(items, d.snapshot(it))
	}
	return items, nil
}

// CreateFolder creates the last segment of folderPath inside its parent.
func (t *Tenant) CreateFolder(_ context.Context, siteID, driveID, folderPath string) (*domain.DriveItem, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, err := t.driveLocked(siteID, driveID)
	if err != nil {
		return nil, err
	}

	segs := splitPath(folderPath)
	if len(segs) == 0 {
		return nil, fmt.Errorf("folder path is empty: %w", domain.ErrInvalidInput)
	}
	parent, err := d.resolve(strings.Join(segs[:len(segs)-1], "/"))
	if err != nil {
		return nil, err
	}
	name := segs[len(segs)-1]
	if d.child(parent.item.ID, name) != nil {
		return nil, fmt.Errorf("%s: %w", folderPath, domain.ErrConflict)
	}

	item := d.snapshot(t.newItemLocked(d, parent, name, true))
	return &item, nil
}

// DeleteItem deletes a file or folder and everything below it.
func (t *Tenant) DeleteItem(_ context.Context, siteID, driveID, itemID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, err := t.driveLocked(siteID, driveID)
	if err != nil {
		return err
	}
	it, ok := d.items[itemID]
	if !ok || itemID == d.rootID {
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}

	var remove func(id string)
	remove = func(id string) {
		for _, c := range d.children(id) {
			remove(c.item.ID)
		}
		delete(d.items, id)
	}
	remove(it.item.ID)
	return nil
}

// DownloadContent returns a copy of a file's bytes.
func (t *Tenant) DownloadContent(_ context.Context, siteID, driveID, itemID string) ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, err := t.driveLocked(siteID, driveID)
	if err != nil {
		return nil, err
	}
	it, ok := d.items[itemID]
	if !ok || it.item.IsFolder {
		return nil, fmt.Errorf("file %s: %w", itemID, domain.ErrNotFound)
	}
	return append([]byte(nil), it.content...), nil
}

// UploadContent creates or replaces the file at itemPath, creating missing
// parent folders.
func (t *Tenant) UploadContent(
	_ context.Context, siteID, driveID, itemPath string, content []byte, contentType string,
) (*domain.DriveItem, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, err := t.driveLocked(siteID, driveID)
	if err != nil {
		return nil, err
	}

	segs := splitPath(itemPath)
	if len(segs) == 0 {
		return nil, fmt.Errorf("item path is empty: %w", domain.ErrInvalidInput)
	}
	parent := d.items[d.rootID]
	for _, seg := range segs[:len(segs)-1] {
		next := d.child(parent.item.ID, seg)
		if next == nil {
			next = t.newItemLocked(d, parent, seg, true)
		} else if !next.item.IsFolder {
			return nil, fmt.Errorf("%s is a file: %w", seg, domain.ErrConflict)
		}
		parent = next
	}

	name := segs[len(segs)-1]
	it := d.child(parent.item.ID, name)
	if it == nil {
		it = t.newItemLocked(d, parent, name, false)
	} else if it.item.IsFolder {
		return nil, fmt.Errorf("%s is a folder: %w", itemPath, domain.ErrConflict)
	}
	t.writeLocked(it, content, contentType)

	item := d.snapshot(it)
	return &item, nil
}

// ReplaceContent replaces the bytes of an existing file.
func (t *Tenant) ReplaceContent(
	_ context.Context, siteID, driveID, itemID string, content []byte, contentType string,
) (*domain.DriveItem, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, err := t.driveLocked(siteID, driveID)
	if err != nil {
		return nil, err
	}
	it, ok := d.items[itemID]
	if !ok || it.item.IsFolder {
		return nil, fmt.Errorf("file %s: %w", itemID, domain.ErrNotFound)
	}
	t.writeLocked(it, content, contentType)

	item := d.snapshot(it)
	return &item, nil
}

func (t *Tenant) writeLocked(it *itemRecord, content []byte, contentType string) {
	it.content = append([]byte(nil), content...)
	it.item.Size = int64(len(content))
	it.item.MIMEType = contentType
	it.item.ModifiedAt = t.now()
	it.item.ModifiedBy = t.user
}

// CreateList creates a list or document library. Libraries also appear as drives.
func (t *Tenant) CreateList(_ context.Context, siteID string, req domain.ListRequest) (*domain.List, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, err := t.siteLocked(siteID)
	if err != nil {
		return nil, err
	}
	for _, l := range rec.lists {
		if strings.EqualFold(l.list.DisplayName, req.DisplayName) {
			return nil, fmt.Errorf("list %s: %w", req.DisplayName, domain.ErrConflict)
		}
	}

	name := strings.ReplaceAll(req.DisplayName, " ", "")
	l := &listRecord{
		list: domain.List{
			ID:          uuid.NewString(),
			Name:        name,
			DisplayName: req.DisplayName,
			Description: req.Description,
			WebURL:      rec.site.WebURL + "/Lists/" + name,
			Template:    req.Template,
			CreatedAt:   t.now(),
			Columns:     append([]domain.ColumnDefinition(nil), req.Columns...),
		},
		items: make(map[string]*domain.ListItem),
	}
	if req.Template == domain.ListTemplateDocumentLibrary {
		l.list.WebURL = t.addDriveLocked(rec, req.DisplayName, req.Description).drive.WebURL
	}
	rec.lists[l.list.ID] = l

	out := l.list
	return &out, nil
}

func (t *Tenant) listLocked(siteID, listID string) (*listRecord, error) {
	rec, err := t.siteLocked(siteID)
	if err != nil {
		return nil, err
	}
	l, ok := rec.lists[listID]
	if !ok {
		return nil, fmt.Errorf("list %s: %w", listID, domain.ErrNotFound)
	}
	return l, nil
}

// CreateListItem adds an item to a list.
func (t *Tenant) CreateListItem(
	_ context.Context, siteID, listID string, fields map[string]any,
) (*domain.ListItem, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, err := t.listLocked(siteID, listID)
	if err != nil {
		return nil, err
	}

	l.nextID++
	now := t.now()
	item := &domain.ListItem{
		ID:         fmt.Sprint(l.nextID),
		WebURL:     fmt.Sprintf("%s/DispForm.aspx?ID=%d", l.list.WebURL, l.nextID),
		Fields:     copyFields(fields),
		CreatedAt:  now,
		ModifiedAt: now,
	}
	l.items[item.ID] = item

	out := *item
	out.Fields = copyFields(item.Fields)
	return &out, nil
}

// UpdateListItem merges fields into an item and returns the resulting fields.
func (t *Tenant) UpdateListItem(
	_ context.Context, siteID, listID, itemID string, fields map[string]any,
) (map[string]any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, err := t.listLocked(siteID, listID)
	if err != nil {
		return nil, err
	}
	item, ok := l.items[itemID]
	if !ok {
		return nil, fmt.Errorf("list item %s: %w", itemID, domain.ErrNotFound)
	}
	for k, v := range fields {
		item.Fields[k] = v
	}
	item.ModifiedAt = t.now()
	return copyFields(item.Fields), nil
}

func copyFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// CreatePage creates a draft page.
func (t *Tenant) CreatePage(_ context.Context, siteID string, req domain.PageRequest) (*domain.Page, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, err := t.siteLocked(siteID)
	if err != nil {
		return nil, err
	}
	for _, p := range rec.pages {
		if strings.EqualFold(p.Name, req.Name) {
			return nil, fmt.Errorf("page %s: %w", req.Name, domain.ErrConflict)
		}
	}

	now := t.now()
	page := &domain.Page{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Title:           req.Title,
		Description:     req.Description,
		WebURL:          rec.site.WebURL + "/SitePages/" + req.Name,
		PromotionKind:   req.PromotionKind,
		PublishingState: "draft",
		CreatedAt:       now,
		ModifiedAt:      now,
		Sections:        append([]domain.PageSection(nil), req.Layout.Sections...),
	}
	rec.pages[page.ID] = page
	rec.order = append(rec.order, page.ID)

	out := *page
	out.Sections = nil
	return &out, nil
}

// PublishPage marks a page published.
func (t *Tenant) PublishPage(_ context.Context, siteID, pageID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, err := t.siteLocked(siteID)
	if err != nil {
		return err
	}
	p, ok := rec.pages[pageID]
	if !ok {
		return fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
	}
	p.PublishingState = "published"
	p.ModifiedAt = t.now()
	return nil
}

// ListPages lists pages in creation order without their sections.
func (t *Tenant) ListPages(_ context.Context, siteID string) ([]domain.Page, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, err := t.siteLocked(siteID)
	if err != nil {
		return nil, err
	}
	pages := make([]domain.Page, 0, len(rec.order))
	for _, id := range rec.order {
		p := *rec.pages[id]
		p.Sections = nil
		pages = append(pages, p)
	}
	return pages, nil
}

// GetPage returns a page with its sections.
func (t *Tenant) GetPage(_ context.Context, siteID, pageID string) (*domain.Page, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, err := t.siteLocked(siteID)
	if err != nil {
		return nil, err
	}
	p, ok := rec.pages[pageID]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
	}
	out := *p
	out.Sections = append([]domain.PageSection(nil), p.Sections...)
	return &out, nil
}
