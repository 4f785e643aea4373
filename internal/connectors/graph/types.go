package graph

import (
	"strings"
	"time"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// Wire types mirror the Graph JSON resources. Only the fields the service
// reports are decoded.

type identitySet struct {
	User *struct {
		DisplayName string `json:"displayName"`
	} `json:"user"`
}

func (s identitySet) name() string {
	if s.User == nil {
		return ""
	}
	return s.User.DisplayName
}

type siteJSON struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	DisplayName          string    `json:"displayName"`
	Description          string    `json:"description"`
	WebURL               string    `json:"webUrl"`
	CreatedDateTime      time.Time `json:"createdDateTime"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime"`
}

func (s siteJSON) toDomain() *domain.Site {
	return &domain.Site{
		ID:          s.ID,
		Name:        s.Name,
		DisplayName: s.DisplayName,
		Description: s.Description,
		WebURL:      s.WebURL,
		CreatedAt:   s.CreatedDateTime,
		ModifiedAt:  s.LastModifiedDateTime,
	}
}

type driveJSON struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	WebURL               string    `json:"webUrl"`
	DriveType            string    `json:"driveType"`
	CreatedDateTime      time.Time `json:"createdDateTime"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime"`
}

func (d driveJSON) toDomain() domain.Drive {
	return domain.Drive{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		WebURL:      d.WebURL,
		DriveType:   d.DriveType,
		CreatedAt:   d.CreatedDateTime,
		ModifiedAt:  d.LastModifiedDateTime,
	}
}

type driveItemJSON struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	WebURL               string      `json:"webUrl"`
	Size                 int64       `json:"size"`
	CreatedDateTime      time.Time   `json:"createdDateTime"`
	LastModifiedDateTime time.Time   `json:"lastModifiedDateTime"`
	CreatedBy            identitySet `json:"createdBy"`
	LastModifiedBy       identitySet `json:"lastModifiedBy"`
	Folder               *struct {
		ChildCount int `json:"childCount"`
	} `json:"folder"`
	File *struct {
		MimeType string `json:"mimeType"`
	} `json:"file"`
	ParentReference struct {
		Path string `json:"path"`
	} `json:"parentReference"`
}

func (i driveItemJSON) toDomain() domain.DriveItem {
	item := domain.DriveItem{
		ID:         i.ID,
		Name:       i.Name,
		WebURL:     i.WebURL,
		Size:       i.Size,
		CreatedAt:  i.CreatedDateTime,
		ModifiedAt: i.LastModifiedDateTime,
		CreatedBy:  i.CreatedBy.name(),
		ModifiedBy: i.LastModifiedBy.name(),
		ParentPath: parentPath(i.ParentReference.Path),
	}
	if i.Folder != nil {
		item.IsFolder = true
		item.ChildCount = i.Folder.ChildCount
	}
	if i.File != nil {
		item.MIMEType = i.File.MimeType
	}
	return item
}

func driveItems(in []driveItemJSON) []domain.DriveItem {
	out := make([]domain.DriveItem, len(in))
	for i := range in {
		out[i] = in[i].toDomain()
	}
	return out
}

// parentPath turns "/drives/{id}/root:/A/B" into "/A/B".
func parentPath(p string) string {
	if p == "" {
		return ""
	}
	if i := strings.Index(p, "root:"); i >= 0 {
		p = p[i+len("root:"):]
	}
	if p == "" {
		return "/"
	}
	return p
}

type groupJSON struct {
	ID              string    `json:"id"`
	DisplayName     string    `json:"displayName"`
	MailNickname    string    `json:"mailNickname"`
	Description     string    `json:"description"`
	CreatedDateTime time.Time `json:"createdDateTime"`
}

type listJSON struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DisplayName     string    `json:"displayName"`
	Description     string    `json:"description"`
	WebURL          string    `json:"webUrl"`
	CreatedDateTime time.Time `json:"createdDateTime"`
	List            struct {
		Template string `json:"template"`
	} `json:"list"`
}

type listItemJSON struct {
	ID                   string         `json:"id"`
	WebURL               string         `json:"webUrl"`
	CreatedDateTime      time.Time      `json:"createdDateTime"`
	LastModifiedDateTime time.Time      `json:"lastModifiedDateTime"`
	Fields               map[string]any `json:"fields"`
}

type textWebPartJSON struct {
	ODataType string `json:"@odata.type"`
	InnerHTML string `json:"innerHtml,omitempty"`
}

type columnJSON struct {
	ID       string            `json:"id"`
	Width    int               `json:"width"`
	Webparts []textWebPartJSON `json:"webparts"`
}

type sectionJSON struct {
	ID       string       `json:"id"`
	Layout   string       `json:"layout"`
	Emphasis string       `json:"emphasis,omitempty"`
	Columns  []columnJSON `json:"columns"`
}

type canvasLayoutJSON struct {
	HorizontalSections []sectionJSON `json:"horizontalSections"`
}

type pageJSON struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	WebURL               string    `json:"webUrl"`
	PromotionKind        string    `json:"promotionKind"`
	CreatedDateTime      time.Time `json:"createdDateTime"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime"`
	PublishingState      struct {
		Level string `json:"level"`
	} `json:"publishingState"`
	CanvasLayout *canvasLayoutJSON `json:"canvasLayout"`
}

func (p pageJSON) toDomain() domain.Page {
	page := domain.Page{
		ID:              p.ID,
		Name:            p.Name,
		Title:           p.Title,
		Description:     p.Description,
		WebURL:          p.WebURL,
		PromotionKind:   p.PromotionKind,
		PublishingState: p.PublishingState.Level,
		CreatedAt:       p.CreatedDateTime,
		ModifiedAt:      p.LastModifiedDateTime,
	}
	if p.CanvasLayout == nil {
		return page
	}
	for _, s := range p.CanvasLayout.HorizontalSections {
		section := domain.PageSection{Layout: s.Layout, Emphasis: s.Emphasis}
		for _, col := range s.Columns {
			var b strings.Builder
			for _, wp := range col.Webparts {
				if wp.InnerHTML != "" {
					b.WriteString(wp.InnerHTML)
				}
			}
			section.Columns = append(section.Columns, b.String())
		}
		page.Sections = append(page.Sections, section)
	}
	return page
}
