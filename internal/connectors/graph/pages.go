package graph

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

const (
	sitePageType    = "#microsoft.graph.sitePage"
	textWebPartType = "#microsoft.graph.textWebPart"
)

// columnWidths returns the 12-unit grid widths of a section layout.
func columnWidths(layout string) []int {
	switch layout {
	case domain.SectionTwoColumns:
		return []int{6, 6}
	case domain.SectionThreeColumns:
		return []int{4, 4, 4}
	case domain.SectionOneThirdLeft:
		return []int{4, 8}
	case domain.SectionOneThirdRight:
		return []int{8, 4}
	default:
		return []int{12}
	}
}

// canvasLayout renders a page layout as a Graph canvasLayout. Columns beyond
// the layout's width are dropped; missing columns are left empty.
func canvasLayout(layout domain.PageLayout) canvasLayoutJSON {
	canvas := canvasLayoutJSON{HorizontalSections: []sectionJSON{}}
	for i, s := range layout.Sections {
		section := sectionJSON{
			ID:       strconv.Itoa(i + 1),
			Layout:   s.Layout,
			Emphasis: s.Emphasis,
		}
		if section.Layout == "" {
			section.Layout = domain.SectionOneColumn
		}
		for j, width := range columnWidths(section.Layout) {
			col := columnJSON{ID: strconv.Itoa(j + 1), Width: width, Webparts: []textWebPartJSON{}}
			if j < len(s.Columns) && s.Columns[j] != "" {
				col.Webparts = append(col.Webparts, textWebPartJSON{ODataType: textWebPartType, InnerHTML: s.Columns[j]})
			}
			section.Columns = append(section.Columns, col)
		}
		canvas.HorizontalSections = append(canvas.HorizontalSections, section)
	}
	return canvas
}

func pagesPath(siteID string) string {
	return sitePath(siteID) + "/pages"
}

// sitePagePath addresses a page cast to sitePage.
func sitePagePath(siteID, pageID string) string {
	return pagesPath(siteID) + "/" + url.PathEscape(pageID) + "/microsoft.graph.sitePage"
}

// CreatePage creates a draft site page.
func (c *Client) CreatePage(ctx context.Context, siteID string, req domain.PageRequest) (*domain.Page, error) {
	promotion := req.PromotionKind
	if promotion == "" {
		promotion = domain.PromotionPage
	}
	body := map[string]any{
		"@odata.type":   sitePageType,
		"name":          req.Name,
		"title":         req.Title,
		"pageLayout":    "article",
		"promotionKind": promotion,
		"showComments":  true,
		"canvasLayout":  canvasLayout(req.Layout),
	}
	if req.Description != "" {
		body["description"] = req.Description
	}

	var p pageJSON
	if err := c.do(ctx, request{method: http.MethodPost, path: pagesPath(siteID), json: body}, &p); err != nil {
		return nil, err
	}
	page := p.toDomain()
	page.Sections = nil
	return &page, nil
}

// PublishPage publishes a draft page.
func (c *Client) PublishPage(ctx context.Context, siteID, pageID string) error {
	return c.do(ctx, request{method: http.MethodPost, path: sitePagePath(siteID, pageID) + "/publish"}, nil)
}

// ListPages lists the site pages of a site.
func (c *Client) ListPages(ctx context.Context, siteID string) ([]domain.Page, error) {
	pages, err := listAll[pageJSON](ctx, c, pagesPath(siteID)+"/microsoft.graph.sitePage", nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Page, len(pages))
	for i := range pages {
		out[i] = pages[i].toDomain()
	}
	return out, nil
}

// GetPage fetches a page together with its text web parts.
func (c *Client) GetPage(ctx context.Context, siteID, pageID string) (*domain.Page, error) {
	r := request{
		method: http.MethodGet,
		path:   sitePagePath(siteID, pageID),
		query:  url.Values{"$expand": {"canvasLayout"}},
	}

	var p pageJSON
	if err := c.do(ctx, r, &p); err != nil {
		return nil, err
	}
	page := p.toDomain()
	return &page, nil
}
