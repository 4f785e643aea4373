package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// Me returns the display name of the signed-in principal.
func (c *Client) Me(ctx context.Context) (string, error) {
	var me struct {
		DisplayName       string `json:"displayName"`
		UserPrincipalName string `json:"userPrincipalName"`
	}
	r := request{
		method: http.MethodGet,
		path:   "/me",
		query:  url.Values{"$select": {"displayName,userPrincipalName"}},
	}
	if err := c.do(ctx, r, &me); err != nil {
		return "", err
	}
	if me.DisplayName == "" {
		return me.UserPrincipalName, nil
	}
	return me.DisplayName, nil
}

// GetSite resolves a site by host name and server-relative path.
func (c *Client) GetSite(ctx context.Context, hostname, sitePath string) (*domain.Site, error) {
	p := "/sites/" + url.PathEscape(hostname)
	if escaped := escapePath(sitePath); escaped != "" {
		p += ":/" + escaped
	}

	var site siteJSON
	if err := c.do(ctx, request{method: http.MethodGet, path: p}, &site); err != nil {
		return nil, err
	}
	return site.toDomain(), nil
}

// ListDrives lists the document libraries of a site.
func (c *Client) ListDrives(ctx context.Context, siteID string) ([]domain.Drive, error) {
	drives, err := listAll[driveJSON](ctx, c, sitePath(siteID)+"/drives", nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Drive, len(drives))
	for i := range drives {
		out[i] = drives[i].toDomain()
	}
	return out, nil
}

// SearchSite searches the default document library of a site.
func (c *Client) SearchSite(ctx context.Context, siteID, query string) ([]domain.DriveItem, error) {
	// OData string literals escape a quote by doubling it.
	q := strings.ReplaceAll(query, "'", "''")
	p := sitePath(siteID) + "/drive/root/search(q='" + url.PathEscape(q) + "')"

	items, err := listAll[driveItemJSON](ctx, c, p, nil)
	if err != nil {
		return nil, err
	}
	return driveItems(items), nil
}

// CreateGroupSite creates a Microsoft 365 group; Graph provisions its team
// site asynchronously.
func (c *Client) CreateGroupSite(ctx context.Context, req domain.SiteRequest) (*domain.Group, error) {
	body := map[string]any{
		"displayName":     req.DisplayName,
		"mailNickname":    req.Alias,
		"description":     req.Description,
		"groupTypes":      []string{"Unified"},
		"mailEnabled":     true,
		"securityEnabled": false,
		"visibility":      "Private",
	}

	var g groupJSON
	if err := c.do(ctx, request{method: http.MethodPost, path: "/groups", json: body}, &g); err != nil {
		return nil, fmt.Errorf("create group %s: %w", req.Alias, err)
	}
	return &domain.Group{
		ID:           g.ID,
		DisplayName:  g.DisplayName,
		MailNickname: g.MailNickname,
		Description:  g.Description,
		CreatedAt:    g.CreatedDateTime,
	}, nil
}
