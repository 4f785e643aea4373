package graph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// ListChildren lists the items directly inside a folder.
func (c *Client) ListChildren(ctx context.Context, siteID, driveID, folderPath string) ([]domain.DriveItem, error) {
	items, err := listAll[driveItemJSON](ctx, c, pathItem(siteID, driveID, folderPath)+"/children", nil)
	if err != nil {
		return nil, err
	}
	return driveItems(items), nil
}

// CreateFolder creates the last segment of folderPath inside its parent.
// An existing item with the same name is a conflict.
func (c *Client) CreateFolder(ctx context.Context, siteID, driveID, folderPath string) (*domain.DriveItem, error) {
	clean := strings.Trim(folderPath, "/")
	parent, name := path.Split(clean)
	if name == "" {
		return nil, fmt.Errorf("%w: folder path is empty", domain.ErrInvalidInput)
	}

	body := map[string]any{
		"name":                              name,
		"folder":                            map[string]any{},
		"@microsoft.graph.conflictBehavior": "fail",
	}
	r := request{method: http.MethodPost, path: pathItem(siteID, driveID, parent) + "/children", json: body}

	var item driveItemJSON
	if err := c.do(ctx, r, &item); err != nil {
		return nil, err
	}
	out := item.toDomain()
	return &out, nil
}

// DeleteItem deletes a file or folder.
func (c *Client) DeleteItem(ctx context.Context, siteID, driveID, itemID string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: itemPath(siteID, driveID, itemID)}, nil)
}

// DownloadContent fetches the bytes of a file, refusing files larger than
// the configured download limit.
func (c *Client) DownloadContent(ctx context.Context, siteID, driveID, itemID string) ([]byte, error) {
	r := request{
		method:  http.MethodGet,
		path:    itemPath(siteID, driveID, itemID) + "/content",
		headers: map[string]string{"Accept": "*/*"},
	}
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.ContentLength > c.maxDownloadBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrTooLarge, resp.ContentLength, c.maxDownloadBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if int64(len(data)) > c.maxDownloadBytes {
		return nil, fmt.Errorf("%w: content exceeds limit of %d bytes", domain.ErrTooLarge, c.maxDownloadBytes)
	}
	return data, nil
}
