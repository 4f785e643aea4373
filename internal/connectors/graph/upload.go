package graph

import (
	"context"
	"fmt"
	"net/http"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// UploadContent creates or replaces the file at itemPath.
func (c *Client) UploadContent(
	ctx context.Context, siteID, driveID, itemPath string, content []byte, contentType string,
) (*domain.DriveItem, error) {
	return c.upload(ctx, pathItem(siteID, driveID, itemPath), content, contentType)
}

// ReplaceContent replaces the bytes of an existing file.
func (c *Client) ReplaceContent(
	ctx context.Context, siteID, driveID, itemID string, content []byte, contentType string,
) (*domain.DriveItem, error) {
	return c.upload(ctx, itemPath(siteID, driveID, itemID), content, contentType)
}

// upload sends content with a single PUT when it fits the simple upload
// limit, otherwise through an upload session.
func (c *Client) upload(ctx context.Context, item string, content []byte, contentType string) (*domain.DriveItem, error) {
	if int64(len(content)) > c.simpleUploadLimit {
		return c.uploadSession(ctx, item, content)
	}

	r := request{
		method:      http.MethodPut,
		path:        item + "/content",
		raw:         content,
		contentType: contentType,
	}
	if content == nil {
		r.raw = []byte{}
	}

	var out driveItemJSON
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	result := out.toDomain()
	return &result, nil
}

// uploadSession creates a session and PUTs the content in fragments.
// Graph answers intermediate fragments with 202 and the last with the item.
// The session body only accepts uploadable properties, which exclude the file
// facet; Graph derives the MIME type of the stored file from its name, so a
// declared content type has no effect here.
func (c *Client) uploadSession(ctx context.Context, item string, content []byte) (*domain.DriveItem, error) {
	var session struct {
		UploadURL string `json:"uploadUrl"`
	}
	body := map[string]any{
		"item": map[string]any{"@microsoft.graph.conflictBehavior": "replace"},
	}
	r := request{method: http.MethodPost, path: item + "/createUploadSession", json: body}
	if err := c.do(ctx, r, &session); err != nil {
		return nil, fmt.Errorf("create upload session: %w", err)
	}
	if session.UploadURL == "" {
		return nil, fmt.Errorf("create upload session: no upload url")
	}

	total := int64(len(content))
	for start := int64(0); start < total; start += c.chunkSize {
		end := min(start+c.chunkSize, total)

		fragment := request{
			method: http.MethodPut,
			path:   session.UploadURL,
			raw:    content[start:end],
			headers: map[string]string{
				"Content-Range": fmt.Sprintf("bytes %d-%d/%d", start, end-1, total),
			},
			contentType: "application/octet-stream",
			client:      c.plain,
		}

		if end < total {
			if err := c.do(ctx, fragment, nil); err != nil {
				return nil, fmt.Errorf("upload bytes %d-%d: %w", start, end-1, err)
			}
			continue
		}

		var out driveItemJSON
		if err := c.do(ctx, fragment, &out); err != nil {
			return nil, fmt.Errorf("upload bytes %d-%d: %w", start, end-1, err)
		}
		result := out.toDomain()
		return &result, nil
	}
	return nil, fmt.Errorf("%w: upload session needs content", domain.ErrInvalidInput)
}
