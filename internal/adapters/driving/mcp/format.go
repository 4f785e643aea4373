package mcp

import (
	"time"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// unknown stands in for values Graph did not return.
const unknown = "Unknown"

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return unknown
	}
	return t.UTC().Format(time.RFC3339)
}

// siteInfo is the get_site_info payload. webURL falls back to the URL the
// caller asked for.
func siteInfo(site *domain.Site, siteURL string) map[string]any {
	description := site.Description
	if description == "" {
		description = "No description"
	}
	webURL := site.WebURL
	if webURL == "" {
		webURL = siteURL
	}
	return map[string]any{
		"name":          orUnknown(site.DisplayName),
		"description":   description,
		"created":       formatTime(site.CreatedAt),
		"last_modified": formatTime(site.ModifiedAt),
		"web_url":       webURL,
		"id":            orUnknown(site.ID),
	}
}

func libraryJSON(d *domain.Drive) map[string]any {
	return map[string]any{
		"name":        orUnknown(d.Name),
		"id":          orUnknown(d.ID),
		"webUrl":      d.WebURL,
		"description": d.Description,
		"created":     formatTime(d.CreatedAt),
		"modified":    formatTime(d.ModifiedAt),
	}
}

func itemType(item *domain.DriveItem) string {
	if item.IsFolder {
		return "folder"
	}
	return "file"
}

func searchResultJSON(item *domain.DriveItem) map[string]any {
	return map[string]any{
		"name":     orUnknown(item.Name),
		"id":       orUnknown(item.ID),
		"webUrl":   item.WebURL,
		"size":     item.Size,
		"modified": formatTime(item.ModifiedAt),
		"type":     itemType(item),
	}
}

func folderJSON(item *domain.DriveItem) map[string]any {
	return map[string]any{
		"name":       orUnknown(item.Name),
		"id":         orUnknown(item.ID),
		"webUrl":     item.WebURL,
		"created":    formatTime(item.CreatedAt),
		"modified":   formatTime(item.ModifiedAt),
		"size":       item.Size,
		"childCount": item.ChildCount,
	}
}

func documentJSON(item *domain.DriveItem) map[string]any {
	return map[string]any{
		"name":       orUnknown(item.Name),
		"id":         orUnknown(item.ID),
		"webUrl":     item.WebURL,
		"created":    formatTime(item.CreatedAt),
		"modified":   formatTime(item.ModifiedAt),
		"size":       item.Size,
		"mimeType":   orUnknown(item.MIMEType),
		"createdBy":  orUnknown(item.CreatedBy),
		"modifiedBy": orUnknown(item.ModifiedBy),
	}
}

// driveItemJSON describes a single created or written item.
func driveItemJSON(item *domain.DriveItem) map[string]any {
	out := map[string]any{
		"name":       item.Name,
		"id":         item.ID,
		"webUrl":     item.WebURL,
		"size":       item.Size,
		"type":       itemType(item),
		"created":    formatTime(item.CreatedAt),
		"modified":   formatTime(item.ModifiedAt),
		"parentPath": item.ParentPath,
	}
	if item.IsFolder {
		out["childCount"] = item.ChildCount
	} else {
		out["mimeType"] = item.MIMEType
	}
	return out
}

func folderNodesJSON(nodes []domain.FolderNode) []map[string]any {
	out := make([]map[string]any, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		node := map[string]any{
			"name":       n.Name,
			"id":         n.ID,
			"path":       n.Path,
			"webUrl":     n.WebURL,
			"childCount": n.ChildCount,
			"children":   folderNodesJSON(n.Children),
		}
		if n.DepthLimited {
			node["depthLimited"] = true
		}
		out[i] = node
	}
	return out
}

func folderTreeJSON(tree *domain.FolderTree) map[string]any {
	return map[string]any{
		"path":      tree.Path,
		"folders":   folderNodesJSON(tree.Folders),
		"max_depth": tree.MaxDepth,
	}
}

func groupJSON(g *domain.Group) map[string]any {
	return map[string]any{
		"id":           g.ID,
		"displayName":  g.DisplayName,
		"mailNickname": g.MailNickname,
		"description":  g.Description,
		"created":      formatTime(g.CreatedAt),
	}
}

func columnsJSON(cols []domain.ColumnDefinition) []map[string]any {
	out := make([]map[string]any, len(cols))
	for i, c := range cols {
		col := map[string]any{
			"name":        c.Name,
			"displayName": c.DisplayName,
			"type":        string(c.Kind),
			"required":    c.Required,
		}
		if c.Description != "" {
			col["description"] = c.Description
		}
		if len(c.Choices) > 0 {
			col["choices"] = c.Choices
		}
		out[i] = col
	}
	return out
}

func listJSON(l *domain.List) map[string]any {
	return map[string]any{
		"id":          l.ID,
		"name":        l.Name,
		"displayName": l.DisplayName,
		"description": l.Description,
		"webUrl":      l.WebURL,
		"template":    l.Template,
		"created":     formatTime(l.CreatedAt),
		"columns":     columnsJSON(l.Columns),
	}
}

func listItemJSON(item *domain.ListItem) map[string]any {
	fields := item.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	return map[string]any{
		"id":       item.ID,
		"webUrl":   item.WebURL,
		"fields":   fields,
		"created":  formatTime(item.CreatedAt),
		"modified": formatTime(item.ModifiedAt),
	}
}

func pageJSON(p *domain.Page) map[string]any {
	return map[string]any{
		"id":              p.ID,
		"name":            p.Name,
		"title":           p.Title,
		"description":     p.Description,
		"webUrl":          p.WebURL,
		"promotionKind":   p.PromotionKind,
		"publishingState": orUnknown(p.PublishingState),
		"created":         formatTime(p.CreatedAt),
		"modified":        formatTime(p.ModifiedAt),
	}
}

func pageContentJSON(c *domain.PageContent) map[string]any {
	out := pageJSON(c.Page)
	out["markdown"] = c.Markdown
	out["truncated"] = c.Truncated
	return out
}

func deletedJSON(kind, id string) map[string]any {
	return map[string]any{
		"success": true,
		"message": kind + " " + id + " deleted",
	}
}

// collection builds {key: items, "count": n}.
func collection[T any](key string, items []T, format func(*T) map[string]any) map[string]any {
	out := make([]map[string]any, len(items))
	for i := range items {
		out[i] = format(&items[i])
	}
	return map[string]any{key: out, "count": len(out)}
}
