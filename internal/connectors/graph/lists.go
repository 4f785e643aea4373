package graph

import (
	"context"
	"net/http"
	"net/url"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// columnBody renders a column definition as a Graph columnDefinition.
func columnBody(col domain.ColumnDefinition) map[string]any {
	body := map[string]any{
		"name":        col.Name,
		"displayName": col.DisplayName,
		"required":    col.Required,
	}
	if col.Description != "" {
		body["description"] = col.Description
	}

	switch col.Kind {
	case domain.ColumnMultilineText:
		body["text"] = map[string]any{"allowMultipleLines": true, "linesForEditing": 6}
	case domain.ColumnNumber:
		body["number"] = map[string]any{}
	case domain.ColumnCurrency:
		body["currency"] = map[string]any{"locale": "en-US"}
	case domain.ColumnDateTime:
		body["dateTime"] = map[string]any{"format": "dateTime"}
	case domain.ColumnDate:
		body["dateTime"] = map[string]any{"format": "dateOnly"}
	case domain.ColumnChoice:
		body["choice"] = map[string]any{"choices": col.Choices, "displayAs": "dropDownMenu"}
	case domain.ColumnBoolean:
		body["boolean"] = map[string]any{}
	case domain.ColumnPerson:
		body["personOrGroup"] = map[string]any{"allowMultipleSelection": false}
	case domain.ColumnHyperlink:
		body["hyperlinkOrPicture"] = map[string]any{"isPicture": false}
	default:
		body["text"] = map[string]any{}
	}
	return body
}

// CreateList creates a list or document library with columns.
func (c *Client) CreateList(ctx context.Context, siteID string, req domain.ListRequest) (*domain.List, error) {
	columns := make([]map[string]any, len(req.Columns))
	for i, col := range req.Columns {
		columns[i] = columnBody(col)
	}
	template := req.Template
	if template == "" {
		template = domain.ListTemplateGeneric
	}
	body := map[string]any{
		"displayName": req.DisplayName,
		"description": req.Description,
		"columns":     columns,
		"list":        map[string]any{"template": template},
	}

	var l listJSON
	if err := c.do(ctx, request{method: http.MethodPost, path: sitePath(siteID) + "/lists", json: body}, &l); err != nil {
		return nil, err
	}
	return &domain.List{
		ID:          l.ID,
		Name:        l.Name,
		DisplayName: l.DisplayName,
		Description: l.Description,
		WebURL:      l.WebURL,
		Template:    l.List.Template,
		CreatedAt:   l.CreatedDateTime,
		Columns:     req.Columns,
	}, nil
}

func listItemsPath(siteID, listID string) string {
	return sitePath(siteID) + "/lists/" + url.PathEscape(listID) + "/items"
}

// CreateListItem adds an item to a list.
func (c *Client) CreateListItem(
	ctx context.Context, siteID, listID string, fields map[string]any,
) (*domain.ListItem, error) {
	r := request{
		method: http.MethodPost,
		path:   listItemsPath(siteID, listID),
		json:   map[string]any{"fields": fields},
	}

	var item listItemJSON
	if err := c.do(ctx, r, &item); err != nil {
		return nil, err
	}
	return &domain.ListItem{
		ID:         item.ID,
		WebURL:     item.WebURL,
		Fields:     item.Fields,
		CreatedAt:  item.CreatedDateTime,
		ModifiedAt: item.LastModifiedDateTime,
	}, nil
}

// UpdateListItem patches the fields of a list item.
func (c *Client) UpdateListItem(
	ctx context.Context, siteID, listID, itemID string, fields map[string]any,
) (map[string]any, error) {
	r := request{
		method: http.MethodPatch,
		path:   listItemsPath(siteID, listID) + "/" + url.PathEscape(itemID) + "/fields",
		json:   fields,
	}

	var out map[string]any
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}
