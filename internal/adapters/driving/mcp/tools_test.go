package mcp

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/services"
)

func TestTools_Sites(t *testing.T) {
	f := newFixture(t)

	t.Run("get_site_info", func(t *testing.T) {
		out := f.callJSON(t, "get_site_info", map[string]any{"site_url": testSiteURL})

		assert.Equal(t, "Human Resources", out["name"])
		assert.Equal(t, f.site.ID, out["id"])
		assert.Equal(t, "No description", out["description"])
		assert.NotEqual(t, unknown, out["created"])
	})

	t.Run("get_site_info unknown site", func(t *testing.T) {
		text, isError := f.callText(t, "get_site_info", map[string]any{"site_url": "https://contoso.sharepoint.com/sites/nope"})

		assert.True(t, isError)
		assert.Contains(t, text, "Error accessing SharePoint:")
	})

	t.Run("list_document_libraries", func(t *testing.T) {
		out := f.callJSON(t, "list_document_libraries", map[string]any{"site_url": testSiteURL})

		assert.Equal(t, float64(1), out["count"])
		libs := out["libraries"].([]any)
		assert.Equal(t, "Documents", libs[0].(map[string]any)["name"])
	})

	t.Run("search_sharepoint", func(t *testing.T) {
		_, err := f.tenant.UploadContent(context.Background(), f.site.ID, f.driveID, "Reports/q1-report.txt", []byte("q1"), "text/plain")
		require.NoError(t, err)

		out := f.callJSON(t, "search_sharepoint", map[string]any{"site_url": testSiteURL, "query": "q1"})

		assert.Equal(t, "q1", out["query"])
		assert.Equal(t, float64(1), out["count"])
		result := out["results"].([]any)[0].(map[string]any)
		assert.Equal(t, "q1-report.txt", result["name"])
		assert.Equal(t, "file", result["type"])
	})

	t.Run("create_sharepoint_site", func(t *testing.T) {
		out := f.callJSON(t, "create_sharepoint_site", map[string]any{"display_name": "Finance", "alias": "finance"})

		assert.Equal(t, "finance", out["mailNickname"])
		assert.Equal(t, "Finance", out["displayName"])
	})

	t.Run("create_sharepoint_site invalid alias", func(t *testing.T) {
		text, isError := f.callText(t, "create_sharepoint_site", map[string]any{"display_name": "Finance", "alias": "a b"})

		assert.True(t, isError)
		assert.Contains(t, text, "Error creating SharePoint site:")
	})
}

func TestTools_Folders(t *testing.T) {
	f := newFixture(t)

	created := f.callJSON(t, "create_folder", f.drive(map[string]any{"folder_path": "Policies"}))
	assert.Equal(t, "Policies", created["name"])
	assert.Equal(t, "folder", created["type"])

	f.callJSON(t, "create_folder", f.drive(map[string]any{"folder_path": "Policies/2024"}))

	t.Run("list_folders", func(t *testing.T) {
		out := f.callJSON(t, "list_folders", f.drive(nil))

		assert.Equal(t, float64(1), out["count"])
		folder := out["folders"].([]any)[0].(map[string]any)
		assert.Equal(t, "Policies", folder["name"])
		assert.Equal(t, float64(1), folder["childCount"])
	})

	t.Run("create_folder duplicate", func(t *testing.T) {
		text, isError := f.callText(t, "create_folder", f.drive(map[string]any{"folder_path": "Policies"}))

		assert.True(t, isError)
		assert.Contains(t, text, "Error creating folder:")
	})

	t.Run("get_folder_tree", func(t *testing.T) {
		out := f.callJSON(t, "get_folder_tree", f.drive(nil))

		assert.Equal(t, "/", out["path"])
		assert.Equal(t, float64(services.DefaultFolderTreeDepth), out["max_depth"])
		root := out["folders"].([]any)[0].(map[string]any)
		assert.Equal(t, "Policies", root["path"])
		child := root["children"].([]any)[0].(map[string]any)
		assert.Equal(t, "Policies/2024", child["path"])
		assert.Empty(t, child["children"])
	})

	t.Run("get_folder_tree depth limited", func(t *testing.T) {
		out := f.callJSON(t, "get_folder_tree", f.drive(map[string]any{"max_depth": 1}))

		root := out["folders"].([]any)[0].(map[string]any)
		assert.Equal(t, true, root["depthLimited"])
		assert.Empty(t, root["children"])
	})

	t.Run("delete_folder", func(t *testing.T) {
		out := f.callJSON(t, "delete_folder", f.drive(map[string]any{"folder_id": created["id"]}))

		assert.Equal(t, true, out["success"])
		assert.Contains(t, out["message"], "deleted")

		listed := f.callJSON(t, "list_folders", f.drive(nil))
		assert.Equal(t, float64(0), listed["count"])
	})
}

func TestTools_Documents(t *testing.T) {
	f := newFixture(t)

	uploaded := f.callJSON(t, "upload_document", f.drive(map[string]any{
		"folder_path":  "Data",
		"file_name":    "people.csv",
		"file_content": "name,team\nAda,Eng\nGrace,Ops\n",
		"content_type": "text/csv",
	}))
	assert.Equal(t, "people.csv", uploaded["name"])
	assert.Equal(t, "text/csv", uploaded["mimeType"])
	assert.Equal(t, "/Data", uploaded["parentPath"])
	itemID := uploaded["id"].(string)

	t.Run("list_documents", func(t *testing.T) {
		out := f.callJSON(t, "list_documents", f.drive(map[string]any{"folder_path": "Data"}))

		assert.Equal(t, float64(1), out["count"])
		doc := out["documents"].([]any)[0].(map[string]any)
		assert.Equal(t, "people.csv", doc["name"])
		assert.Equal(t, "Adele Vance", doc["createdBy"])
	})

	t.Run("get_document_content", func(t *testing.T) {
		out := f.callJSON(t, "get_document_content", f.drive(map[string]any{"item_id": itemID, "filename": "people.csv"}))

		assert.Equal(t, "csv", out["type"])
		assert.Equal(t, []any{"name", "team"}, out["headers"])
		assert.Len(t, out["rows"], 2)
		assert.Equal(t, false, out["truncated"])
	})

	t.Run("get_document_content unsupported", func(t *testing.T) {
		out := f.callJSON(t, "get_document_content", f.drive(map[string]any{"item_id": itemID, "filename": "people.bin"}))

		assert.Equal(t, "unsupported", out["type"])
		assert.Equal(t, "bin", out["extension"])
	})

	t.Run("update_document base64", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("name\nLinus\n"))

		out := f.callJSON(t, "update_document", f.drive(map[string]any{
			"item_id":          itemID,
			"file_content":     encoded,
			"content_encoding": "base64",
			"content_type":     "text/csv",
		}))

		assert.Equal(t, "text/csv", out["mimeType"])
		assert.Equal(t, float64(11), out["size"])
	})

	t.Run("update_document bad base64", func(t *testing.T) {
		text, isError := f.callText(t, "update_document", f.drive(map[string]any{
			"item_id":          itemID,
			"file_content":     "***",
			"content_encoding": "base64",
		}))

		assert.True(t, isError)
		assert.Contains(t, text, "Error updating document:")
		assert.Contains(t, text, "base64")
	})

	t.Run("upload_document unknown encoding", func(t *testing.T) {
		text, isError := f.callText(t, "upload_document", f.drive(map[string]any{
			"file_name":        "a.txt",
			"file_content":     "x",
			"content_encoding": "hex",
		}))

		assert.True(t, isError)
		assert.Contains(t, text, "Error uploading document:")
	})

	t.Run("delete_document", func(t *testing.T) {
		out := f.callJSON(t, "delete_document", f.drive(map[string]any{"item_id": itemID}))
		assert.Equal(t, true, out["success"])

		text, isError := f.callText(t, "get_document_content", f.drive(map[string]any{"item_id": itemID, "filename": "people.csv"}))
		assert.True(t, isError)
		assert.Contains(t, text, "Error getting document content:")
	})
}

func TestTools_Lists(t *testing.T) {
	f := newFixture(t)

	list := f.callJSON(t, "create_intelligent_list", map[string]any{
		"site_id": f.site.ID, "purpose": "projects", "display_name": "Roadmap",
	})
	assert.Equal(t, "Roadmap", list["displayName"])
	assert.Equal(t, domain.ListTemplateGeneric, list["template"])
	columns := list["columns"].([]any)
	require.NotEmpty(t, columns)
	assert.Equal(t, "ProjectStatus", columns[0].(map[string]any)["name"])
	listID := list["id"].(string)

	item := f.callJSON(t, "create_list_item", map[string]any{
		"site_id": f.site.ID, "list_id": listID, "fields": map[string]any{"Title": "Launch"},
	})
	assert.Equal(t, "Launch", item["fields"].(map[string]any)["Title"])

	fields := f.callJSON(t, "update_list_item", map[string]any{
		"site_id": f.site.ID, "list_id": listID, "item_id": item["id"], "fields": map[string]any{"Priority": "High"},
	})
	assert.Equal(t, "Launch", fields["Title"])
	assert.Equal(t, "High", fields["Priority"])

	t.Run("empty fields rejected", func(t *testing.T) {
		text, isError := f.callText(t, "create_list_item", map[string]any{
			"site_id": f.site.ID, "list_id": listID, "fields": map[string]any{},
		})

		assert.True(t, isError)
		assert.Contains(t, text, "Error creating list item:")
	})

	t.Run("create_advanced_document_library", func(t *testing.T) {
		lib := f.callJSON(t, "create_advanced_document_library", map[string]any{
			"site_id": f.site.ID, "display_name": "Contracts", "doc_type": "contracts",
		})

		assert.Equal(t, domain.ListTemplateDocumentLibrary, lib["template"])
		assert.NotEmpty(t, lib["columns"])
	})
}

func TestTools_Pages(t *testing.T) {
	f := newFixture(t)

	page := f.callJSON(t, "create_modern_page", map[string]any{
		"site_id": f.site.ID, "name": "About Us", "purpose": "projects",
	})
	assert.Equal(t, "about-us.aspx", page["name"])
	assert.Equal(t, "published", page["publishingState"])
	assert.NotEmpty(t, page["title"])

	news := f.callJSON(t, "create_news_post", map[string]any{
		"site_id": f.site.ID, "title": "Quarterly results", "content": "Revenue is **up**.",
	})
	assert.Equal(t, domain.PromotionNewsPost, news["promotionKind"])

	t.Run("list_pages", func(t *testing.T) {
		out := f.callJSON(t, "list_pages", map[string]any{"site_id": f.site.ID})

		assert.Equal(t, float64(2), out["count"])
	})

	t.Run("get_page_content", func(t *testing.T) {
		out := f.callJSON(t, "get_page_content", map[string]any{"site_id": f.site.ID, "page_id": news["id"]})

		assert.Equal(t, "Quarterly results", out["title"])
		assert.Contains(t, out["markdown"], "Revenue is **up**.")
		assert.Equal(t, false, out["truncated"])
	})

	t.Run("create_news_post without title", func(t *testing.T) {
		text, isError := f.callText(t, "create_news_post", map[string]any{"site_id": f.site.ID, "title": " "})

		assert.True(t, isError)
		assert.Contains(t, text, "Error creating news post:")
	})
}

func TestDecodeContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		encoding string
		want     string
		wantErr  bool
	}{
		{name: "default is text", content: "hello", want: "hello"},
		{name: "explicit text", content: "hello", encoding: "TEXT", want: "hello"},
		{name: "base64", content: "aGVsbG8=", encoding: "base64", want: "hello"},
		{name: "base64 with newline", content: "aGVsbG8=\n", encoding: "base64", want: "hello"},
		{name: "invalid base64", content: "@@", encoding: "base64", wantErr: true},
		{name: "unknown encoding", content: "x", encoding: "utf16", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeContent(tt.content, tt.encoding)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
