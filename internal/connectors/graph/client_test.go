package graph

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// stubTokens is a fixed TokenProvider.
type stubTokens struct {
	token string
	err   error
}

func (s stubTokens) GetToken(_ context.Context) (string, error) { return s.token, s.err }
func (s stubTokens) ExpiresAt() time.Time                       { return time.Time{} }
func (s stubTokens) IsTokenValid() bool                         { return s.err == nil }
func (s stubTokens) Headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + s.token}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(domain.GraphSettings{BaseURL: srv.URL + "/v1.0"}, stubTokens{token: "tok"})
	return c, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(domain.GraphSettings{}, stubTokens{token: "tok"})

	assert.Equal(t, domain.DefaultGraphBaseURL, c.baseURL)
	assert.Equal(t, int64(domain.DefaultMaxDownloadBytes), c.maxDownloadBytes)
	assert.Equal(t, int64(domain.DefaultSimpleUploadLimit), c.simpleUploadLimit)
	assert.Equal(t, domain.DefaultGraphTimeout, c.http.Timeout)
	assert.NotNil(t, c.RateLimiter())
}

func TestClient_Me_SendsTokenAndRequestID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/me", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Len(t, r.Header.Get("client-request-id"), 36)
		assert.Equal(t, "displayName,userPrincipalName", r.URL.Query().Get("$select"))
		writeJSON(w, http.StatusOK, map[string]any{"displayName": "Adele Vance"})
	})

	name, err := c.Me(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Adele Vance", name)
}

func TestClient_Me_FallsBackToPrincipalName(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"userPrincipalName": "adele@contoso.com"})
	})

	name, err := c.Me(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "adele@contoso.com", name)
}

func TestClient_TokenError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("request must not reach the server without a token")
	}))
	defer srv.Close()
	c := NewClient(domain.GraphSettings{BaseURL: srv.URL}, stubTokens{err: domain.ErrAuthRequired})

	_, err := c.Me(context.Background())

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestClient_GetSite(t *testing.T) {
	tests := []struct {
		name     string
		sitePath string
		wantPath string
	}{
		{"named site", "/sites/hr", "/v1.0/sites/contoso.sharepoint.com:/sites/hr"},
		{"root site", "", "/v1.0/sites/contoso.sharepoint.com"},
		{"escaped segment", "/sites/Team Site", "/v1.0/sites/contoso.sharepoint.com:/sites/Team Site"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				writeJSON(w, http.StatusOK, map[string]any{
					"id":              "site-1",
					"name":            "hr",
					"displayName":     "Human Resources",
					"webUrl":          "https://contoso.sharepoint.com/sites/hr",
					"createdDateTime": "2024-01-02T03:04:05Z",
				})
			})

			site, err := c.GetSite(context.Background(), "contoso.sharepoint.com", tt.sitePath)

			require.NoError(t, err)
			assert.Equal(t, "site-1", site.ID)
			assert.Equal(t, "Human Resources", site.DisplayName)
			assert.Equal(t, 2024, site.CreatedAt.Year())
		})
	}
}

func TestClient_ListDrives_FollowsNextLink(t *testing.T) {
	var srvURL string
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/sites/site-1/drives", r.URL.Path)
		if r.URL.Query().Get("$skiptoken") == "" {
			writeJSON(w, http.StatusOK, map[string]any{
				"value":           []map[string]any{{"id": "d1", "name": "Documents"}},
				"@odata.nextLink": srvURL + "/v1.0/sites/site-1/drives?$skiptoken=2",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"value": []map[string]any{{"id": "d2", "name": "Contracts"}},
		})
	})
	srvURL = srv.URL

	drives, err := c.ListDrives(context.Background(), "site-1")

	require.NoError(t, err)
	require.Len(t, drives, 2)
	assert.Equal(t, "Documents", drives[0].Name)
	assert.Equal(t, "Contracts", drives[1].Name)
}

func TestClient_SearchSite_EscapesQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/sites/site-1/drive/root/search(q='bob''s report')", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"value": []map[string]any{
				{"id": "i1", "name": "bob's report.docx", "size": 42, "file": map[string]any{"mimeType": "application/msword"}},
			},
		})
	})

	items, err := c.SearchSite(context.Background(), "site-1", "bob's report")

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsFolder)
	assert.Equal(t, int64(42), items[0].Size)
	assert.Equal(t, "application/msword", items[0].MIMEType)
}

func TestClient_CreateGroupSite(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1.0/groups", r.URL.Path)
		body := decodeBody(t, r)
		assert.Equal(t, "finance", body["mailNickname"])
		assert.Equal(t, []any{"Unified"}, body["groupTypes"])
		writeJSON(w, http.StatusCreated, map[string]any{"id": "g1", "displayName": "Finance", "mailNickname": "finance"})
	})

	g, err := c.CreateGroupSite(context.Background(), domain.SiteRequest{DisplayName: "Finance", Alias: "finance"})

	require.NoError(t, err)
	assert.Equal(t, "g1", g.ID)
	assert.Equal(t, "finance", g.MailNickname)
}

func TestClient_ListChildren(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/sites/s/drives/d/root:/Shared/Q1 Reports:/children", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"value": []map[string]any{
				{
					"id": "f1", "name": "Drafts",
					"folder":          map[string]any{"childCount": 3},
					"parentReference": map[string]any{"path": "/drives/d/root:/Shared/Q1 Reports"},
					"createdBy":       map[string]any{"user": map[string]any{"displayName": "Adele"}},
				},
				{"id": "x1", "name": "summary.pdf", "file": map[string]any{"mimeType": "application/pdf"}},
			},
		})
	})

	items, err := c.ListChildren(context.Background(), "s", "d", "/Shared/Q1 Reports/")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].IsFolder)
	assert.Equal(t, 3, items[0].ChildCount)
	assert.Equal(t, "/Shared/Q1 Reports", items[0].ParentPath)
	assert.Equal(t, "Adele", items[0].CreatedBy)
	assert.Equal(t, "application/pdf", items[1].MIMEType)
}

func TestClient_CreateFolder(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/sites/s/drives/d/root:/Policies:/children", r.URL.Path)
		body := decodeBody(t, r)
		assert.Equal(t, "2024", body["name"])
		assert.Equal(t, "fail", body["@microsoft.graph.conflictBehavior"])
		writeJSON(w, http.StatusCreated, map[string]any{"id": "f2", "name": "2024", "folder": map[string]any{}})
	})

	item, err := c.CreateFolder(context.Background(), "s", "d", "Policies/2024")

	require.NoError(t, err)
	assert.True(t, item.IsFolder)

	_, err = c.CreateFolder(context.Background(), "s", "d", "/")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_CreateFolder_AtRoot(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/sites/s/drives/d/root/children", r.URL.Path)
		writeJSON(w, http.StatusCreated, map[string]any{"id": "f1", "name": "Policies", "folder": map[string]any{}})
	})

	_, err := c.CreateFolder(context.Background(), "s", "d", "Policies")
	require.NoError(t, err)
}

func TestClient_DeleteItem(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1.0/sites/s/drives/d/items/i1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteItem(context.Background(), "s", "d", "i1"))
}

func TestClient_APIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("request-id", "req-123")
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]any{"code": "itemNotFound", "message": "The resource could not be found."},
		})
	})

	err := c.DeleteItem(context.Background(), "s", "d", "missing")

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsForbidden(err))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "itemNotFound", apiErr.Code)
	assert.Equal(t, "req-123", apiErr.RequestID)
	assert.Equal(t, http.MethodDelete, apiErr.Method)
	assert.Contains(t, err.Error(), "The resource could not be found.")
}

func TestClient_APIError_Statuses(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
		target error
	}{
		{http.StatusUnauthorized, IsUnauthorized, domain.ErrAuthInvalid},
		{http.StatusBadRequest, nil, domain.ErrInvalidInput},
		{http.StatusConflict, nil, domain.ErrConflict},
		{http.StatusRequestEntityTooLarge, nil, domain.ErrTooLarge},
		{http.StatusForbidden, IsForbidden, nil},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, "plain failure")
			})

			err := c.DeleteItem(context.Background(), "s", "d", "i")

			require.Error(t, err)
			if tt.check != nil {
				assert.True(t, tt.check(err))
			}
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			assert.Contains(t, err.Error(), "plain failure")
		})
	}
}

func TestClient_RateLimited_RecordsBackoff(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "7")
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error": map[string]any{"code": "TooManyRequests", "message": "slow down"},
		})
	})

	before := time.Now()
	_, err := c.Me(context.Background())

	assert.True(t, IsRateLimited(err))
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	retryAt := c.RateLimiter().RetryAt()
	assert.WithinDuration(t, before.Add(7*time.Second), retryAt, 2*time.Second)

	// The next call waits for the window and gives up with the context.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Me(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_DownloadContent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/sites/s/drives/d/items/i1/content", r.URL.Path)
		_, _ = io.WriteString(w, "file bytes")
	})

	data, err := c.DownloadContent(context.Background(), "s", "d", "i1")

	require.NoError(t, err)
	assert.Equal(t, "file bytes", string(data))
}

func TestClient_DownloadContent_RedirectWithoutToken(t *testing.T) {
	var (
		mu          sync.Mutex
		storageAuth []string
	)
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		storageAuth = append(storageAuth, r.Header.Get("Authorization"))
		mu.Unlock()
		assert.Equal(t, "/download/i1", r.URL.Path)
		assert.Equal(t, "sig", r.URL.Query().Get("tempauth"))
		_, _ = io.WriteString(w, "file bytes")
	}))
	t.Cleanup(storage.Close)

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		http.Redirect(w, r, storage.URL+"/download/i1?tempauth=sig", http.StatusFound)
	})

	data, err := c.DownloadContent(context.Background(), "s", "d", "i1")

	require.NoError(t, err)
	assert.Equal(t, "file bytes", string(data))
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, storageAuth, 1)
	assert.Empty(t, storageAuth[0])
}

func TestClient_DownloadContent_RedirectTargetFails(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "link expired", http.StatusForbidden)
	}))
	t.Cleanup(storage.Close)

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, storage.URL+"/download/i1", http.StatusFound)
	})

	_, err := c.DownloadContent(context.Background(), "s", "d", "i1")

	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, statusOf(err))
}

func TestClient_RedirectWithoutLocation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusFound)
	})

	_, err := c.DownloadContent(context.Background(), "s", "d", "i1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect")
}

func TestClient_DownloadContent_TooLarge(t *testing.T) {
	t.Run("declared length", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, strings.Repeat("x", 64))
		})
		c.maxDownloadBytes = 16

		_, err := c.DownloadContent(context.Background(), "s", "d", "i1")

		assert.ErrorIs(t, err, domain.ErrTooLarge)
	})

	t.Run("streamed", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			flusher := w.(http.Flusher)
			for i := 0; i < 8; i++ {
				_, _ = io.WriteString(w, "xxxxxxxx")
				flusher.Flush()
			}
		})
		c.maxDownloadBytes = 16

		_, err := c.DownloadContent(context.Background(), "s", "d", "i1")

		assert.ErrorIs(t, err, domain.ErrTooLarge)
	})
}

func TestClient_UploadContent_Simple(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1.0/sites/s/drives/d/root:/Reports/q1.txt:/content", r.URL.Path)
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, "hello", string(data))
		writeJSON(w, http.StatusCreated, map[string]any{
			"id": "new", "name": "q1.txt", "size": 5, "file": map[string]any{"mimeType": "text/plain"},
		})
	})

	item, err := c.UploadContent(context.Background(), "s", "d", "Reports/q1.txt", []byte("hello"), "text/plain")

	require.NoError(t, err)
	assert.Equal(t, "new", item.ID)
	assert.Equal(t, int64(5), item.Size)
}

func TestClient_ReplaceContent_Simple(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/sites/s/drives/d/items/i1/content", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"id": "i1", "name": "a.txt", "size": 0})
	})

	item, err := c.ReplaceContent(context.Background(), "s", "d", "i1", nil, "text/plain")

	require.NoError(t, err)
	assert.Equal(t, "i1", item.ID)
}

func TestClient_UploadSession(t *testing.T) {
	var (
		mu     sync.Mutex
		ranges []string
		got    []byte
		srvURL string
	)
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/createUploadSession"):
			assert.Equal(t, "/v1.0/sites/s/drives/d/root:/big.bin:/createUploadSession", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			assert.Equal(t, map[string]any{
				"item": map[string]any{"@microsoft.graph.conflictBehavior": "replace"},
			}, decodeBody(t, r))
			writeJSON(w, http.StatusOK, map[string]any{"uploadUrl": srvURL + "/upload/session-1"})
		case r.URL.Path == "/upload/session-1":
			assert.Empty(t, r.Header.Get("Authorization"), "upload urls are pre-authorised")
			assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
			data, _ := io.ReadAll(r.Body)
			mu.Lock()
			ranges = append(ranges, r.Header.Get("Content-Range"))
			got = append(got, data...)
			done := len(got) == 10
			mu.Unlock()
			if done {
				writeJSON(w, http.StatusCreated, map[string]any{"id": "big", "name": "big.bin", "size": 10})
				return
			}
			writeJSON(w, http.StatusAccepted, map[string]any{"nextExpectedRanges": []string{}})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	srvURL = srv.URL
	c.simpleUploadLimit = 4
	c.chunkSize = 4

	item, err := c.UploadContent(context.Background(), "s", "d", "big.bin", []byte("0123456789"), "text/csv")

	require.NoError(t, err)
	assert.Equal(t, "big", item.ID)
	assert.Equal(t, []string{"bytes 0-3/10", "bytes 4-7/10", "bytes 8-9/10"}, ranges)
	assert.Equal(t, "0123456789", string(got))
}

func TestClient_UploadSession_FragmentFailure(t *testing.T) {
	var srvURL string
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/createUploadSession") {
			writeJSON(w, http.StatusOK, map[string]any{"uploadUrl": srvURL + "/upload/s"})
			return
		}
		writeJSON(w, http.StatusRequestedRangeNotSatisfiable, map[string]any{
			"error": map[string]any{"code": "invalidRange", "message": "bad range"},
		})
	})
	srvURL = srv.URL
	c.simpleUploadLimit = 2
	c.chunkSize = 2

	_, err := c.ReplaceContent(context.Background(), "s", "d", "i1", []byte("abcdef"), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload bytes 0-1")
	assert.Contains(t, err.Error(), "bad range")
}

func TestClient_CreateList(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/sites/s/lists", r.URL.Path)
		body := decodeBody(t, r)
		assert.Equal(t, "Tracker", body["displayName"])
		assert.Equal(t, map[string]any{"template": "genericList"}, body["list"])

		cols := body["columns"].([]any)
		require.Len(t, cols, 2)
		status := cols[0].(map[string]any)
		assert.Equal(t, true, status["required"])
		assert.Equal(t, []any{"Active", "Done"}, status["choice"].(map[string]any)["choices"])
		due := cols[1].(map[string]any)
		assert.Equal(t, "dateOnly", due["dateTime"].(map[string]any)["format"])

		writeJSON(w, http.StatusCreated, map[string]any{
			"id": "l1", "name": "Tracker", "displayName": "Tracker",
			"list": map[string]any{"template": "genericList"},
		})
	})

	cols := []domain.ColumnDefinition{
		{Name: "Status", DisplayName: "Status", Kind: domain.ColumnChoice, Required: true, Choices: []string{"Active", "Done"}},
		{Name: "Due", DisplayName: "Due", Kind: domain.ColumnDate},
	}
	list, err := c.CreateList(context.Background(), "s", domain.ListRequest{DisplayName: "Tracker", Columns: cols})

	require.NoError(t, err)
	assert.Equal(t, "l1", list.ID)
	assert.Equal(t, "genericList", list.Template)
	assert.Equal(t, cols, list.Columns)
}

func TestColumnBody_Kinds(t *testing.T) {
	tests := map[domain.ColumnKind]string{
		domain.ColumnText:          "text",
		domain.ColumnMultilineText: "text",
		domain.ColumnNumber:        "number",
		domain.ColumnCurrency:      "currency",
		domain.ColumnDateTime:      "dateTime",
		domain.ColumnDate:          "dateTime",
		domain.ColumnChoice:        "choice",
		domain.ColumnBoolean:       "boolean",
		domain.ColumnPerson:        "personOrGroup",
		domain.ColumnHyperlink:     "hyperlinkOrPicture",
	}
	for kind, key := range tests {
		t.Run(string(kind), func(t *testing.T) {
			body := columnBody(domain.ColumnDefinition{Name: "c", DisplayName: "C", Kind: kind})
			assert.Contains(t, body, key)
		})
	}
}

func TestClient_ListItems(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/v1.0/sites/s/lists/l1/items", r.URL.Path)
			body := decodeBody(t, r)
			assert.Equal(t, map[string]any{"Title": "Launch"}, body["fields"])
			writeJSON(w, http.StatusCreated, map[string]any{"id": "1", "fields": map[string]any{"Title": "Launch"}})
		case http.MethodPatch:
			assert.Equal(t, "/v1.0/sites/s/lists/l1/items/1/fields", r.URL.Path)
			body := decodeBody(t, r)
			assert.Equal(t, "Active", body["Status"])
			writeJSON(w, http.StatusOK, map[string]any{"Title": "Launch", "Status": "Active"})
		}
	})
	ctx := context.Background()

	item, err := c.CreateListItem(ctx, "s", "l1", map[string]any{"Title": "Launch"})
	require.NoError(t, err)
	assert.Equal(t, "1", item.ID)
	assert.Equal(t, "Launch", item.Fields["Title"])

	fields, err := c.UpdateListItem(ctx, "s", "l1", "1", map[string]any{"Status": "Active"})
	require.NoError(t, err)
	assert.Equal(t, "Active", fields["Status"])
}

func TestClient_CreateAndPublishPage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1.0/sites/s/pages":
			body := decodeBody(t, r)
			assert.Equal(t, sitePageType, body["@odata.type"])
			assert.Equal(t, "newsPost", body["promotionKind"])
			canvas := body["canvasLayout"].(map[string]any)
			sections := canvas["horizontalSections"].([]any)
			require.Len(t, sections, 1)
			section := sections[0].(map[string]any)
			assert.Equal(t, "oneThirdRightColumn", section["layout"])
			cols := section["columns"].([]any)
			require.Len(t, cols, 2)
			assert.Equal(t, float64(8), cols[0].(map[string]any)["width"])
			parts := cols[1].(map[string]any)["webparts"].([]any)
			assert.Equal(t, "<p>side</p>", parts[0].(map[string]any)["innerHtml"])
			writeJSON(w, http.StatusCreated, map[string]any{
				"id": "p1", "name": "news.aspx", "title": "News", "promotionKind": "newsPost",
				"publishingState": map[string]any{"level": "draft"},
			})
		case "/v1.0/sites/s/pages/p1/microsoft.graph.sitePage/publish":
			assert.Equal(t, http.MethodPost, r.Method)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	page, err := c.CreatePage(ctx, "s", domain.PageRequest{
		Name: "news.aspx", Title: "News", PromotionKind: domain.PromotionNewsPost,
		Layout: domain.PageLayout{Sections: []domain.PageSection{
			{Layout: domain.SectionOneThirdRight, Columns: []string{"<p>main</p>", "<p>side</p>"}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "draft", page.PublishingState)

	require.NoError(t, c.PublishPage(ctx, "s", page.ID))
}

func TestClient_GetPage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/sites/s/pages/p1/microsoft.graph.sitePage", r.URL.Path)
		assert.Equal(t, "canvasLayout", r.URL.Query().Get("$expand"))
		writeJSON(w, http.StatusOK, map[string]any{
			"id": "p1", "title": "Welcome",
			"canvasLayout": map[string]any{
				"horizontalSections": []map[string]any{{
					"layout": "twoColumns",
					"columns": []map[string]any{
						{"webparts": []map[string]any{{"@odata.type": textWebPartType, "innerHtml": "<p>a</p>"}}},
						{"webparts": []map[string]any{{"@odata.type": "#microsoft.graph.standardWebPart"}}},
					},
				}},
			},
		})
	})

	page, err := c.GetPage(context.Background(), "s", "p1")

	require.NoError(t, err)
	require.Len(t, page.Sections, 1)
	assert.Equal(t, []string{"<p>a</p>", ""}, page.Sections[0].Columns)
}

func TestClient_ListPages(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/sites/s/pages/microsoft.graph.sitePage", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"value": []map[string]any{{"id": "p1", "name": "home.aspx", "publishingState": map[string]any{"level": "published"}}},
		})
	})

	pages, err := c.ListPages(context.Background(), "s")

	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "published", pages[0].PublishingState)
}

func TestCanvasLayout_FillsColumns(t *testing.T) {
	canvas := canvasLayout(domain.PageLayout{Sections: []domain.PageSection{
		{Columns: []string{"<p>only</p>", "<p>dropped</p>"}},
		{Layout: domain.SectionThreeColumns, Columns: []string{"<p>1</p>"}},
	}})

	require.Len(t, canvas.HorizontalSections, 2)
	first := canvas.HorizontalSections[0]
	assert.Equal(t, domain.SectionOneColumn, first.Layout)
	require.Len(t, first.Columns, 1)
	assert.Equal(t, 12, first.Columns[0].Width)

	third := canvas.HorizontalSections[1]
	require.Len(t, third.Columns, 3)
	assert.Len(t, third.Columns[0].Webparts, 1)
	assert.Empty(t, third.Columns[2].Webparts)
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "a/b%20c/d%3Fe", escapePath("/a//b c/d?e/"))
	assert.Equal(t, "", escapePath("/"))
	assert.Equal(t, "/sites/s/drives/d/root", pathItem("s", "d", ""))
	assert.Equal(t, "/sites/s/drives/d/root:/x/y:", pathItem("s", "d", "x/y"))

	assert.Equal(t, "", parentPath(""))
	assert.Equal(t, "/", parentPath("/drives/d/root:"))
	assert.Equal(t, "/A/B", parentPath("/drives/d/root:/A/B"))
}
