package drive_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"driveindex/internal/config"
	"driveindex/internal/drive"
	"driveindex/internal/walker"
)

func driveConfig(baseURL string) config.Drive {
	return config.Drive{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		RequestTimeout: 5,
		PageSize:       100,
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	cfg := config.Drive{BaseURL: "https://example.test"}
	if _, err := drive.New(cfg); err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestListChildrenBuildsQueryAndMapsEntries(t *testing.T) {
	var gotQuery, gotToken, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotToken = r.URL.Query().Get("pageToken")
		gotKey = r.URL.Query().Get("key")
		json.NewEncoder(w).Encode(map[string]any{
			"nextPageToken": "tok-2",
			"files": []map[string]any{
				{
					"id":           "vid-1",
					"name":         "COACHING_A_Marissa_Iqra_Wk39_2025-01-11.mp4",
					"mimeType":     "video/mp4",
					"size":         "1048576",
					"modifiedTime": "2025-06-01T10:00:00Z",
					"webViewLink":  "https://drive.example/vid-1",
				},
				{
					"id":       "sub-1",
					"name":     "Sessions",
					"mimeType": "application/vnd.google-apps.folder",
				},
			},
		})
	}))
	defer server.Close()

	client, err := drive.New(driveConfig(server.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	entries, next, err := client.ListChildren(context.Background(), "folder-9", "tok-1")
	if err != nil {
		t.Fatalf("ListChildren: %v", err)
	}
	if gotQuery != "'folder-9' in parents and trashed=false" {
		t.Fatalf("unexpected q param: %q", gotQuery)
	}
	if gotToken != "tok-1" || gotKey != "test-key" {
		t.Fatalf("unexpected token/key: %q %q", gotToken, gotKey)
	}
	if next != "tok-2" {
		t.Fatalf("unexpected next token %q", next)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Size != 1048576 {
		t.Fatalf("size not parsed: %+v", entries[0])
	}
	if entries[0].ModifiedTime.IsZero() {
		t.Fatal("modified time not parsed")
	}
	if !entries[1].IsFolder() {
		t.Fatal("folder mime type should map to folder entry")
	}
}

func TestListChildrenUsesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"files": []any{}})
	}))
	defer server.Close()

	cfg := config.Drive{BaseURL: server.URL, AccessToken: "secret-token", RequestTimeout: 5}
	client, err := drive.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, err := client.ListChildren(context.Background(), "folder", ""); err != nil {
		t.Fatalf("ListChildren: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
}

func TestListChildrenErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	client, err := drive.New(driveConfig(server.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, err := client.ListChildren(context.Background(), "folder", ""); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

var _ walker.Source = (*drive.Client)(nil)
