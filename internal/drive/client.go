package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"driveindex/internal/config"
	"driveindex/internal/walker"
)

// file models one entry of the Drive v3 files.list response. Size arrives as
// a decimal string, timestamps as RFC 3339.
type file struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	Size         string `json:"size"`
	CreatedTime  string `json:"createdTime"`
	ModifiedTime string `json:"modifiedTime"`
	WebViewLink  string `json:"webViewLink"`
	Description  string `json:"description"`
}

type listResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Files         []file `json:"files"`
}

const listFields = "nextPageToken,files(id,name,mimeType,size,createdTime,modifiedTime,webViewLink,description)"

// Client provides paginated folder listings from the Google Drive v3 API.
type Client struct {
	baseURL     string
	apiKey      string
	accessToken string
	pageSize    int
	httpClient  *http.Client
}

var _ walker.Source = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Drive client from the drive configuration section. One of
// api_key or access_token must be set.
func New(cfg config.Drive, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("drive base url required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	accessToken := strings.TrimSpace(cfg.AccessToken)
	if apiKey == "" && accessToken == "" {
		return nil, errors.New("drive api key or access token required")
	}
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}
	client := &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		accessToken: accessToken,
		pageSize:    pageSize,
		httpClient:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ListChildren fetches one page of a folder's children.
func (c *Client) ListChildren(ctx context.Context, folderID, pageToken string) ([]walker.Entry, string, error) {
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return nil, "", errors.New("folder id must not be empty")
	}

	endpoint, err := url.Parse(c.baseURL + "/files")
	if err != nil {
		return nil, "", fmt.Errorf("parse drive url: %w", err)
	}
	params := url.Values{}
	params.Set("q", fmt.Sprintf("'%s' in parents and trashed=false", sanitizeID(folderID)))
	params.Set("fields", listFields)
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, "", fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("drive listing returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", fmt.Errorf("decode drive response: %w", err)
	}

	entries := make([]walker.Entry, 0, len(payload.Files))
	for _, f := range payload.Files {
		entries = append(entries, toEntry(f))
	}
	return entries, payload.NextPageToken, nil
}

func toEntry(f file) walker.Entry {
	entry := walker.Entry{
		ID:          f.ID,
		Name:        f.Name,
		MimeType:    f.MimeType,
		WebViewLink: f.WebViewLink,
		Description: f.Description,
	}
	if f.Size != "" {
		if size, err := strconv.ParseInt(f.Size, 10, 64); err == nil {
			entry.Size = size
		}
	}
	if f.CreatedTime != "" {
		if ts, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			entry.CreatedTime = ts
		}
	}
	if f.ModifiedTime != "" {
		if ts, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			entry.ModifiedTime = ts
		}
	}
	return entry
}

// sanitizeID strips quote characters so a folder id can be embedded in the
// Drive query expression.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		if r == '\'' || r == '"' || r == '\\' {
			return -1
		}
		return r
	}, id)
}
