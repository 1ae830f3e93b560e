// Package wordpress publishes generated pages to a merchant's WordPress site.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

// MaxContentBytes is the largest page body sent to WordPress.
const MaxContentBytes = 50000

const pagesPath = "/wp-json/wp/v2/pages"

// Page is the publish request.
type Page struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

// PublishedPage is what WordPress returns for a created page.
type PublishedPage struct {
	ID     int    `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
}

type wpError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Client struct {
	httpClient *http.Client
}

func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient}
}

// PublishPage creates a page using the store's application password.
func (c *Client) PublishPage(ctx context.Context, store *domain.Store, page Page) (*PublishedPage, error) {
	if store.WordPressURL == "" || store.WPUsername == "" || store.WPAppPassword == "" {
		return nil, fmt.Errorf("%w: store %s has no WordPress credentials", domain.ErrInvalidInput, store.ID)
	}
	if page.Status == "" {
		page.Status = "draft"
	}
	page.Content = TruncateUTF8(page.Content, MaxContentBytes)

	body, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("encoding page: %w", err)
	}

	endpoint := strings.TrimSuffix(store.WordPressURL, "/") + pagesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(store.WPUsername, store.WPAppPassword)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: wordpress request: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading wordpress response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var wpErr wpError
		json.Unmarshal(respBody, &wpErr) // best effort
		return nil, fmt.Errorf("%w: wordpress status %d: %s - %s",
			domain.ErrUpstreamUnavailable, resp.StatusCode, wpErr.Code, wpErr.Message)
	}

	var out PublishedPage
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("%w: parsing wordpress response: %v", domain.ErrUpstreamUnavailable, err)
	}
	return &out, nil
}

// TruncateUTF8 cuts s to at most n bytes without splitting a multi-byte rune.
func TruncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
