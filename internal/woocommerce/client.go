package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

const (
	restAPIPath = "/wp-json/wc/v3"

	// MaxPerPage is the WooCommerce REST page size ceiling.
	MaxPerPage = 100

	userAgent = "UpSell-AI/1.0"
)

// Client talks to any merchant store; credentials are passed per call.
type Client struct {
	httpClient *http.Client
}

func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient}
}

// FetchProducts pulls up to limit published products from the store.
func (c *Client) FetchProducts(ctx context.Context, store *domain.Store, limit int) ([]domain.Product, error) {
	if store.WordPressURL == "" || store.WooKey == "" || store.WooSecret == "" {
		return nil, fmt.Errorf("%w: store %s has no WooCommerce credentials", domain.ErrInvalidInput, store.ID)
	}
	if limit <= 0 || limit > MaxPerPage {
		limit = MaxPerPage
	}

	q := url.Values{}
	q.Set("per_page", strconv.Itoa(limit))
	q.Set("status", "publish")
	q.Set("orderby", "popularity")

	var items []WooProduct
	if err := c.get(ctx, store, "/products?"+q.Encode(), &items); err != nil {
		return nil, err
	}

	// currency is cosmetic; a failed lookup leaves it empty
	var cur WooCurrency
	_ = c.get(ctx, store, "/data/currencies/current", &cur)

	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		products = append(products, ToProduct(item, cur.Code))
	}
	return products, nil
}

func (c *Client) get(ctx context.Context, store *domain.Store, path string, out any) error {
	endpoint := strings.TrimSuffix(store.WordPressURL, "/") + restAPIPath + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(store.WooKey, store.WooSecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: woocommerce request: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading woocommerce response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return parseErrorResponse(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: parsing woocommerce response: %v", domain.ErrUpstreamUnavailable, err)
	}
	return nil
}

func parseErrorResponse(statusCode int, body []byte) error {
	var wcErr WooErrorResponse
	json.Unmarshal(body, &wcErr) // best effort

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: woocommerce rejected the store credentials (%s)", domain.ErrUpstreamUnavailable, wcErr.Code)
	default:
		return fmt.Errorf("%w: woocommerce status %d: %s - %s", domain.ErrUpstreamUnavailable, statusCode, wcErr.Code, wcErr.Message)
	}
}
