// Package woocommerce pulls catalog data from a merchant's WooCommerce REST API.
package woocommerce

// WooProduct is the subset of a /wc/v3/products entry the catalog needs.
// Prices arrive as decimal strings ("19.90") and may be empty.
type WooProduct struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Status        string        `json:"status"`
	Price         string        `json:"price"`
	RegularPrice  string        `json:"regular_price"`
	StockQuantity *int          `json:"stock_quantity"`
	StockStatus   string        `json:"stock_status"`
	Permalink     string        `json:"permalink"`
	Categories    []WooCategory `json:"categories"`
	Images        []WooImage    `json:"images"`
}

type WooCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type WooImage struct {
	Src string `json:"src"`
}

// WooCurrency is the response of /wc/v3/data/currencies/current.
type WooCurrency struct {
	Code string `json:"code"`
}

type WooErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
