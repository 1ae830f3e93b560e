package woocommerce

import (
	"strconv"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

// ToProduct maps a WooCommerce product onto a catalog entry.
// The first category is used; out-of-stock or unpublished products are disabled.
func ToProduct(p WooProduct, currency string) domain.Product {
	price := domain.ParsePrice(p.Price)
	if !price.Valid {
		price = domain.ParsePrice(p.RegularPrice)
	}

	var category string
	if len(p.Categories) > 0 {
		category = p.Categories[0].Name
	}
	var image string
	if len(p.Images) > 0 {
		image = p.Images[0].Src
	}

	enabled := p.Status == "publish" && p.StockStatus != "outofstock"
	return domain.Product{
		ID:       domain.NormalizeID(strconv.Itoa(p.ID)),
		Name:     p.Name,
		Category: category,
		Price:    price,
		Currency: currency,
		Stock:    p.StockQuantity,
		Image:    image,
		URL:      p.Permalink,
		Enabled:  &enabled,
	}
}
