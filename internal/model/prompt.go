package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

// SuggestionCount is how many candidates the model is asked for.
const SuggestionCount = 3

const systemPrompt = `You are an e-commerce merchandising expert who writes upsell and cross-sell suggestions.
Always answer with a single JSON object and nothing else.`

// buildPrompt returns the system and user messages for one viewed product.
// The catalog must already exclude the viewed product.
func buildPrompt(viewed domain.Product, catalog []domain.Product) (string, string) {
	var b strings.Builder

	b.WriteString("A shopper is looking at this product:\n")
	fmt.Fprintf(&b, "- id: %s | name: %s | category: %s | price: %s\n\n",
		viewed.ID, viewed.Name, orUnknown(viewed.Category), formatPrice(viewed.Price, viewed.Currency))

	b.WriteString("Available products in the store:\n")
	for _, p := range catalog {
		fmt.Fprintf(&b, "- id: %s | name: %s | category: %s | price: %s\n",
			p.ID, p.Name, orUnknown(p.Category), formatPrice(p.Price, p.Currency))
	}

	b.WriteString("\nTasks:\n")
	b.WriteString("1. Detect the language of the product names and the industry of the store.\n")
	b.WriteString("2. Write a short popup title and subtitle in that same language.\n")
	fmt.Fprintf(&b, "3. Choose exactly %d products from the list above that complement the viewed product, "+
		"each with one short persuasive reason in that same language.\n", SuggestionCount)
	b.WriteString("\nRules:\n")
	b.WriteString("- Copy every id EXACTLY as it appears in the list. Never invent, modify or reformat an id.\n")
	b.WriteString("- Never recommend the viewed product itself.\n")
	b.WriteString("\nRespond with JSON in this exact shape:\n")
	b.WriteString(`{"industry": "...", "popupTitle": "...", "popupSubtitle": "...", ` +
		`"recommendations": [{"id": "...", "reason": "..."}]}`)

	return systemPrompt, b.String()
}

func formatPrice(p domain.Price, currency string) string {
	if !p.Valid {
		return "unknown"
	}
	s := strconv.FormatFloat(p.Amount, 'f', 2, 64)
	if currency != "" {
		s += " " + currency
	}
	return s
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
