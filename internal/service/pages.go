package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/actuallystonmai/upsell-service/internal/domain"
	"github.com/actuallystonmai/upsell-service/internal/wordpress"
)

type PublishRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

var pageStatuses = map[string]bool{"": true, "draft": true, "publish": true, "private": true, "pending": true}

// PublishPage gates on the monthly page budget, publishes to WordPress and
// counts the page.
func (s *Service) PublishPage(ctx context.Context, storeID string, req PublishRequest) (*wordpress.PublishedPage, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", domain.ErrInvalidInput)
	}
	if !pageStatuses[req.Status] {
		return nil, fmt.Errorf("%w: unsupported page status %q", domain.ErrInvalidInput, req.Status)
	}

	store, err := s.repo.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	decision, err := s.CheckLimit(ctx, store.ID, domain.ActionGeneratePages, 1)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, &LimitError{Decision: *decision}
	}

	page, err := s.publisher.PublishPage(ctx, store, wordpress.Page{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		return nil, err
	}

	// the page exists at this point; a lost increment must not fail the call
	if err := s.repo.IncrementPages(ctx, store.ID, 1); err != nil {
		s.logger.Error("page usage not incremented", "store_id", store.ID, "page_id", page.ID, "error", err)
	}
	return page, nil
}
