package handler

import (
	"fmt"
	"net/http"

	"github.com/actuallystonmai/upsell-service/internal/domain"
	"github.com/actuallystonmai/upsell-service/internal/service"
	"github.com/go-chi/chi/v5"
)

const maxPushedProducts = 1000

// POST /stores/{storeID}/limits/check
func (h *Handler) CheckLimit(w http.ResponseWriter, r *http.Request) {
	var req LimitCheckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	action, err := domain.ParseLimitAction(req.Action)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	amount := 1
	if req.Amount != nil {
		amount = *req.Amount
	}

	decision, err := h.service.CheckLimit(r.Context(), chi.URLParam(r, "storeID"), action, amount)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

// POST /stores/{storeID}/usage/pages
func (h *Handler) IncrementPages(w http.ResponseWriter, r *http.Request) {
	req := IncrementPagesRequest{Count: 1}
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if err := h.service.IncrementPages(r.Context(), chi.URLParam(r, "storeID"), req.Count); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(nil))
}

// POST /stores/{storeID}/pages
func (h *Handler) PublishPage(w http.ResponseWriter, r *http.Request) {
	var req service.PublishRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	page, err := h.service.PublishPage(r.Context(), chi.URLParam(r, "storeID"), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, page)
}

// GET /stores/{storeID}/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// PUT /stores/{storeID}/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var update domain.SettingsOverrides
	if err := decodeJSON(w, r, &update); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	settings, err := h.service.UpdateSettings(r.Context(), chi.URLParam(r, "storeID"), update)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// POST /stores/{storeID}/products/sync
func (h *Handler) SyncProducts(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if len(req.Products) > maxPushedProducts {
		h.writeServiceError(w, r, fmt.Errorf("%w: at most %d products per sync", domain.ErrInvalidInput, maxPushedProducts))
		return
	}

	result, err := h.service.SyncProducts(r.Context(), chi.URLParam(r, "storeID"), req.Products)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GET /stores/{storeID}/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
