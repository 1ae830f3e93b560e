package handler

import (
	"net/http"

	"github.com/actuallystonmai/upsell-service/internal/service"
	"github.com/go-chi/chi/v5"
)

// POST /recommendations
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req service.RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if req.APIKey == "" {
		req.APIKey = r.Header.Get(apiKeyHeader)
	}

	resp, err := h.service.Recommend(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /stores/{storeID}/recommendations/batch
func (h *Handler) RecommendBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp, err := h.service.RecommendBatch(r.Context(), chi.URLParam(r, "storeID"), req.ProductIDs)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
