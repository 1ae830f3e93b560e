package handler

import (
	"net/http"

	"github.com/actuallystonmai/upsell-service/internal/service"
)

// POST /track
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	var req service.TrackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	event, err := h.service.Track(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ok(event))
}
