package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const apiKeyHeader = "X-API-Key"

// RequireStoreKey only lets requests through whose X-API-Key matches the
// store in the path.
func (h *Handler) RequireStoreKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := h.service.AuthenticateStore(r.Context(), chi.URLParam(r, "storeID"), r.Header.Get(apiKeyHeader))
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
