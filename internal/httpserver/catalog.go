// v0
// internal/httpserver/catalog.go
package httpserver

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/whatifwestudios/the-commons/internal/catalog"
)

// catalogHandler serves the full category-grouped catalog built at boot.
// The catalog is an immutable artifact, so the handler is a straight
// encode of the in-memory document.
func catalogHandler(logger *slog.Logger, cat *catalog.Catalog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(cat); err != nil {
			logger.Error("catalog_encode_failed", slog.Any("err", err))
		}
	})
}

// catalogCategoryHandler serves the record list of a single category and
// 404s for categories the snapshot never declared.
func catalogCategoryHandler(logger *slog.Logger, cat *catalog.Catalog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		category := mux.Vars(r)["category"]
		records, ok := cat.Entries(category)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown category"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(records); err != nil {
			logger.Error("catalog_category_encode_failed",
				slog.String("category", category),
				slog.Any("err", err),
			)
		}
	})
}
