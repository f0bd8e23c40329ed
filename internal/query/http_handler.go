package query

import (
	"errors"
	"net/http"
	"strconv"

	"sheetdrop/internal/domain"
	"sheetdrop/internal/web"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the upload list and page fetch endpoints.
type Handler struct {
	service *Service
}

// NewHandler wraps the query service.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListUploads handles GET /api/uploads.
func (h *Handler) ListUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := h.service.ListUploads(r.Context())
	if err != nil {
		web.Failure(w, http.StatusInternalServerError, err.Error())
		return
	}

	web.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"uploads": uploads,
	})
}

// FetchPage handles GET /api/uploads/{id}.
func (h *Handler) FetchPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		web.Failure(w, http.StatusBadRequest, "invalid upload id")
		return
	}

	limit := parseIntParam(r, "limit", DefaultLimit)
	offset := parseIntParam(r, "offset", 0)

	page, err := h.service.FetchPage(r.Context(), id, limit, offset)
	if err != nil {
		if errors.Is(err, domain.ErrUploadNotFound) {
			web.Failure(w, http.StatusNotFound, "Not found")
			return
		}
		web.Failure(w, http.StatusInternalServerError, err.Error())
		return
	}

	web.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"tableName": page.TableName,
		"columns":   page.Columns,
		"rows":      page.Rows,
		"total":     page.Total,
	})
}

func parseIntParam(r *http.Request, name string, defaultVal int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return val
}
