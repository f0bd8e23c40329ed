package ingestion

import (
	"errors"
	"fmt"
	"net/http"

	"sheetdrop/internal/decoder"
	"sheetdrop/internal/domain"
	"sheetdrop/internal/schema"
	"sheetdrop/internal/web"
)

const maxUploadBytes = 32 << 20

// Handler exposes ingestion as an HTTP endpoint.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a POST endpoint.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		web.Failure(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		web.Failure(w, http.StatusBadRequest, fmt.Sprintf("invalid form data: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		web.Failure(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	result, err := h.service.Ingest(r.Context(), header.Filename, file)
	if err != nil {
		web.Failure(w, statusFor(err), err.Error())
		return
	}

	web.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"tableName": result.TableName,
		"rowsCount": result.RowsCount,
		"preview":   result.Preview,
		"url":       result.FileURL,
	})
}

func statusFor(err error) int {
	var conflict *schema.ConflictError
	switch {
	case errors.Is(err, decoder.ErrUnsupportedFormat),
		errors.Is(err, decoder.ErrNoDataRows),
		errors.As(err, &conflict):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTableExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
