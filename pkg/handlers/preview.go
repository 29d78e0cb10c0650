package handlers

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-preview/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-preview/pkg/config"
	"github.com/ekaya-inc/ekaya-preview/pkg/models"
	"github.com/ekaya-inc/ekaya-preview/pkg/services"
)

// Sort orders accepted in the order query parameter.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// PreviewRequestBody is the body of POST /api/preview.
type PreviewRequestBody struct {
	Schema  *models.TableSchema    `json:"schema"`
	Preview *models.PreviewPayload `json:"preview"`
}

// LocalesResponse lists the locales labels are available in.
type LocalesResponse struct {
	Locales []string `json:"locales"`
}

// PreviewHandler handles preview rendering requests.
type PreviewHandler struct {
	service         services.PreviewService
	maxRequestBytes int64
	logger          *zap.Logger
}

// NewPreviewHandler creates a new PreviewHandler.
func NewPreviewHandler(service services.PreviewService, cfg config.PreviewConfig, logger *zap.Logger) *PreviewHandler {
	return &PreviewHandler{
		service:         service,
		maxRequestBytes: cfg.MaxRequestBytes,
		logger:          logger,
	}
}

// RegisterRoutes registers the preview handler's routes on the given mux.
func (h *PreviewHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/preview", h.Render)
	mux.HandleFunc("GET /api/locales", h.Locales)
	mux.HandleFunc("GET /api/locales/{locale}", h.Labels)
}

// Render handles POST /api/preview?sort={field}&order={asc|desc}
// Projects the posted schema and preview payload into grid columns and rows.
func (h *PreviewHandler) Render(w http.ResponseWriter, r *http.Request) {
	body, req, err := h.decodeRequest(w, r)
	if err != nil {
		h.handleError(w, err)
		return
	}

	query := r.URL.Query()
	sortField := query.Get("sort")
	order := strings.ToLower(query.Get("order"))
	if order != "" && order != SortOrderAsc && order != SortOrderDesc {
		h.handleError(w, fmt.Errorf("%w: order must be asc or desc", apperrors.ErrInvalidPayload))
		return
	}

	result, err := h.service.Render(r.Context(), &services.PreviewRequest{
		Schema:         req.Schema,
		Preview:        req.Preview,
		SortField:      sortField,
		Descending:     order == SortOrderDesc,
		AcceptLanguage: r.Header.Get("Accept-Language"),
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	// Only successful renders are tagged.
	etag := PreviewETag(body, sortField, order, result.Locale, result.TranslationsGeneration)
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Language")
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Language", result.Locale)
	response := ApiResponse{Success: true, Data: result}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Locales handles GET /api/locales
func (h *PreviewHandler) Locales(w http.ResponseWriter, r *http.Request) {
	response := ApiResponse{Success: true, Data: LocalesResponse{Locales: h.service.Locales()}}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Labels handles GET /api/locales/{locale}
func (h *PreviewHandler) Labels(w http.ResponseWriter, r *http.Request) {
	labels, err := h.service.Labels(r.PathValue("locale"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	response := ApiResponse{Success: true, Data: labels}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// decodeRequest reads the body within the configured limit and decodes it.
// The raw body is returned as well for ETag computation.
func (h *PreviewHandler) decodeRequest(w http.ResponseWriter, r *http.Request) ([]byte, *PreviewRequestBody, error) {
	if h.maxRequestBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestBytes)
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, fmt.Errorf("%w: body exceeds %d bytes", apperrors.ErrPayloadTooLarge, maxErr.Limit)
		}
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidPayload, err)
	}

	var req PreviewRequestBody
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidPayload, err)
	}
	return body, &req, nil
}

func (h *PreviewHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrPayloadTooLarge):
		h.writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err.Error())
	case errors.Is(err, apperrors.ErrInvalidPayload):
		h.writeError(w, http.StatusBadRequest, "invalid_payload", err.Error())
	case errors.Is(err, apperrors.ErrUnknownField):
		h.writeError(w, http.StatusBadRequest, "unknown_field", err.Error())
	case errors.Is(err, apperrors.ErrColumnNotSortable):
		h.writeError(w, http.StatusBadRequest, "column_not_sortable", err.Error())
	case errors.Is(err, apperrors.ErrLocaleNotFound):
		h.writeError(w, http.StatusNotFound, "locale_not_found", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Debug("Preview request cancelled", zap.Error(err))
	default:
		h.logger.Error("Failed to render preview", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to render preview")
	}
}

func (h *PreviewHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

// PreviewETag identifies a rendered preview by its request body, sort
// parameters, resolved locale and the translations generation it used.
func PreviewETag(body []byte, sortField, order, locale string, generation uint64) string {
	buf := make([]byte, 0, len(body)+len(sortField)+len(order)+len(locale)+4+8)
	buf = append(buf, body...)
	buf = append(buf, 0)
	buf = append(buf, sortField...)
	buf = append(buf, 0)
	buf = append(buf, order...)
	buf = append(buf, 0)
	buf = append(buf, locale...)
	buf = append(buf, 0)
	buf = binary.BigEndian.AppendUint64(buf, generation)
	return fmt.Sprintf("%q", fmt.Sprintf("%016x", xxh3.Hash(buf)))
}

// etagMatches reports whether an If-None-Match header covers etag.
// Weak validators compare equal to their strong form.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
