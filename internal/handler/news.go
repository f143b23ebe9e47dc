package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pulsehub-api/internal/service"
	"pulsehub-api/pkg/apierror"
	"pulsehub-api/pkg/response"
)

// NewsHandler serves the headlines endpoint.
type NewsHandler struct {
	news *service.NewsService
}

// NewNewsHandler creates a news handler.
func NewNewsHandler(news *service.NewsService) *NewsHandler {
	return &NewsHandler{news: news}
}

// ListByCategory handles GET /api/v1/news/{category}
func (h *NewsHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(chi.URLParam(r, "category"))
	if category == "" {
		response.Error(w, apierror.BadRequest("category is required"))
		return
	}

	result, err := h.news.GetNewsByCategory(r.Context(), category)
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}
	response.OK(w, result)
}
