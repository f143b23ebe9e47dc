package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulsehub-api/internal/service"
	"pulsehub-api/pkg/apierror"
	"pulsehub-api/pkg/response"
)

// ProxyHandler serves cached passthrough reads of the upstream providers.
type ProxyHandler struct {
	proxy *service.ProxyService
}

// NewProxyHandler creates a proxy handler.
func NewProxyHandler(proxy *service.ProxyService) *ProxyHandler {
	return &ProxyHandler{proxy: proxy}
}

// Fetch handles GET /api/proxy/{provider}/*
func (h *ProxyHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	rest := chi.URLParam(r, "*")
	if rest == "" {
		response.Error(w, apierror.BadRequest("provider path is required"))
		return
	}

	pathAndQuery := "/" + rest
	if r.URL.RawQuery != "" {
		pathAndQuery += "?" + r.URL.RawQuery
	}

	body, err := h.proxy.Fetch(r.Context(), provider, pathAndQuery)
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}
	response.Raw(w, http.StatusOK, body)
}
