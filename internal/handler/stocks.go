package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pulsehub-api/internal/service"
	"pulsehub-api/pkg/apierror"
	"pulsehub-api/pkg/response"
)

// StockHandler serves the market status and per-ticker endpoints.
type StockHandler struct {
	stocks *service.StockService
}

// NewStockHandler creates a stock handler.
func NewStockHandler(stocks *service.StockService) *StockHandler {
	return &StockHandler{stocks: stocks}
}

// MarketStatus handles GET /api/v1/stocks
func (h *StockHandler) MarketStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.stocks.GetMarketStatus(r.Context())
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}
	response.OK(w, status)
}

// StockDetails handles GET /api/v1/stocks/{ticker}
func (h *StockHandler) StockDetails(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))
	if ticker == "" {
		response.Error(w, apierror.BadRequest("ticker is required"))
		return
	}

	stock, err := h.stocks.GetStockDetails(r.Context(), ticker)
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}
	if stock == nil {
		response.Error(w, apierror.NotFound("stock not found"))
		return
	}
	response.OK(w, stock)
}
