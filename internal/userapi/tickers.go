package userapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CreateTickerRequest represents the request body for adding a ticker.
type CreateTickerRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// UpdateTickerRequest carries the optional fields of a partial ticker update.
type UpdateTickerRequest struct {
	Symbol *string `json:"symbol"`
}

// GetTickers handles GET /tickers
// With a ticker_symbol query parameter it returns that ticker
// (case-insensitive); without one it lists all.
func (h *Handler) GetTickers(c *gin.Context) {
	if raw, ok := c.GetQuery("ticker_symbol"); ok {
		symbol := strings.ToLower(raw)

		cached, err := h.cache.Get(c.Request.Context(), symbol)
		if err != nil {
			slog.Warn("Ticker cache lookup failed", "symbol", symbol, "error", err)
		}
		if cached != nil {
			c.JSON(http.StatusOK, gin.H{"ticker": cached})
			return
		}

		ticker, err := h.store.GetTickerBySymbol(c.Request.Context(), symbol)
		if err != nil {
			slog.Error("Failed to fetch ticker", "symbol", symbol, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if ticker == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticker not found", "symbol": symbol})
			return
		}

		if err := h.cache.Set(c.Request.Context(), ticker); err != nil {
			slog.Warn("Failed to cache ticker", "symbol", symbol, "error", err)
		}
		c.JSON(http.StatusOK, gin.H{"ticker": ticker})
		return
	}

	tickers, err := h.store.ListTickers(c.Request.Context())
	if err != nil {
		slog.Error("Failed to fetch tickers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tickers": tickers,
		"count":   len(tickers),
	})
}

// CreateTicker handles POST /tickers
// Lowercases the symbol, rejects duplicates, persists locally, then notifies
// the registry service. If the notification fails the local row is deleted
// again and the request fails with 502, so the two services never diverge on
// a creation.
func (h *Handler) CreateTicker(c *gin.Context) {
	var req CreateTickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Invalid CreateTicker payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	symbol := strings.ToLower(req.Symbol)

	existing, err := h.store.GetTickerBySymbol(c.Request.Context(), symbol)
	if err != nil {
		slog.Error("Failed to check ticker", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "ticker already exists", "symbol": symbol})
		return
	}

	ticker, err := h.store.CreateTicker(c.Request.Context(), symbol)
	if err != nil {
		// The unique index closes the window between check and insert.
		if errors.Is(err, ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "ticker already exists", "symbol": symbol})
			return
		}
		slog.Error("Failed to create ticker", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.registry.NotifyTickerCreated(c.Request.Context(), symbol); err != nil {
		slog.Error("Registry notification failed", "symbol", symbol, "error", err)
		if _, delErr := h.store.DeleteTicker(c.Request.Context(), ticker.ID); delErr != nil {
			slog.Error("Compensating delete failed", "ticker_id", ticker.ID, "error", delErr)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "registry notification failed", "symbol": symbol})
		return
	}

	slog.Info("Ticker created", "ticker_id", ticker.ID, "symbol", ticker.Symbol)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Ticker added successfully",
		"ticker":  ticker,
	})
}

// UpdateTicker handles PUT /tickers
// Case-insensitive lookup followed by a partial update. The registry is not
// re-notified; renames are local to this service.
func (h *Handler) UpdateTicker(c *gin.Context) {
	raw, ok := c.GetQuery("ticker_symbol")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker_symbol is required"})
		return
	}
	symbol := strings.ToLower(raw)

	var req UpdateTickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Invalid UpdateTicker payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticker, err := h.store.GetTickerBySymbol(c.Request.Context(), symbol)
	if err != nil {
		slog.Error("Failed to fetch ticker", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if ticker == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticker not found", "symbol": symbol})
		return
	}

	fields := map[string]any{}
	if req.Symbol != nil {
		fields["symbol"] = strings.ToLower(*req.Symbol)
	}

	updated, err := h.store.UpdateTicker(c.Request.Context(), ticker.ID, fields)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "ticker already exists"})
			return
		}
		slog.Error("Failed to update ticker", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.cache.Invalidate(c.Request.Context(), symbol); err != nil {
		slog.Warn("Failed to invalidate ticker cache", "symbol", symbol, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"ticker": updated})
}

// DeleteTicker handles DELETE /tickers
// Deletes locally only; the registry keeps its copy.
func (h *Handler) DeleteTicker(c *gin.Context) {
	raw, ok := c.GetQuery("ticker_symbol")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker_symbol is required"})
		return
	}
	symbol := strings.ToLower(raw)

	ticker, err := h.store.GetTickerBySymbol(c.Request.Context(), symbol)
	if err != nil {
		slog.Error("Failed to fetch ticker", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if ticker == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticker not found", "symbol": symbol})
		return
	}

	if _, err := h.store.DeleteTicker(c.Request.Context(), ticker.ID); err != nil {
		slog.Error("Failed to delete ticker", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.cache.Invalidate(c.Request.Context(), symbol); err != nil {
		slog.Warn("Failed to invalidate ticker cache", "symbol", symbol, "error", err)
	}

	slog.Info("Ticker deleted", "ticker_id", ticker.ID, "symbol", symbol)
	c.JSON(http.StatusOK, gin.H{"message": "Ticker deleted successfully"})
}
