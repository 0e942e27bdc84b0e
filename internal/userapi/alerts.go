package userapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CreateAlertRequest represents the request body for creating an alert.
// Only the ticker symbol is mandatory; the rule defaults to fixed_price.
type CreateAlertRequest struct {
	Rule         string  `json:"rule" binding:"omitempty,oneof=fixed_price percentage_change trailing_change"`
	Value        float64 `json:"value"`
	UserID       int     `json:"user_id"`
	TickerSymbol string  `json:"ticker_symbol" binding:"required"`
}

// UpdateAlertRequest carries the optional fields of a partial alert update.
type UpdateAlertRequest struct {
	Rule         *string  `json:"rule" binding:"omitempty,oneof=fixed_price percentage_change trailing_change"`
	Value        *float64 `json:"value"`
	UserID       *int     `json:"user_id"`
	TickerSymbol *string  `json:"ticker_symbol"`
}

// GetAlerts handles GET /alerts
// With user_id and ticker_symbol it returns the one matching alert; with only
// user_id it lists that user's alerts. The branch depends on the presence of
// the ticker_symbol parameter, so user_id=0 still lists correctly.
func (h *Handler) GetAlerts(c *gin.Context) {
	userID, ok := queryInt(c, "user_id")
	if !ok {
		return
	}

	if raw, present := c.GetQuery("ticker_symbol"); present {
		symbol := strings.ToLower(raw)

		alert, err := h.store.GetAlertByUserAndSymbol(c.Request.Context(), userID, symbol)
		if err != nil {
			slog.Error("Failed to fetch alert", "user_id", userID, "symbol", symbol, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if alert == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found", "user_id": userID, "symbol": symbol})
			return
		}

		c.JSON(http.StatusOK, gin.H{"alert": alert})
		return
	}

	alerts, err := h.store.ListAlertsByUser(c.Request.Context(), userID)
	if err != nil {
		slog.Error("Failed to fetch alerts", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// CreateAlert handles POST /alerts
// Resolves the ticker symbol to its id before writing; an unknown symbol
// fails with 404 and creates nothing. User existence is not checked.
func (h *Handler) CreateAlert(c *gin.Context) {
	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Invalid CreateAlert payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	symbol := strings.ToLower(req.TickerSymbol)

	ticker, err := h.store.GetTickerBySymbol(c.Request.Context(), symbol)
	if err != nil {
		slog.Error("Failed to resolve ticker", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if ticker == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticker not found", "symbol": symbol})
		return
	}

	rule := RuleType(req.Rule)
	if rule == "" {
		rule = RuleFixedPrice
	}

	alert := &Alert{
		Rule:     rule,
		Value:    req.Value,
		UserID:   req.UserID,
		TickerID: ticker.ID,
	}
	if err := h.store.CreateAlert(c.Request.Context(), alert); err != nil {
		slog.Error("Failed to create alert", "user_id", req.UserID, "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slog.Info("Alert created", "alert_id", alert.ID, "user_id", alert.UserID, "ticker_id", alert.TickerID)
	c.JSON(http.StatusCreated, gin.H{"alert": alert})
}

// UpdateAlert handles PUT /alerts
// Locates the alert by (user_id, ticker_symbol) and applies the supplied
// fields. A new ticker_symbol is swapped in only when it resolves; an unknown
// one leaves the current ticker unchanged. A missing alert is 404.
func (h *Handler) UpdateAlert(c *gin.Context) {
	userID, ok := queryInt(c, "user_id")
	if !ok {
		return
	}
	raw, ok := c.GetQuery("ticker_symbol")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker_symbol is required"})
		return
	}
	symbol := strings.ToLower(raw)

	var req UpdateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Invalid UpdateAlert payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := h.store.GetAlertByUserAndSymbol(c.Request.Context(), userID, symbol)
	if err != nil {
		slog.Error("Failed to fetch alert", "user_id", userID, "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if alert == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found", "user_id": userID, "symbol": symbol})
		return
	}

	fields := map[string]any{}
	if req.Rule != nil {
		fields["rule"] = *req.Rule
	}
	if req.Value != nil {
		fields["value"] = *req.Value
	}
	if req.UserID != nil {
		fields["user_id"] = *req.UserID
	}
	if req.TickerSymbol != nil {
		newSymbol := strings.ToLower(*req.TickerSymbol)
		ticker, err := h.store.GetTickerBySymbol(c.Request.Context(), newSymbol)
		if err != nil {
			slog.Error("Failed to resolve ticker", "symbol", newSymbol, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if ticker != nil {
			fields["ticker_id"] = ticker.ID
		}
	}

	updated, err := h.store.UpdateAlert(c.Request.Context(), alert.ID, fields)
	if err != nil {
		slog.Error("Failed to update alert", "alert_id", alert.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert": updated})
}

// DeleteAlert handles DELETE /alerts
func (h *Handler) DeleteAlert(c *gin.Context) {
	userID, ok := queryInt(c, "user_id")
	if !ok {
		return
	}
	raw, ok := c.GetQuery("ticker_symbol")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker_symbol is required"})
		return
	}
	symbol := strings.ToLower(raw)

	alert, err := h.store.GetAlertByUserAndSymbol(c.Request.Context(), userID, symbol)
	if err != nil {
		slog.Error("Failed to fetch alert", "user_id", userID, "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if alert == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found", "user_id": userID, "symbol": symbol})
		return
	}

	if _, err := h.store.DeleteAlert(c.Request.Context(), alert.ID); err != nil {
		slog.Error("Failed to delete alert", "alert_id", alert.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slog.Info("Alert deleted", "alert_id", alert.ID, "user_id", userID, "symbol", symbol)
	c.JSON(http.StatusOK, gin.H{"message": "Alert deleted successfully"})
}
