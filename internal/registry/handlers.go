package registry

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Storage is the persistence surface the handlers depend on.
type Storage interface {
	CreateTicker(ctx context.Context, symbol string) (*Ticker, error)
	ListTickers(ctx context.Context) ([]Ticker, error)
}

// Compile-time check to ensure Store implements Storage
var _ Storage = (*Store)(nil)

// Handler holds the dependencies for HTTP handlers.
type Handler struct {
	store Storage
}

func NewHandler(store Storage) *Handler {
	return &Handler{store: store}
}

// Register wires the handler's routes into the router.
func (h *Handler) Register(router *gin.Engine) {
	router.GET("/health", h.HealthCheck)
	router.POST("/tickers", h.CreateTicker)
	router.GET("/tickers", h.ListTickers)
}

// CreateTickerRequest represents the request body for registering a ticker.
type CreateTickerRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// CreateTicker handles POST /tickers
// Normalizes the symbol to lowercase and inserts it unconditionally.
func (h *Handler) CreateTicker(c *gin.Context) {
	var req CreateTickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Invalid CreateTicker payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	symbol := strings.ToLower(req.Symbol)

	ticker, err := h.store.CreateTicker(c.Request.Context(), symbol)
	if err != nil {
		slog.Error("Failed to create ticker", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slog.Info("Ticker registered", "ticker_id", ticker.ID, "symbol", ticker.Symbol)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Ticker added successfully",
		"ticker":  ticker,
	})
}

// ListTickers handles GET /tickers
func (h *Handler) ListTickers(c *gin.Context) {
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

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "registry",
	})
}
