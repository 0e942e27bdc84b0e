package userapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Storage is the persistence surface the handlers depend on.
type Storage interface {
	CreateUser(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id int) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id int, fields map[string]any) (*User, error)
	DeleteUser(ctx context.Context, id int) (bool, error)

	CreateTicker(ctx context.Context, symbol string) (*Ticker, error)
	GetTickerBySymbol(ctx context.Context, symbol string) (*Ticker, error)
	ListTickers(ctx context.Context) ([]Ticker, error)
	UpdateTicker(ctx context.Context, id int, fields map[string]any) (*Ticker, error)
	DeleteTicker(ctx context.Context, id int) (bool, error)

	CreateAlert(ctx context.Context, alert *Alert) error
	GetAlertByUserAndSymbol(ctx context.Context, userID int, symbol string) (*Alert, error)
	ListAlertsByUser(ctx context.Context, userID int) ([]Alert, error)
	UpdateAlert(ctx context.Context, id int, fields map[string]any) (*Alert, error)
	DeleteAlert(ctx context.Context, id int) (bool, error)
}

// Compile-time check to ensure Store implements Storage
var _ Storage = (*Store)(nil)

// Handler holds the dependencies for HTTP handlers.
type Handler struct {
	store    Storage
	cache    *TickerCache
	registry Notifier
}

// NewHandler creates a new Handler with the given dependencies.
// cache may be nil when the ticker cache is disabled.
func NewHandler(store Storage, cache *TickerCache, registry Notifier) *Handler {
	return &Handler{
		store:    store,
		cache:    cache,
		registry: registry,
	}
}

// Register wires the handler's routes into the router.
func (h *Handler) Register(router *gin.Engine) {
	router.GET("/health", h.HealthCheck)

	router.GET("/users", h.GetUsers)
	router.POST("/users", h.CreateUser)
	router.PUT("/users", h.UpdateUser)
	router.DELETE("/users", h.DeleteUser)

	router.GET("/tickers", h.GetTickers)
	router.POST("/tickers", h.CreateTicker)
	router.PUT("/tickers", h.UpdateTicker)
	router.DELETE("/tickers", h.DeleteTicker)

	router.GET("/alerts", h.GetAlerts)
	router.POST("/alerts", h.CreateAlert)
	router.PUT("/alerts", h.UpdateAlert)
	router.DELETE("/alerts", h.DeleteAlert)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "userapi",
	})
}

// queryInt parses a required integer query parameter. It writes a 400
// response and returns false when the parameter is missing or malformed.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return val, true
}
