package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// fakeStorage is an in-memory Storage used by the handler tests.
type fakeStorage struct {
	tickers []Ticker
	nextID  int
}

var _ Storage = (*fakeStorage)(nil)

func (f *fakeStorage) CreateTicker(_ context.Context, symbol string) (*Ticker, error) {
	f.nextID++
	ticker := Ticker{ID: f.nextID, Symbol: symbol}
	f.tickers = append(f.tickers, ticker)
	return &ticker, nil
}

func (f *fakeStorage) ListTickers(_ context.Context) ([]Ticker, error) {
	return f.tickers, nil
}

func newTestRouter() (*fakeStorage, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	store := &fakeStorage{}
	router := gin.New()
	NewHandler(store).Register(router)
	return store, router
}

func postTicker(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/tickers", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateTickerLowercases(t *testing.T) {
	store, router := newTestRouter()

	w := postTicker(t, router, gin.H{"symbol": "AAPL"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "aapl", store.tickers[0].Symbol)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Ticker added successfully", body["message"])
}

func TestCreateTickerAllowsDuplicates(t *testing.T) {
	store, router := newTestRouter()

	// This service inserts unconditionally: deduplication is the user API's job.
	first := postTicker(t, router, gin.H{"symbol": "aapl"})
	second := postTicker(t, router, gin.H{"symbol": "AAPL"})

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Len(t, store.tickers, 2)
}

func TestCreateTickerMissingSymbol(t *testing.T) {
	_, router := newTestRouter()

	w := postTicker(t, router, gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTickers(t *testing.T) {
	_, router := newTestRouter()

	postTicker(t, router, gin.H{"symbol": "aapl"})
	postTicker(t, router, gin.H{"symbol": "tsla"})

	req := httptest.NewRequest(http.MethodGet, "/tickers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["count"])
}
