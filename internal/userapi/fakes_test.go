package userapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// fakeStorage is an in-memory Storage used by the handler tests.
type fakeStorage struct {
	users   map[int]*User
	tickers map[int]*Ticker
	alerts  map[int]*Alert
	nextID  int
}

var _ Storage = (*fakeStorage)(nil)

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		users:   make(map[int]*User),
		tickers: make(map[int]*Ticker),
		alerts:  make(map[int]*Alert),
	}
}

func (f *fakeStorage) id() int {
	f.nextID++
	return f.nextID
}

func (f *fakeStorage) CreateUser(_ context.Context, username string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return nil, fmt.Errorf("failed to create user: %w", ErrConflict)
		}
	}
	user := &User{ID: f.id(), Username: username}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeStorage) GetUserByID(_ context.Context, id int) (*User, error) {
	return f.users[id], nil
}

func (f *fakeStorage) ListUsers(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeStorage) UpdateUser(_ context.Context, id int, fields map[string]any) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	if v, ok := fields["username"]; ok {
		user.Username = v.(string)
	}
	return user, nil
}

func (f *fakeStorage) DeleteUser(_ context.Context, id int) (bool, error) {
	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	delete(f.users, id)
	return true, nil
}

func (f *fakeStorage) CreateTicker(_ context.Context, symbol string) (*Ticker, error) {
	for _, t := range f.tickers {
		if t.Symbol == symbol {
			return nil, fmt.Errorf("failed to create ticker: %w", ErrConflict)
		}
	}
	ticker := &Ticker{ID: f.id(), Symbol: symbol}
	f.tickers[ticker.ID] = ticker
	return ticker, nil
}

func (f *fakeStorage) GetTickerBySymbol(_ context.Context, symbol string) (*Ticker, error) {
	for _, t := range f.tickers {
		if t.Symbol == symbol {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeStorage) ListTickers(_ context.Context) ([]Ticker, error) {
	var out []Ticker
	for _, t := range f.tickers {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeStorage) UpdateTicker(_ context.Context, id int, fields map[string]any) (*Ticker, error) {
	ticker, ok := f.tickers[id]
	if !ok {
		return nil, nil
	}
	if v, ok := fields["symbol"]; ok {
		ticker.Symbol = v.(string)
	}
	return ticker, nil
}

func (f *fakeStorage) DeleteTicker(_ context.Context, id int) (bool, error) {
	if _, ok := f.tickers[id]; !ok {
		return false, nil
	}
	delete(f.tickers, id)
	return true, nil
}

func (f *fakeStorage) CreateAlert(_ context.Context, alert *Alert) error {
	alert.ID = f.id()
	f.alerts[alert.ID] = alert
	return nil
}

func (f *fakeStorage) GetAlertByUserAndSymbol(_ context.Context, userID int, symbol string) (*Alert, error) {
	for _, a := range f.alerts {
		t := f.tickers[a.TickerID]
		if a.UserID == userID && t != nil && t.Symbol == symbol {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeStorage) ListAlertsByUser(_ context.Context, userID int) ([]Alert, error) {
	var out []Alert
	for _, a := range f.alerts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStorage) UpdateAlert(_ context.Context, id int, fields map[string]any) (*Alert, error) {
	alert, ok := f.alerts[id]
	if !ok {
		return nil, nil
	}
	if v, ok := fields["rule"]; ok {
		alert.Rule = RuleType(v.(string))
	}
	if v, ok := fields["value"]; ok {
		alert.Value = v.(float64)
	}
	if v, ok := fields["user_id"]; ok {
		alert.UserID = v.(int)
	}
	if v, ok := fields["ticker_id"]; ok {
		alert.TickerID = v.(int)
	}
	return alert, nil
}

func (f *fakeStorage) DeleteAlert(_ context.Context, id int) (bool, error) {
	if _, ok := f.alerts[id]; !ok {
		return false, nil
	}
	delete(f.alerts, id)
	return true, nil
}

// fakeNotifier records registry notifications and can be forced to fail.
type fakeNotifier struct {
	calls []string
	err   error
}

var _ Notifier = (*fakeNotifier)(nil)

func (f *fakeNotifier) NotifyTickerCreated(_ context.Context, symbol string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, symbol)
	return nil
}

func newTestHandler() (*Handler, *fakeStorage, *fakeNotifier, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	store := newFakeStorage()
	notifier := &fakeNotifier{}
	handler := NewHandler(store, nil, notifier)
	router := gin.New()
	handler.Register(router)
	return handler, store, notifier, router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
	return out
}
