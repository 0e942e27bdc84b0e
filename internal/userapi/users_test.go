package userapi

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateUser(t *testing.T) {
	_, store, _, router := newTestHandler()

	w := doRequest(t, router, http.MethodPost, "/users", gin.H{"username": "justin"})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "justin", body["username"])
	assert.Len(t, store.users, 1)
}

func TestCreateUserDuplicate(t *testing.T) {
	_, store, _, router := newTestHandler()

	first := doRequest(t, router, http.MethodPost, "/users", gin.H{"username": "justin"})
	assert.Equal(t, http.StatusCreated, first.Code)

	second := doRequest(t, router, http.MethodPost, "/users", gin.H{"username": "justin"})
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Len(t, store.users, 1)
}

func TestGetUserNotFound(t *testing.T) {
	_, _, _, router := newTestHandler()

	w := doRequest(t, router, http.MethodGet, "/users?user_id=99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUsersList(t *testing.T) {
	_, _, _, router := newTestHandler()

	doRequest(t, router, http.MethodPost, "/users", gin.H{"username": "alice"})
	doRequest(t, router, http.MethodPost, "/users", gin.H{"username": "bob"})

	w := doRequest(t, router, http.MethodGet, "/users", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["count"])
}

func TestGetUserInvalidID(t *testing.T) {
	_, _, _, router := newTestHandler()

	w := doRequest(t, router, http.MethodGet, "/users?user_id=abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUserNotFound(t *testing.T) {
	_, store, _, router := newTestHandler()

	w := doRequest(t, router, http.MethodPut, "/users?user_id=42", gin.H{"username": "ghost"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, store.users)
}

func TestUpdateUserPartial(t *testing.T) {
	_, store, _, router := newTestHandler()

	doRequest(t, router, http.MethodPost, "/users", gin.H{"username": "alice"})

	// Empty body leaves the row untouched.
	w := doRequest(t, router, http.MethodPut, "/users?user_id=1", gin.H{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", store.users[1].Username)

	w = doRequest(t, router, http.MethodPut, "/users?user_id=1", gin.H{"username": "alice2"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice2", store.users[1].Username)
}

func TestDeleteUser(t *testing.T) {
	_, store, _, router := newTestHandler()

	doRequest(t, router, http.MethodPost, "/users", gin.H{"username": "alice"})

	w := doRequest(t, router, http.MethodDelete, "/users?user_id=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.users)

	w = doRequest(t, router, http.MethodDelete, "/users?user_id=1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
