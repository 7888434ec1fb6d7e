package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthAndReady(t *testing.T) {
	h := NewHealthHandler(setupTestDB(t), nil)
	router := setupTestRouter()
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)

	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/health", nil).Code)

	w := doJSON(t, router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
}
