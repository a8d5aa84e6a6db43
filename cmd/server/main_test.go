package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-jobdb-automation/internal/auth"
	"go-jobdb-automation/internal/browser"
	"go-jobdb-automation/internal/export"
	"go-jobdb-automation/internal/orchestrator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := browser.NewSessionManager(t.TempDir())
	mailbox := auth.NewCaptchaMailbox()
	orch := orchestrator.New(sessions, auth.NewController(mailbox), true)
	exporter := export.NewExporter(sessions)
	return newRouter(sessions, mailbox, orch, exporter)
}

func TestHealthRouteAllowsCrossOriginCalls(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestCollectPreflightSucceeds(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/collect", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestCollectRejectsMalformedBody(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/collect", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
