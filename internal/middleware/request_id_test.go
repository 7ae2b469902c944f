package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/multichain-wallet/multichain-wallet/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	var ctxID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = logger.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, ctxID, 32)
	assert.Equal(t, ctxID, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDPreservesUpstreamHeader(t *testing.T) {
	var ctxID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = logger.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "upstream-id", ctxID)
	assert.Equal(t, "upstream-id", rec.Header().Get("X-Request-ID"))
}
