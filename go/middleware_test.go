package kioskserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(RequestLogger(logger))
	var seen string
	router.GET("/v1/menu/:itemId", func(c *gin.Context) {
		seen = RequestID(c)
		c.Status(http.StatusNotFound)
	})

	t.Run("echoes the caller's id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/v1/menu/9", nil)
		req.Header.Set(HeaderRequestID, "screen-42")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "screen-42", rec.Header().Get(HeaderRequestID))
		assert.Equal(t, "screen-42", seen)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "/v1/menu/:itemId", entry["path"])
		assert.EqualValues(t, http.StatusNotFound, entry["status"])
		assert.Equal(t, "screen-42", entry["request_id"])
	})

	t.Run("assigns an id when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/menu/1", nil))

		id := rec.Header().Get(HeaderRequestID)
		assert.Len(t, id, 36)
		assert.Equal(t, id, seen)
	})
}
