package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/adoperator/internal/log"
)

// TestLogging tests the request log record.
func TestLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(&buf, log.Options{Format: log.FormatJSON, Verbose: true})

	r := gin.New()
	r.Use(requestID(), logging(logger))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("failed to decode log %q: %v", buf.String(), err)
	}
	for _, key := range []string{"request_id", "method", "path", "status", "duration_ms"} {
		if _, ok := record[key]; !ok {
			t.Errorf("missing log field %s", key)
		}
	}
	if record["request_id"] != "req-1" {
		t.Errorf("request_id = %v", record["request_id"])
	}
	if record["status"] != float64(http.StatusNoContent) {
		t.Errorf("status = %v", record["status"])
	}
}
