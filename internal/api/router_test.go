package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradebook/internal/domain/dto"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &mockSettlementService{trades: sampleTrades()}
	r := NewRouter(NewHandler(svc, func() time.Time { return fixedDay }))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trades?date=2025-09-15", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Ensure RequestID middleware injected header
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	var out dto.TradesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.Count != 2 || out.Trades[0].SecurityID != "TCS" {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestNewRouter_ReportRouteAndUnknownPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &mockSettlementService{doc: sampleDocument()}
	r := NewRouter(NewHandler(svc, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/report?date=2025-09-15", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("report: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/aggregate", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d", w.Code)
	}
}
