package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/geniusclasses/backend/internal/gate"
	"github.com/geniusclasses/backend/internal/platform/logger"
)

func gateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	gh := NewGateHandler(gate.NewRegistry(log))

	r := gin.New()
	r.POST("/api/admin/gate", gh.Begin)
	r.POST("/api/admin/gate/:token/gesture", gh.Gesture)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var payload map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &payload)
	return w, payload
}

func TestGateFlowOverHTTP(t *testing.T) {
	r := gateRouter(t)

	w, payload := postJSON(t, r, "/api/admin/gate", "")
	if w.Code != http.StatusOK {
		t.Fatalf("begin status %d", w.Code)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("no token in begin response")
	}
	if payload["stage"].(float64) != 1 {
		t.Fatalf("start stage %v", payload["stage"])
	}

	// A tap does nothing.
	_, payload = postJSON(t, r, "/api/admin/gate/"+token+"/gesture", `{"type":"press","heldMs":300}`)
	if payload["stage"].(float64) != 1 {
		t.Fatalf("tap advanced to %v", payload["stage"])
	}

	// A held press, then a long upward drag.
	_, payload = postJSON(t, r, "/api/admin/gate/"+token+"/gesture", `{"type":"press","heldMs":2200}`)
	if payload["stage"].(float64) != 2 {
		t.Fatalf("hold reached %v", payload["stage"])
	}
	_, payload = postJSON(t, r, "/api/admin/gate/"+token+"/gesture", `{"type":"drag","deltaY":140}`)
	if payload["stage"].(float64) != 3 {
		t.Fatalf("drag reached %v", payload["stage"])
	}
	if payload["unlocked"] != true {
		t.Fatal("final stage should unlock")
	}

	// Clamped past the final stage.
	_, payload = postJSON(t, r, "/api/admin/gate/"+token+"/gesture", `{"type":"press","heldMs":5000}`)
	if payload["stage"].(float64) != 3 {
		t.Fatalf("stage escaped the clamp: %v", payload["stage"])
	}
}

func TestGateRejectsUnknownSessionAndBadGesture(t *testing.T) {
	r := gateRouter(t)

	w, _ := postJSON(t, r, "/api/admin/gate/does-not-exist/gesture", `{"type":"press","heldMs":2500}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown session status %d", w.Code)
	}

	_, payload := postJSON(t, r, "/api/admin/gate", "")
	token := payload["token"].(string)

	w, _ = postJSON(t, r, "/api/admin/gate/"+token+"/gesture", `{"type":"wiggle"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad gesture status %d", w.Code)
	}
}
