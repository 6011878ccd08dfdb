package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geniusclasses/backend/internal/gate"
	"github.com/geniusclasses/backend/internal/platform/apierr"
)

// GateHandler exposes the staged entry sequence. The client reports raw
// gestures (hold duration, drag distance); the server decides whether the
// gesture advances the stage, so the thresholds cannot be skipped by a
// modified client.
type GateHandler struct {
	registry *gate.Registry
}

func NewGateHandler(registry *gate.Registry) *GateHandler {
	return &GateHandler{registry: registry}
}

type gateStateResponse struct {
	Token    string `json:"token"`
	Stage    int    `json:"stage"`
	Unlocked bool   `json:"unlocked"`
}

// Begin starts a fresh gate session at the first stage.
func (gh *GateHandler) Begin(c *gin.Context) {
	token, m := gh.registry.Begin()
	RespondOK(c, gateStateResponse{Token: token, Stage: m.Stage(), Unlocked: m.Unlocked()})
}

// Gesture applies one press or drag to an existing session.
func (gh *GateHandler) Gesture(c *gin.Context) {
	token := c.Param("token")
	m := gh.registry.Get(token)
	if m == nil {
		RespondError(c, http.StatusNotFound, apierr.CodeUnknownGate,
			errors.New("unknown or expired gate session"))
		return
	}

	var req struct {
		Type   string  `json:"type"`
		HeldMS int64   `json:"heldMs"`
		DeltaY float64 `json:"deltaY"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, errors.New("invalid request body"))
		return
	}

	switch req.Type {
	case "press":
		m.Press(time.Duration(req.HeldMS) * time.Millisecond)
	case "drag":
		m.DragUp(req.DeltaY)
	default:
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest,
			errors.New("gesture type must be press or drag"))
		return
	}

	RespondOK(c, gateStateResponse{Token: token, Stage: m.Stage(), Unlocked: m.Unlocked()})
}
