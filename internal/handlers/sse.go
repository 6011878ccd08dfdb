package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/geniusclasses/backend/internal/catalog"
	"github.com/geniusclasses/backend/internal/platform/apierr"
	"github.com/geniusclasses/backend/internal/platform/logger"
	"github.com/geniusclasses/backend/internal/sse"
)

type SSEHandler struct {
	log *logger.Logger
	hub *sse.Hub
}

func NewSSEHandler(baseLog *logger.Logger, hub *sse.Hub) *SSEHandler {
	return &SSEHandler{
		log: baseLog.With("handler", "SSEHandler"),
		hub: hub,
	}
}

// Stream opens the event stream. The kinds query parameter selects which
// catalog channels to follow; absent, the client gets all four.
func (h *SSEHandler) Stream(c *gin.Context) {
	kinds := parseKinds(c.Query("kinds"))
	if len(kinds) == 0 {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest,
			errors.New("kinds must name known catalogs"))
		return
	}

	client := h.hub.NewClient()
	for _, kind := range kinds {
		h.hub.AddChannel(client, sse.ChannelFor(kind))
	}
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}

func parseKinds(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{
			string(catalog.KindTeachers),
			string(catalog.KindMaterials),
			string(catalog.KindLectures),
			string(catalog.KindResults),
		}
	}
	var kinds []string
	for _, part := range strings.Split(raw, ",") {
		kind := strings.TrimSpace(part)
		switch catalog.Kind(kind) {
		case catalog.KindTeachers, catalog.KindMaterials, catalog.KindLectures, catalog.KindResults:
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
