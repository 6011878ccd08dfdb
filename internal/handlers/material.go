package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geniusclasses/backend/internal/catalog"
	"github.com/geniusclasses/backend/internal/platform/apierr"
	"github.com/geniusclasses/backend/internal/platform/logger"
	"github.com/geniusclasses/backend/internal/types"
)

type MaterialHandler struct {
	log     *logger.Logger
	service *catalog.Service[types.Material]
}

func NewMaterialHandler(baseLog *logger.Logger, service *catalog.Service[types.Material]) *MaterialHandler {
	return &MaterialHandler{
		log:     baseLog.With("handler", "MaterialHandler"),
		service: service,
	}
}

func (h *MaterialHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, records)
}

func (h *MaterialHandler) Create(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, errors.New("title is required"))
		return
	}
	rec := &types.Material{
		Title:       title,
		Description: c.PostForm("description"),
		Subject:     c.PostForm("subject"),
		ClassName:   c.PostForm("className"),
	}
	file, err := formFileInput(c, "file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	id, err := h.service.Create(c.Request.Context(), rec, file)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *MaterialHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id})
}
