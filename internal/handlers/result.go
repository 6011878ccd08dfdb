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

type ResultHandler struct {
	log     *logger.Logger
	service *catalog.Service[types.Result]
}

func NewResultHandler(baseLog *logger.Logger, service *catalog.Service[types.Result]) *ResultHandler {
	return &ResultHandler{
		log:     baseLog.With("handler", "ResultHandler"),
		service: service,
	}
}

func (h *ResultHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, records)
}

func (h *ResultHandler) Create(c *gin.Context) {
	studentName := c.PostForm("studentName")
	if studentName == "" {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, errors.New("studentName is required"))
		return
	}
	rec := &types.Result{
		StudentName: studentName,
		ClassName:   c.PostForm("className"),
		Percentage:  c.PostForm("percentage"),
		Year:        c.PostForm("year"),
		Achievement: c.PostForm("achievement"),
	}
	file, err := formFileInput(c, "photo")
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

func (h *ResultHandler) Delete(c *gin.Context) {
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
