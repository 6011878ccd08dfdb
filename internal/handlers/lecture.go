package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/geniusclasses/backend/internal/catalog"
	"github.com/geniusclasses/backend/internal/platform/apierr"
	"github.com/geniusclasses/backend/internal/platform/logger"
	"github.com/geniusclasses/backend/internal/types"
)

type LectureHandler struct {
	log     *logger.Logger
	service *catalog.Service[types.Lecture]
}

func NewLectureHandler(baseLog *logger.Logger, service *catalog.Service[types.Lecture]) *LectureHandler {
	return &LectureHandler{
		log:     baseLog.With("handler", "LectureHandler"),
		service: service,
	}
}

func (h *LectureHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, records)
}

// Create accepts the lecture fields plus an optional thumbnail upload. The
// video itself is never uploaded; videoURL must be an external link.
func (h *LectureHandler) Create(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, errors.New("title is required"))
		return
	}
	videoURL := c.PostForm("videoURL")
	if videoURL != "" {
		if u, err := url.Parse(videoURL); err != nil || u.Scheme == "" || u.Host == "" {
			RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest,
				errors.New("videoURL must be an absolute URL"))
			return
		}
	}
	rec := &types.Lecture{
		Title:       title,
		Description: c.PostForm("description"),
		Subject:     c.PostForm("subject"),
		ClassName:   c.PostForm("className"),
		VideoURL:    videoURL,
	}
	file, err := formFileInput(c, "thumbnail")
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

func (h *LectureHandler) Delete(c *gin.Context) {
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
