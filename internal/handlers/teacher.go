package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/geniusclasses/backend/internal/catalog"
	"github.com/geniusclasses/backend/internal/platform/apierr"
	"github.com/geniusclasses/backend/internal/platform/logger"
	"github.com/geniusclasses/backend/internal/types"
)

// TeacherHandler serves the faculty catalog. Teachers are the only kind
// that supports in-place editing.
type TeacherHandler struct {
	log     *logger.Logger
	service *catalog.Service[types.Teacher]
}

func NewTeacherHandler(baseLog *logger.Logger, service *catalog.Service[types.Teacher]) *TeacherHandler {
	return &TeacherHandler{
		log:     baseLog.With("handler", "TeacherHandler"),
		service: service,
	}
}

func (h *TeacherHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, records)
}

func (h *TeacherHandler) Create(c *gin.Context) {
	rec, ok := h.bindForm(c)
	if !ok {
		return
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

func (h *TeacherHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, ok := h.bindForm(c)
	if !ok {
		return
	}
	file, err := formFileInput(c, "photo")
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	if err := h.service.Update(c.Request.Context(), id, rec, file); err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id})
}

func (h *TeacherHandler) Delete(c *gin.Context) {
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

func (h *TeacherHandler) bindForm(c *gin.Context) (*types.Teacher, bool) {
	name := c.PostForm("name")
	if name == "" {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, errors.New("name is required"))
		return nil, false
	}
	return &types.Teacher{
		Name:          name,
		Qualification: c.PostForm("qualification"),
		Experience:    c.PostForm("experience"),
		Description:   c.PostForm("description"),
		Medium:        c.PostForm("medium"),
		Classes:       datatypes.NewJSONSlice(formList(c, "classes")),
		Subjects:      datatypes.NewJSONSlice(formList(c, "subjects")),
	}, true
}
