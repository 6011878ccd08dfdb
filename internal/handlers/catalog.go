package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/geniusclasses/backend/internal/catalog"
	"github.com/geniusclasses/backend/internal/platform/apierr"
)

// formFileInput reads the optional upload out of a multipart form. A
// missing file field is not an error; every catalog kind allows records
// without an asset.
func formFileInput(c *gin.Context, field string) (*catalog.FileInput, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return &catalog.FileInput{
		Meta: catalog.FileMeta{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
		},
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}, nil
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, errors.New("invalid record id"))
		return uuid.Nil, false
	}
	return id, true
}

// formList collects a multi-value form field, additionally splitting each
// value on commas so both repeated fields and a single comma-joined value
// work.
func formList(c *gin.Context, field string) []string {
	var out []string
	for _, raw := range c.PostFormArray(field) {
		for _, part := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(part); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
