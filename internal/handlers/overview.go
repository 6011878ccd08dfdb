package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/geniusclasses/backend/internal/catalog"
	"github.com/geniusclasses/backend/internal/platform/logger"
	"github.com/geniusclasses/backend/internal/types"
)

// OverviewHandler answers the admin dashboard's summary view with record
// counts per catalog, gathered concurrently.
type OverviewHandler struct {
	log       *logger.Logger
	teachers  *catalog.Service[types.Teacher]
	materials *catalog.Service[types.Material]
	lectures  *catalog.Service[types.Lecture]
	results   *catalog.Service[types.Result]
}

func NewOverviewHandler(
	baseLog *logger.Logger,
	teachers *catalog.Service[types.Teacher],
	materials *catalog.Service[types.Material],
	lectures *catalog.Service[types.Lecture],
	results *catalog.Service[types.Result],
) *OverviewHandler {
	return &OverviewHandler{
		log:       baseLog.With("handler", "OverviewHandler"),
		teachers:  teachers,
		materials: materials,
		lectures:  lectures,
		results:   results,
	}
}

func (h *OverviewHandler) Overview(c *gin.Context) {
	var teacherCount, materialCount, lectureCount, resultCount int64

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error { return count(ctx, h.teachers, &teacherCount) })
	g.Go(func() error { return count(ctx, h.materials, &materialCount) })
	g.Go(func() error { return count(ctx, h.lectures, &lectureCount) })
	g.Go(func() error { return count(ctx, h.results, &resultCount) })

	if err := g.Wait(); err != nil {
		RespondAPIError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"teachers":  teacherCount,
		"materials": materialCount,
		"lectures":  lectureCount,
		"results":   resultCount,
	})
}

func count[T any](ctx context.Context, svc *catalog.Service[T], out *int64) error {
	n, err := svc.Count(ctx)
	if err != nil {
		return err
	}
	*out = n
	return nil
}
