package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geniusclasses/backend/internal/platform/apierr"
	"github.com/geniusclasses/backend/internal/platform/logger"
	"github.com/geniusclasses/backend/internal/repos"
	"github.com/geniusclasses/backend/internal/storage"
)

// Save phases for one in-flight create/update, broadcast to subscribed
// admin clients. A mutation moves idle -> validating -> uploading ->
// persisting -> done, failing out at whichever step breaks. Nothing is
// written to the document store before the upload has fully succeeded, so
// a failure never needs a rollback.
const (
	PhaseIdle       = "idle"
	PhaseValidating = "validating"
	PhaseUploading  = "uploading"
	PhasePersisting = "persisting"
	PhaseDone       = "done"
	PhaseFailed     = "failed"
)

// Events receives save-state, upload-progress and catalog-changed
// notifications. Implemented by the SSE notifier; a no-op sink is fine for
// tests.
type Events interface {
	SaveState(kind, phase string)
	UploadProgress(kind string, ratio float64)
	Changed(kind string)
}

// FileInput is a pending upload as declared by the caller: metadata plus a
// way to open the bytes. Open is called at most once, after validation.
type FileInput struct {
	Meta FileMeta
	Open func() (io.ReadCloser, error)
}

// Service orchestrates one catalog kind against the document store and the
// blob store. The same code runs all four kinds; Schema carries everything
// kind-specific.
type Service[T any] struct {
	db     *gorm.DB
	log    *logger.Logger
	repo   repos.CatalogRepo[T]
	bucket storage.BucketService
	events Events
	schema Schema[T]
}

func NewService[T any](
	db *gorm.DB,
	baseLog *logger.Logger,
	repo repos.CatalogRepo[T],
	bucket storage.BucketService,
	events Events,
	schema Schema[T],
) *Service[T] {
	serviceLog := baseLog.With("service", "CatalogService", "kind", string(schema.Kind))
	return &Service[T]{
		db:     db,
		log:    serviceLog,
		repo:   repo,
		bucket: bucket,
		events: events,
		schema: schema,
	}
}

func (s *Service[T]) Kind() Kind { return s.schema.Kind }

func (s *Service[T]) Updatable() bool { return s.schema.Updatable }

// List returns all records newest-first. The caller renders an empty or
// error state on failure; nothing here panics the surface.
func (s *Service[T]) List(ctx context.Context) ([]*T, error) {
	records, err := s.repo.List(ctx, nil)
	if err != nil {
		s.log.Error("List failed", "error", err)
		return nil, apierr.Persistence(fmt.Errorf("list %s: %w", s.schema.Kind, err))
	}
	return records, nil
}

func (s *Service[T]) Count(ctx context.Context) (int64, error) {
	total, err := s.repo.Count(ctx, nil)
	if err != nil {
		return 0, apierr.Persistence(fmt.Errorf("count %s: %w", s.schema.Kind, err))
	}
	return total, nil
}

// Create validates and uploads the optional file, then writes the document.
// The document write happens strictly after upload success; a validation or
// upload failure leaves both stores untouched.
func (s *Service[T]) Create(ctx context.Context, rec *T, file *FileInput) (uuid.UUID, error) {
	kind := string(s.schema.Kind)

	asset, err := s.stageAsset(ctx, file)
	if err != nil {
		return uuid.Nil, err
	}

	if s.schema.Normalize != nil {
		s.schema.Normalize(rec)
	}
	id := uuid.New()
	s.schema.SetID(rec, id)
	s.schema.SetCreated(rec, time.Now().UTC())
	if asset != nil {
		s.schema.SetAsset(rec, *asset)
	}

	s.events.SaveState(kind, PhasePersisting)
	if err := s.repo.Create(ctx, nil, rec); err != nil {
		s.log.Error("Create failed after upload", "id", id, "error", err)
		s.events.SaveState(kind, PhaseFailed)
		return uuid.Nil, apierr.Persistence(fmt.Errorf("create %s: %w", kind, err))
	}

	s.events.SaveState(kind, PhaseDone)
	s.events.Changed(kind)
	s.log.Info("Record created", "id", id, "has_asset", asset != nil)
	return id, nil
}

// Update replaces every field of an existing record. Supplying no file
// keeps the current asset reference exactly as stored; it is never cleared
// or re-validated. Only updatable kinds accept this operation.
func (s *Service[T]) Update(ctx context.Context, id uuid.UUID, rec *T, file *FileInput) error {
	kind := string(s.schema.Kind)
	if !s.schema.Updatable {
		return apierr.New(http.StatusMethodNotAllowed, apierr.CodeNotUpdatable,
			fmt.Errorf("%s records cannot be edited", kind))
	}

	prev, err := s.repo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound(fmt.Errorf("%s %s not found", kind, id))
		}
		return apierr.Persistence(fmt.Errorf("load %s %s: %w", kind, id, err))
	}

	asset, err := s.stageAsset(ctx, file)
	if err != nil {
		return err
	}

	if s.schema.Normalize != nil {
		s.schema.Normalize(rec)
	}
	s.schema.SetID(rec, id)
	s.schema.SetCreated(rec, s.schema.Created(prev))
	if asset != nil {
		s.schema.SetAsset(rec, *asset)
	} else {
		s.schema.SetAsset(rec, s.schema.Asset(prev))
	}

	s.events.SaveState(kind, PhasePersisting)
	if err := s.repo.Replace(ctx, nil, rec); err != nil {
		s.events.SaveState(kind, PhaseFailed)
		return apierr.Persistence(fmt.Errorf("update %s %s: %w", kind, id, err))
	}

	s.events.SaveState(kind, PhaseDone)
	s.events.Changed(kind)
	s.log.Info("Record updated", "id", id, "replaced_asset", asset != nil)
	return nil
}

// Remove deletes the document first, then makes exactly one attempt to
// delete the referenced blob. A failed blob delete is logged and swallowed:
// an orphaned blob is an accepted cost, a dangling document reference is
// not.
func (s *Service[T]) Remove(ctx context.Context, id uuid.UUID) error {
	kind := string(s.schema.Kind)

	rec, err := s.repo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound(fmt.Errorf("%s %s not found", kind, id))
		}
		return apierr.Persistence(fmt.Errorf("load %s %s: %w", kind, id, err))
	}

	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return apierr.Persistence(fmt.Errorf("delete %s %s: %w", kind, id, err))
	}

	if url := s.schema.Asset(rec).URL; url != "" {
		if err := s.bucket.DeleteByURL(ctx, url); err != nil {
			s.log.Warn("Blob cleanup failed, orphan left behind", "id", id, "url", url, "error", err)
		}
	}

	s.events.Changed(kind)
	s.log.Info("Record removed", "id", id)
	return nil
}

// stageAsset runs the validate-then-upload half of a mutation. A nil file
// yields a nil asset and no store traffic at all.
func (s *Service[T]) stageAsset(ctx context.Context, file *FileInput) (*Asset, error) {
	if file == nil {
		return nil, nil
	}
	kind := string(s.schema.Kind)

	s.events.SaveState(kind, PhaseValidating)
	if err := Validate(file.Meta, s.schema.Rules); err != nil {
		s.events.SaveState(kind, PhaseFailed)
		return nil, err
	}

	s.events.SaveState(kind, PhaseUploading)
	body, err := file.Open()
	if err != nil {
		s.events.SaveState(kind, PhaseFailed)
		return nil, apierr.Upload(fmt.Errorf("open upload: %w", err))
	}
	defer body.Close()

	key := storage.ObjectKey(s.schema.Folder, file.Meta.Name)
	url, err := s.bucket.Upload(ctx, key, body, file.Meta.Size, file.Meta.ContentType, func(sent, total int64) {
		s.events.UploadProgress(kind, progressRatio(sent, total))
	})
	if err != nil {
		s.log.Error("Upload failed", "key", key, "error", err)
		s.events.SaveState(kind, PhaseFailed)
		return nil, apierr.Upload(err)
	}

	return &Asset{URL: url, FileName: file.Meta.Name, MimeType: file.Meta.ContentType}, nil
}

func progressRatio(sent, total int64) float64 {
	if total <= 0 {
		return 0
	}
	r := float64(sent) / float64(total)
	if r > 1 {
		r = 1
	}
	return r
}

// NopEvents discards all notifications.
type NopEvents struct{}

func (NopEvents) SaveState(string, string)       {}
func (NopEvents) UploadProgress(string, float64) {}
func (NopEvents) Changed(string)                 {}
