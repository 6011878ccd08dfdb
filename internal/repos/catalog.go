package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geniusclasses/backend/internal/platform/logger"
)

// CatalogRepo is the shared store access pattern behind all four catalog
// kinds. Records are full-document entities: Replace writes every field,
// there are no partial patches at this layer.
type CatalogRepo[T any] interface {
	List(ctx context.Context, tx *gorm.DB) ([]*T, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*T, error)
	Create(ctx context.Context, tx *gorm.DB, rec *T) error
	Replace(ctx context.Context, tx *gorm.DB, rec *T) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type catalogRepo[T any] struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo[T any](db *gorm.DB, baseLog *logger.Logger, kind string) CatalogRepo[T] {
	repoLog := baseLog.With("repo", "CatalogRepo", "kind", kind)
	return &catalogRepo[T]{db: db, log: repoLog}
}

func (r *catalogRepo[T]) List(ctx context.Context, tx *gorm.DB) ([]*T, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*T
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo[T]) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*T, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rec T
	if err := transaction.WithContext(ctx).
		First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *catalogRepo[T]) Create(ctx context.Context, tx *gorm.DB, rec *T) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Create(rec).Error
}

func (r *catalogRepo[T]) Replace(ctx context.Context, tx *gorm.DB, rec *T) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	// Save writes every column of the record, so an edit is always a
	// whole-document replacement.
	return transaction.WithContext(ctx).Save(rec).Error
}

func (r *catalogRepo[T]) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *catalogRepo[T]) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var total int64
	if err := transaction.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
