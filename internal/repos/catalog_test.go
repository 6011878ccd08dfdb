package repos_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geniusclasses/backend/internal/repos"
	"github.com/geniusclasses/backend/internal/repos/testutil"
	"github.com/geniusclasses/backend/internal/types"
)

func newResultRepo(t *testing.T) repos.CatalogRepo[types.Result] {
	t.Helper()
	db := testutil.DB(t)
	return repos.NewCatalogRepo[types.Result](db, testutil.Logger(t), "results")
}

func seedResult(t *testing.T, repo repos.CatalogRepo[types.Result], name string, at time.Time) uuid.UUID {
	t.Helper()
	rec := &types.Result{
		ID:          uuid.New(),
		StudentName: name,
		CreatedAt:   at,
	}
	if err := repo.Create(context.Background(), nil, rec); err != nil {
		t.Fatalf("seed %s: %v", name, err)
	}
	return rec.ID
}

func TestCatalogRepoListNewestFirst(t *testing.T) {
	repo := newResultRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	seedResult(t, repo, "oldest", base)
	seedResult(t, repo, "middle", base.Add(time.Hour))
	seedResult(t, repo, "newest", base.Add(2*time.Hour))

	records, err := repo.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	names := []string{records[0].StudentName, records[1].StudentName, records[2].StudentName}
	if names[0] != "newest" || names[1] != "middle" || names[2] != "oldest" {
		t.Fatalf("wrong order: %v", names)
	}
}

func TestCatalogRepoGetByID(t *testing.T) {
	repo := newResultRepo(t)
	ctx := context.Background()

	id := seedResult(t, repo, "asha", time.Now().UTC())

	rec, err := repo.GetByID(ctx, nil, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.StudentName != "asha" {
		t.Fatalf("expected asha, got %q", rec.StudentName)
	}

	_, err = repo.GetByID(ctx, nil, uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestCatalogRepoReplaceIsFullWrite(t *testing.T) {
	repo := newResultRepo(t)
	ctx := context.Background()

	id := seedResult(t, repo, "before", time.Now().UTC())
	orig, err := repo.GetByID(ctx, nil, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	orig.StudentName = "after"
	orig.Achievement = ""
	if err := repo.Replace(ctx, nil, orig); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repo.GetByID(ctx, nil, id)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.StudentName != "after" {
		t.Fatalf("replace did not persist: %q", got.StudentName)
	}
}

func TestCatalogRepoDeleteMissingRecord(t *testing.T) {
	repo := newResultRepo(t)
	ctx := context.Background()

	id := seedResult(t, repo, "gone", time.Now().UTC())
	if err := repo.Delete(ctx, nil, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err := repo.Delete(ctx, nil, id)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on second delete, got %v", err)
	}
}

func TestCatalogRepoCount(t *testing.T) {
	repo := newResultRepo(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		seedResult(t, repo, "s", time.Now().UTC())
	}
	n, err := repo.Count(ctx, nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4, got %d", n)
	}
}
