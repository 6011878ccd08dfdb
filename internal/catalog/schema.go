package catalog

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/geniusclasses/backend/internal/types"
)

type Kind string

const (
	KindTeachers  Kind = "teachers"
	KindMaterials Kind = "materials"
	KindLectures  Kind = "lectures"
	KindResults   Kind = "results"
)

// Asset is the document-side reference to an uploaded blob. URL is the
// publicly dereferenceable address; name and MIME type ride along only for
// kinds whose wire shape surfaces them.
type Asset struct {
	URL      string
	FileName string
	MimeType string
}

const (
	maxImageBytes    = 5 * 1024 * 1024
	maxMaterialBytes = 25 * 1024 * 1024
)

func imageRules() Rules {
	return Rules{
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/jpg"},
		MaxBytes:         maxImageBytes,
	}
}

func thumbnailRules() Rules {
	return Rules{
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/jpg", "image/webp"},
		MaxBytes:         maxImageBytes,
	}
}

func materialRules() Rules {
	return Rules{
		AllowedMimeTypes: []string{
			"application/pdf",
			"application/vnd.ms-powerpoint",
			"application/vnd.openxmlformats-officedocument.presentationml.presentation",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"image/jpeg",
			"image/png",
			"image/jpg",
		},
		MaxBytes: maxMaterialBytes,
	}
}

// Schema binds one record kind into the shared repository pattern: where
// its blobs live, what files it accepts, whether edits are allowed, and how
// to reach the fields the pattern needs to touch. Only Teacher is
// updatable; the other kinds are append/delete-only, as the admin surface
// has always behaved.
type Schema[T any] struct {
	Kind      Kind
	Folder    string
	Rules     Rules
	Updatable bool

	ID         func(*T) uuid.UUID
	SetID      func(*T, uuid.UUID)
	Created    func(*T) time.Time
	SetCreated func(*T, time.Time)
	Asset      func(*T) Asset
	SetAsset   func(*T, Asset)

	// Normalize, when set, is applied to incoming fields before any write.
	Normalize func(*T)
}

func TeacherSchema() Schema[types.Teacher] {
	return Schema[types.Teacher]{
		Kind:       KindTeachers,
		Folder:     "teachers",
		Rules:      imageRules(),
		Updatable:  true,
		ID:         func(t *types.Teacher) uuid.UUID { return t.ID },
		SetID:      func(t *types.Teacher, id uuid.UUID) { t.ID = id },
		Created:    func(t *types.Teacher) time.Time { return t.CreatedAt },
		SetCreated: func(t *types.Teacher, at time.Time) { t.CreatedAt = at },
		Asset:      func(t *types.Teacher) Asset { return Asset{URL: t.PhotoURL} },
		SetAsset:   func(t *types.Teacher, a Asset) { t.PhotoURL = a.URL },
		Normalize: func(t *types.Teacher) {
			t.Classes = dedupe(t.Classes)
			t.Subjects = dedupe(t.Subjects)
		},
	}
}

func MaterialSchema() Schema[types.Material] {
	return Schema[types.Material]{
		Kind:       KindMaterials,
		Folder:     "materials",
		Rules:      materialRules(),
		ID:         func(m *types.Material) uuid.UUID { return m.ID },
		SetID:      func(m *types.Material, id uuid.UUID) { m.ID = id },
		Created:    func(m *types.Material) time.Time { return m.CreatedAt },
		SetCreated: func(m *types.Material, at time.Time) { m.CreatedAt = at },
		Asset: func(m *types.Material) Asset {
			return Asset{URL: m.FileURL, FileName: m.FileName, MimeType: m.FileType}
		},
		SetAsset: func(m *types.Material, a Asset) {
			m.FileURL = a.URL
			m.FileName = a.FileName
			m.FileType = a.MimeType
		},
	}
}

func LectureSchema() Schema[types.Lecture] {
	return Schema[types.Lecture]{
		Kind:       KindLectures,
		Folder:     "lecture-thumbnails",
		Rules:      thumbnailRules(),
		ID:         func(l *types.Lecture) uuid.UUID { return l.ID },
		SetID:      func(l *types.Lecture, id uuid.UUID) { l.ID = id },
		Created:    func(l *types.Lecture) time.Time { return l.CreatedAt },
		SetCreated: func(l *types.Lecture, at time.Time) { l.CreatedAt = at },
		Asset:      func(l *types.Lecture) Asset { return Asset{URL: l.ThumbnailURL} },
		SetAsset:   func(l *types.Lecture, a Asset) { l.ThumbnailURL = a.URL },
	}
}

func ResultSchema() Schema[types.Result] {
	return Schema[types.Result]{
		Kind:       KindResults,
		Folder:     "results",
		Rules:      imageRules(),
		ID:         func(r *types.Result) uuid.UUID { return r.ID },
		SetID:      func(r *types.Result, id uuid.UUID) { r.ID = id },
		Created:    func(r *types.Result) time.Time { return r.CreatedAt },
		SetCreated: func(r *types.Result, at time.Time) { r.CreatedAt = at },
		Asset:      func(r *types.Result) Asset { return Asset{URL: r.PhotoURL} },
		SetAsset:   func(r *types.Result, a Asset) { r.PhotoURL = a.URL },
	}
}

// dedupe enforces set semantics on multi-valued fields: no duplicates,
// order not significant (sorted for stable storage).
func dedupe(in datatypes.JSONSlice[string]) datatypes.JSONSlice[string] {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return datatypes.NewJSONSlice(out)
}
