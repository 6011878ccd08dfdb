package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Catalog records. JSON keys mirror the public site's wire shape, so the
// existing frontend can consume responses unchanged. Every record carries a
// server-assigned CreatedAt used as the sole (descending) list sort key.

type Teacher struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string                      `gorm:"column:name;not null" json:"name"`
	Qualification string                      `gorm:"column:qualification" json:"qualification"`
	Experience    string                      `gorm:"column:experience" json:"experience"`
	Description   string                      `gorm:"column:description" json:"description"`
	Medium        string                      `gorm:"column:medium" json:"medium"`
	Classes       datatypes.JSONSlice[string] `gorm:"column:classes" json:"classes"`
	Subjects      datatypes.JSONSlice[string] `gorm:"column:subjects" json:"subjects"`
	PhotoURL      string                      `gorm:"column:photo_url" json:"photoURL"`
	CreatedAt     time.Time                   `gorm:"column:created_at;not null;index" json:"createdAt"`
}

func (Teacher) TableName() string { return "teachers" }

type Material struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Subject     string    `gorm:"column:subject" json:"subject"`
	ClassName   string    `gorm:"column:class_name" json:"className"`
	FileURL     string    `gorm:"column:file_url" json:"fileURL"`
	FileName    string    `gorm:"column:file_name" json:"fileName"`
	FileType    string    `gorm:"column:file_type" json:"fileType"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index" json:"createdAt"`
}

func (Material) TableName() string { return "materials" }

type Lecture struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Subject     string    `gorm:"column:subject" json:"subject"`
	ClassName   string    `gorm:"column:class_name" json:"className"`
	// VideoURL is an external link (YouTube etc), never an uploaded blob.
	VideoURL     string    `gorm:"column:video_url" json:"videoURL"`
	ThumbnailURL string    `gorm:"column:thumbnail_url" json:"thumbnailURL"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;index" json:"createdAt"`
}

func (Lecture) TableName() string { return "lectures" }

type Result struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentName string    `gorm:"column:student_name;not null" json:"studentName"`
	ClassName   string    `gorm:"column:class_name" json:"className"`
	Percentage  string    `gorm:"column:percentage" json:"percentage"`
	Year        string    `gorm:"column:year" json:"year"`
	Achievement string    `gorm:"column:achievement" json:"achievement"`
	PhotoURL    string    `gorm:"column:photo_url" json:"photoURL"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index" json:"createdAt"`
}

func (Result) TableName() string { return "results" }
