package student

import (
	"time"

	"ilmfund-backend/pkg/registry"

	"gorm.io/gorm"
)

// Document is one uploaded file tied to a profile. Only the type tag
// matters to completeness; duplicates of a type accumulate and the
// scorer asks "present at least once".
type Document struct {
	ID         uint64                `gorm:"primaryKey;column:id" json:"-"`
	DocumentID string                `gorm:"size:32;uniqueIndex:ux_documents_document_id_active" json:"document_id"`
	StudentID  uint64                `gorm:"column:student_id;not null;index" json:"-"`
	Type       registry.DocumentType `gorm:"size:32;not null;index" json:"type"`
	FileName   string                `gorm:"size:255" json:"file_name"`
	URL        string                `gorm:"type:text" json:"url"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Document) TableName() string { return "documents" }
