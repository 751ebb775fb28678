package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByDocumentID scopes embedding queries to one indexed document.
type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}
