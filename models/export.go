package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentExport is a stored copy of a rendered document.
type DocumentExport struct {
	ID          uuid.UUID `json:"id"`
	DocumentID  uuid.UUID `json:"document_id"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	Checksum    string    `json:"checksum"` // hex BLAKE2b-256 of the stored bytes
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}
