package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus represents the status of a generated document
type DocumentStatus string

const (
	DocumentStatusGenerated    DocumentStatus = "generated"
	DocumentStatusUnstructured DocumentStatus = "unstructured"
	DocumentStatusExported     DocumentStatus = "exported"
)

// Document is a rendered petition together with the inputs that produced it.
type Document struct {
	ID          uuid.UUID        `json:"id"`
	Code        string           `json:"code"` // DOC-<timestamp>-<suffix> stamped in the HTML
	AgentType   string           `json:"agent_type"`
	DocType     string           `json:"doc_type"`
	Provider    string           `json:"provider"`
	Status      DocumentStatus   `json:"status"`
	ClientName  string           `json:"client_name"`
	CaseData    CaseData         `json:"case_data"`
	Result      StructuredResult `json:"result"`
	HTML        string           `json:"html"`
	GeneratedBy string           `json:"generated_by"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
