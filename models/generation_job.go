package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GenerationJobStatus represents the status of a generation job
type GenerationJobStatus string

const (
	JobStatusPending    GenerationJobStatus = "pending"
	JobStatusInProgress GenerationJobStatus = "in_progress"
	JobStatusCompleted  GenerationJobStatus = "completed"
	JobStatusFailed     GenerationJobStatus = "failed"
)

// Pipeline step names, in execution order.
const (
	StepResolve   = "resolve"
	StepValidate  = "validate"
	StepCalculate = "calculate"
	StepEnrich    = "enrich"
	StepPrompt    = "prompt"
	StepInvoke    = "invoke"
	StepSalvage   = "salvage"
	StepMerge     = "merge"
	StepRender    = "render"
)

// GenerationStep represents a step in the generation process
type GenerationStep struct {
	Name        string `json:"name"`
	Status      string `json:"status"` // "pending", "in_progress", "completed", "failed"
	Description string `json:"description,omitempty"`
}

// GenerationSteps represents a list of generation steps
type GenerationSteps []GenerationStep

// NewPipelineSteps returns every pipeline step in the pending state.
func NewPipelineSteps() GenerationSteps {
	return GenerationSteps{
		{Name: StepResolve, Status: "pending", Description: "Resolving agent"},
		{Name: StepValidate, Status: "pending", Description: "Validating case data"},
		{Name: StepCalculate, Status: "pending", Description: "Computing payment table"},
		{Name: StepEnrich, Status: "pending", Description: "Retrieving reference material"},
		{Name: StepPrompt, Status: "pending", Description: "Building prompt"},
		{Name: StepInvoke, Status: "pending", Description: "Calling text generation backend"},
		{Name: StepSalvage, Status: "pending", Description: "Parsing structured reply"},
		{Name: StepMerge, Status: "pending", Description: "Merging local calculations"},
		{Name: StepRender, Status: "pending", Description: "Rendering document"},
	}
}

// Mark sets the status of the named step and every earlier pending step
// to completed when status is "in_progress".
func (g GenerationSteps) Mark(name, status string) {
	for i := range g {
		if g[i].Name == name {
			g[i].Status = status
			return
		}
		if status == "in_progress" && g[i].Status != "failed" {
			g[i].Status = "completed"
		}
	}
}

// Value implements driver.Valuer for JSONB
func (g GenerationSteps) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Scan implements sql.Scanner for JSONB
func (g *GenerationSteps) Scan(value interface{}) error {
	if value == nil {
		*g = make(GenerationSteps, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*g = make(GenerationSteps, 0)
		return nil
	}

	if len(bytes) == 0 {
		*g = make(GenerationSteps, 0)
		return nil
	}

	return json.Unmarshal(bytes, g)
}

// GenerationJob tracks one run of the generation pipeline.
type GenerationJob struct {
	ID           uuid.UUID           `json:"id"`
	DocumentID   *uuid.UUID          `json:"document_id,omitempty"`
	AgentType    string              `json:"agent_type"`
	Status       GenerationJobStatus `json:"status"`
	CurrentStep  *string             `json:"current_step,omitempty"`
	Steps        GenerationSteps     `json:"steps"`
	ErrorMessage *string             `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
}
