// Package agent defines the claim-type agents that drive petition generation
// and the registry the orchestrator resolves them from.
//
// An agent knows three things about its claim type: which case-data fields
// must be present, how to compute the money fields locally, and how to phrase
// the structured-output instructions for the text-generation backend.
package agent

import (
	"errors"

	"ruraldraft-backend/models"
)

// ErrNotFound is returned by Registry.Get for an unregistered agent type.
var ErrNotFound = errors.New("agent not found")

// Info describes a registered agent.
type Info struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Reference is a court decision found by the search collaborator and offered
// to the backend for selection.
type Reference struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link,omitempty"`
}

// Variables are the values available when building an agent prompt.
type Variables struct {
	ClientName    string
	DocType       string
	Details       string
	INSSAddress   string
	LegalContext  string
	Jurisprudence []Reference
	PaymentTable  []models.PaymentTableRow
}

// Agent is the capability set every claim type implements.
type Agent interface {
	Info() Info

	// RequiredFields lists the case-data fields (by JSON name) that must be
	// non-empty before generation is attempted.
	RequiredFields() []string

	// Validate returns the required fields that are missing or blank. An
	// empty result means the case data is complete.
	Validate(data models.CaseData) []string

	// BuildPrompt returns the structured-output instructions for the backend.
	BuildPrompt(vars Variables) string

	// Schema is the JSON schema the backend reply is checked against.
	Schema() map[string]interface{}
}

// Calculation holds the money fields computed locally by an agent.
type Calculation struct {
	PaymentTable []models.PaymentTableRow
	Total        float64
	TotalInWords string
}

// Calculator is implemented by agents that compute money fields locally.
type Calculator interface {
	Calculate(data models.CaseData) (*Calculation, error)
}

// MissingFields returns the fields of data that are blank.
func MissingFields(data models.CaseData, fields []string) []string {
	var missing []string
	for _, f := range fields {
		if data.Field(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
