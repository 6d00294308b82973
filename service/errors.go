package service

import (
	"errors"
	"fmt"
	"strings"

	"ruraldraft-backend/agent"
)

// ErrAgentNotFound is returned when the requested agent type is not registered.
var ErrAgentNotFound = agent.ErrNotFound

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrExportNotFound   = errors.New("export not found")
	ErrJobNotFound      = errors.New("generation job not found")
	ErrStorageNotSet    = errors.New("storage not set")
)

// ValidationError lists the required case-data fields that are missing. No
// backend call is made when it is returned.
type ValidationError struct {
	AgentType string
	Missing   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid case data for agent %q: missing %s", e.AgentType, strings.Join(e.Missing, ", "))
}

// GenerationError wraps a failure of the text-generation backend.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (provider %s): %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
