package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ruraldraft-backend/models"
)

var now = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func TestPriorities(t *testing.T) {
	en, err := NewPriorityEngine()
	require.NoError(t, err)

	tests := []struct {
		name string
		data models.CaseData
		want models.Priorities
	}{
		{"adult", models.CaseData{BirthDate: "1995-02-10"}, models.Priorities{}},
		{"turned sixty today", models.CaseData{BirthDate: "1965-06-01"}, models.Priorities{Elderly: true}},
		{"one day short of sixty", models.CaseData{BirthDate: "1965-06-02"}, models.Priorities{}},
		{"minor", models.CaseData{BirthDate: "10/03/2008"}, models.Priorities{Minor: true}},
		{"disabled adult", models.CaseData{BirthDate: "1990-01-01", Disabled: true}, models.Priorities{Disabled: true}},
		{"unknown birth date", models.CaseData{}, models.Priorities{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := en.Priorities(tt.data, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileError(t *testing.T) {
	_, err := NewEngine(Rule{ID: "broken", Expression: "claimant.age >="})
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	en, err := NewEngine(Rule{ID: "rural", Expression: `claimant.age > 20 && claimant.disabled == false`})
	require.NoError(t, err)
	assert.Equal(t, []string{"rural"}, en.Rules())

	ok, err := en.Evaluate("rural", ClaimantFacts(models.CaseData{BirthDate: "1990-01-01"}, now))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = en.Evaluate("missing", nil)
	assert.Error(t, err)

	// rules absent from the engine are simply false
	p, err := en.Priorities(models.CaseData{BirthDate: "1950-01-01"}, now)
	require.NoError(t, err)
	assert.Equal(t, models.Priorities{}, p)
}

func TestNonBooleanRuleIsFalse(t *testing.T) {
	en, err := NewEngine(Rule{ID: "age", Expression: `claimant.age`})
	require.NoError(t, err)

	ok, err := en.Evaluate("age", ClaimantFacts(models.CaseData{BirthDate: "1990-01-01"}, now))
	require.NoError(t, err)
	assert.False(t, ok)
}
