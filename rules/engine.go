// Package rules evaluates CEL expressions over claimant facts. It derives the
// statutory processing priorities of a petition locally, so they do not
// depend on the text-generation backend remembering to set them.
package rules

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/cel-go/cel"

	"ruraldraft-backend/models"
	"ruraldraft-backend/ptbr"
)

// Priority rule identifiers, matching the JSON keys of models.Priorities.
const (
	RuleElderly  = "idoso"
	RuleDisabled = "deficiente"
	RuleMinor    = "menor"
)

// Rule is a named boolean CEL expression over the "claimant" fact map.
type Rule struct {
	ID         string
	Expression string
}

// DefaultPriorityRules are the statutory priorities: Lei 10.741/2003 (60+),
// Lei 12.008/2009 (disability) and the ECA (under 18). Age is -1 when the
// birth date is unknown.
var DefaultPriorityRules = []Rule{
	{ID: RuleElderly, Expression: `claimant.age >= 60`},
	{ID: RuleDisabled, Expression: `claimant.disabled == true`},
	{ID: RuleMinor, Expression: `claimant.age >= 0 && claimant.age < 18`},
}

// Engine holds compiled CEL programs. It is safe for concurrent use.
type Engine struct {
	env      *cel.Env
	programs map[string]cel.Program
	mu       sync.RWMutex
}

// NewEngine compiles rules into a new engine.
func NewEngine(rules ...Rule) (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("claimant", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	en := &Engine{
		env:      env,
		programs: make(map[string]cel.Program),
	}
	for _, r := range rules {
		if err := en.Compile(r.ID, r.Expression); err != nil {
			return nil, fmt.Errorf("failed to compile rule %s: %w", r.ID, err)
		}
	}
	return en, nil
}

// NewPriorityEngine returns an engine loaded with DefaultPriorityRules.
func NewPriorityEngine() (*Engine, error) {
	return NewEngine(DefaultPriorityRules...)
}

// Compile compiles expression and stores it under ruleID, replacing any
// previous program with that id.
func (en *Engine) Compile(ruleID, expression string) error {
	ast, issues := en.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("compile error: %w", issues.Err())
	}

	prog, err := en.env.Program(ast,
		cel.EvalOptions(cel.OptTrackState),
		cel.CostLimit(1000000),
	)
	if err != nil {
		return fmt.Errorf("program creation error: %w", err)
	}

	en.mu.Lock()
	en.programs[ruleID] = prog
	en.mu.Unlock()
	return nil
}

// Evaluate runs one rule. Non-boolean results count as false.
func (en *Engine) Evaluate(ruleID string, facts map[string]any) (bool, error) {
	en.mu.RLock()
	prog, ok := en.programs[ruleID]
	en.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("rule %s is not compiled", ruleID)
	}

	out, _, err := prog.Eval(facts)
	if err != nil {
		return false, fmt.Errorf("rule %s: %w", ruleID, err)
	}
	matched, _ := out.Value().(bool)
	return matched, nil
}

// Rules returns the ids of the compiled rules in sorted order.
func (en *Engine) Rules() []string {
	en.mu.RLock()
	defer en.mu.RUnlock()
	ids := make([]string, 0, len(en.programs))
	for id := range en.programs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClaimantFacts builds the fact map the priority rules are written against.
func ClaimantFacts(data models.CaseData, now time.Time) map[string]any {
	age := int64(-1)
	if birth, err := ptbr.ParseDate(data.BirthDate); err == nil {
		age = int64(ptbr.Age(birth, now))
	}
	return map[string]any{
		"claimant": map[string]any{
			"age":      age,
			"disabled": data.Disabled,
		},
	}
}

// Priorities evaluates the three priority rules for data. Rules that are not
// compiled in the engine are reported as false.
func (en *Engine) Priorities(data models.CaseData, now time.Time) (models.Priorities, error) {
	facts := ClaimantFacts(data, now)

	var p models.Priorities
	for id, dst := range map[string]*bool{
		RuleElderly:  &p.Elderly,
		RuleDisabled: &p.Disabled,
		RuleMinor:    &p.Minor,
	} {
		en.mu.RLock()
		_, ok := en.programs[id]
		en.mu.RUnlock()
		if !ok {
			continue
		}
		matched, err := en.Evaluate(id, facts)
		if err != nil {
			return models.Priorities{}, err
		}
		*dst = matched
	}
	return p, nil
}
