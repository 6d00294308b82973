package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// Benefit is one administrative benefit request filed for a child.
type Benefit struct {
	DER            string `json:"der"`
	NB             string `json:"nb"`
	BenefitStatus  string `json:"benefit_status"`
	DeniedDate     string `json:"denied_date"`
	DecisionReason string `json:"decision_reason"`
}

// Child represents a dependent child of the claimant
type Child struct {
	Name      string    `json:"name"`
	CPF       string    `json:"cpf"`
	BirthDate string    `json:"birth_date"`
	Benefits  []Benefit `json:"benefits,omitempty"`
}

// CaseData represents the claimant record filled in by the form layer.
// Dates are kept as the form sends them (ISO "2006-01-02" or "02/01/2006").
type CaseData struct {
	// Identity
	Name          string `json:"name"`
	Nationality   string `json:"nationality"`
	MaritalStatus string `json:"marital_status"`
	Profession    string `json:"profession"`
	BirthDate     string `json:"birth_date"`
	CPF           string `json:"cpf"`
	RG            string `json:"rg"`
	RGIssuer      string `json:"rg_issuer"`
	Disabled      bool   `json:"disabled,omitempty"`

	// Address
	Address      string `json:"address"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	ZipCode      string `json:"zip_code,omitempty"`

	// Single-child fields kept for older form payloads
	ChildName      string `json:"child_name"`
	ChildCPF       string `json:"child_cpf"`
	ChildBirthDate string `json:"child_birth_date"`

	// Benefit history
	DER            string `json:"der"`
	NB             string `json:"nb"`
	BenefitStatus  string `json:"benefit_status"`
	DeniedDate     string `json:"denied_date"`
	DecisionReason string `json:"decision_reason"`

	// Rural narrative
	ActivityBeforeBirth  string `json:"activity_before_birth"`
	SpecialInsuredPeriod string `json:"special_insured_period"`
	ControversialPoint   string `json:"controversial_point"`
	PreviousBenefit      string `json:"previous_benefit"`
	CNISPeriod           string `json:"cnis_period"`
	UrbanLink            string `json:"urban_link"`
	RuralStartDate       string `json:"rural_start_date"`
	RuralTasks           string `json:"rural_tasks"`
	EvidenceList         string `json:"evidence_list"`

	Details  string  `json:"details,omitempty"`
	Children []Child `json:"children,omitempty"`
}

// Field returns the trimmed value of a form field by its JSON name.
// Child fields fall back to the first entry of Children.
func (c CaseData) Field(name string) string {
	var v string
	switch name {
	case "name":
		v = c.Name
	case "nationality":
		v = c.Nationality
	case "marital_status":
		v = c.MaritalStatus
	case "profession":
		v = c.Profession
	case "birth_date":
		v = c.BirthDate
	case "cpf":
		v = c.CPF
	case "rg":
		v = c.RG
	case "rg_issuer":
		v = c.RGIssuer
	case "address":
		v = c.Address
	case "neighborhood":
		v = c.Neighborhood
	case "city":
		v = c.City
	case "state":
		v = c.State
	case "zip_code":
		v = c.ZipCode
	case "child_name":
		v = c.ChildName
		if strings.TrimSpace(v) == "" && len(c.Children) > 0 {
			v = c.Children[0].Name
		}
	case "child_cpf":
		v = c.ChildCPF
		if strings.TrimSpace(v) == "" && len(c.Children) > 0 {
			v = c.Children[0].CPF
		}
	case "child_birth_date":
		v = c.ChildBirthDate
		if strings.TrimSpace(v) == "" && len(c.Children) > 0 {
			v = c.Children[0].BirthDate
		}
	case "der":
		v = c.DER
	case "nb":
		v = c.NB
	case "benefit_status":
		v = c.BenefitStatus
	case "denied_date":
		v = c.DeniedDate
	case "decision_reason":
		v = c.DecisionReason
	case "activity_before_birth":
		v = c.ActivityBeforeBirth
	case "special_insured_period":
		v = c.SpecialInsuredPeriod
	case "controversial_point":
		v = c.ControversialPoint
	case "previous_benefit":
		v = c.PreviousBenefit
	case "cnis_period":
		v = c.CNISPeriod
	case "urban_link":
		v = c.UrbanLink
	case "rural_start_date":
		v = c.RuralStartDate
	case "rural_tasks":
		v = c.RuralTasks
	case "evidence_list":
		v = c.EvidenceList
	case "details":
		v = c.Details
	}
	return strings.TrimSpace(v)
}

// Value implements driver.Valuer for JSONB
func (c CaseData) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB
func (c *CaseData) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, c)
}

// WithRegistration returns a copy of c with the non-empty corrected fields
// of r applied. Children are merged by position, and only when r carries
// exactly as many children as c.
func (c CaseData) WithRegistration(r *RegistrationCorrections) CaseData {
	out := c
	out.Children = append([]Child(nil), c.Children...)
	if r == nil {
		return out
	}

	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	set(&out.Name, r.Name)
	set(&out.Address, r.Address)
	set(&out.Neighborhood, r.Neighborhood)
	set(&out.City, r.City)
	set(&out.State, r.State)
	set(&out.Profession, r.Profession)

	if len(r.Children) == 0 || len(r.Children) != len(out.Children) {
		return out
	}
	for i, corrected := range r.Children {
		child := out.Children[i]
		set(&child.Name, corrected.Name)
		set(&child.CPF, corrected.CPF)
		set(&child.BirthDate, corrected.BirthDate)
		if len(corrected.Benefits) > 0 {
			child.Benefits = corrected.Benefits
		}
		out.Children[i] = child
	}
	if out.ChildName != "" && len(out.Children) > 0 && r.Children[0].Name != "" {
		out.ChildName = r.Children[0].Name
	}
	return out
}
