package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned when a money value cannot be read as a number.
var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a money value as it travels through JSON. Backends send it either
// as a number (1518.5) or as a pre-formatted string ("R$ 1.518,50"), so the
// raw text is kept and parsed on demand.
type Amount string

// NewAmount formats f with two decimals.
func NewAmount(f float64) Amount {
	return Amount(strconv.FormatFloat(f, 'f', 2, 64))
}

// Float parses the amount. Both "1518.50" and "R$ 1.518,50" are accepted.
func (a Amount) Float() (float64, error) {
	return ParseAmount(string(a))
}

// ParseAmount reads a number written either in plain decimal notation or in
// the pt-BR currency format.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.Join(strings.Fields(s), "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if strings.Count(s, ".") > 1 {
		// "1.518.000" thousands separators only
		s = strings.ReplaceAll(s, ".", "")
	}
	f, err := parseFinite(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return f, nil
}

// parseFinite rejects NaN and infinities, which strconv accepts.
func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidAmount
	}
	return f, nil
}

// isJSONNumber reports whether s can be written verbatim as a JSON number.
func isJSONNumber(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	if _, err := parseFinite(s); err != nil {
		return false
	}
	return json.Valid([]byte(s))
}

// MarshalJSON emits a JSON number when the amount is numeric, a string otherwise.
func (a Amount) MarshalJSON() ([]byte, error) {
	if isJSONNumber(string(a)) {
		return []byte(a), nil
	}
	return json.Marshal(string(a))
}

// UnmarshalJSON accepts numbers, strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*a = ""
		return nil
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	default:
		if _, err := parseFinite(trimmed); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAmount, trimmed)
		}
		*a = Amount(trimmed)
		return nil
	}
}

// PaymentTableRow is one month of the benefit payment schedule.
type PaymentTableRow struct {
	Period   string `json:"competencia"`
	Base     Amount `json:"valor_base"`
	Adjusted Amount `json:"valor_reajustado"`
}

// Priorities are the statutory processing priorities checked on the petition.
type Priorities struct {
	Elderly  bool `json:"idoso"`
	Disabled bool `json:"deficiente"`
	Minor    bool `json:"menor"`
}

// Precedent is a court decision cited in the petition.
type Precedent struct {
	Court     string `json:"tribunal"`
	Summary   string `json:"ementa"`
	Reference string `json:"referencia"`
}

// TechnicalData holds the reviewer's formalized rewrite of free-text form fields.
type TechnicalData struct {
	DenialReason        string `json:"motivo_indeferimento,omitempty"`
	ActivityTime        string `json:"tempo_atividade,omitempty"`
	DeclaredRuralPeriod string `json:"periodo_rural_declarado,omitempty"`
	ControversialPoint  string `json:"ponto_controvertido,omitempty"`
	PreviousBenefit     string `json:"beneficio_anterior,omitempty"`
	CNISRecorded        string `json:"cnis_averbado,omitempty"`
	UrbanLink           string `json:"vinculo_urbano,omitempty"`
	FormattedProfession string `json:"profissao_formatada,omitempty"`
}

// Correction is a single textual substitution declared by the backend.
type Correction struct {
	Original  string `json:"original"`
	Corrected string `json:"correto"`
}

// RegistrationCorrections carries corrected registration fields. Empty values
// mean "no correction".
type RegistrationCorrections struct {
	Name         string  `json:"name,omitempty"`
	Address      string  `json:"address,omitempty"`
	Neighborhood string  `json:"neighborhood,omitempty"`
	City         string  `json:"city,omitempty"`
	State        string  `json:"state,omitempty"`
	Profession   string  `json:"profession,omitempty"`
	Children     []Child `json:"children,omitempty"`
}

// Jurisdiction is the federal court subsection competent for the claimant's city.
type Jurisdiction struct {
	City       string `json:"city"`
	State      string `json:"state"`
	Subsection string `json:"subsection,omitempty"`
	CourtCity  string `json:"court_city,omitempty"`
	Section    string `json:"section,omitempty"`
	HasJEF     bool   `json:"has_jef"`
	LegalBasis string `json:"legal_basis,omitempty"`
}

// StructuredResult is the salvaged backend reply merged with the locally
// computed money fields. Money fields (PaymentTable, ClaimValue,
// ClaimValueInWords) are always the local ones when local ones exist.
type StructuredResult struct {
	CityUF            string                   `json:"end_cidade_uf,omitempty"`
	INSSAddress       string                   `json:"inss_address,omitempty"`
	Priorities        Priorities               `json:"prioridades"`
	FactsSummary      string                   `json:"resumo_fatos,omitempty"`
	Evidence          []string                 `json:"lista_provas,omitempty"`
	Preliminaries     string                   `json:"preliminares,omitempty"`
	Precedents        []Precedent              `json:"jurisprudencias_selecionadas,omitempty"`
	ClaimValue        Amount                   `json:"valor_causa,omitempty"`
	ClaimValueInWords string                   `json:"valor_causa_extenso,omitempty"`
	PaymentTable      []PaymentTableRow        `json:"tabela_calculo,omitempty"`
	TechnicalData     *TechnicalData           `json:"dados_tecnicos,omitempty"`
	Corrections       []Correction             `json:"correcoes,omitempty"`
	Registration      *RegistrationCorrections `json:"dados_cadastrais_corrigidos,omitempty"`
	Jurisdiction      *Jurisdiction            `json:"jurisdiction,omitempty"`
	Unstructured      bool                     `json:"erro_parse,omitempty"`
	SchemaWarnings    []string                 `json:"schema_warnings,omitempty"`
}

// Value implements driver.Valuer for JSONB
func (r StructuredResult) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *StructuredResult) Scan(value interface{}) error {
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
	return json.Unmarshal(bytes, r)
}
