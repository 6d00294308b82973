package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"ruraldraft-backend/models"
)

// extractJSON strips code fences and keeps the text between the first '{'
// and the last '}'. It is a heuristic: a brace inside a string value can
// still mis-delimit the object.
func extractJSON(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return s
	}
	return s[first : last+1]
}

// salvage parses a backend reply into a StructuredResult. Keys are decoded
// one by one so a single malformed field does not discard the rest; the
// names of the fields that failed are returned. ok is false when the reply
// holds no JSON object at all.
func salvage(raw string) (res *models.StructuredResult, doc map[string]interface{}, badFields []string, ok bool) {
	cleaned := extractJSON(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil || fields == nil {
		return degraded(raw), nil, nil, false
	}
	_ = json.Unmarshal([]byte(cleaned), &doc)

	res = &models.StructuredResult{}
	targets := map[string]interface{}{
		"end_cidade_uf":                &res.CityUF,
		"inss_address":                 &res.INSSAddress,
		"prioridades":                  &res.Priorities,
		"resumo_fatos":                 &res.FactsSummary,
		"lista_provas":                 &res.Evidence,
		"preliminares":                 &res.Preliminaries,
		"jurisprudencias_selecionadas": &res.Precedents,
		"valor_causa":                  &res.ClaimValue,
		"valor_causa_extenso":          &res.ClaimValueInWords,
		"tabela_calculo":               &res.PaymentTable,
		"dados_tecnicos":               &res.TechnicalData,
		"correcoes":                    &res.Corrections,
		"dados_cadastrais_corrigidos":  &res.Registration,
		"jurisdiction":                 &res.Jurisdiction,
	}
	if _, ok := fields["dados_cadastrais_corrigidos"]; !ok {
		if alias, ok := fields["dados_cadastrais"]; ok {
			fields["dados_cadastrais_corrigidos"] = alias
		}
	}

	for key, dst := range targets {
		data, present := fields[key]
		if !present {
			continue
		}
		if err := json.Unmarshal(data, dst); err != nil {
			badFields = append(badFields, key)
		}
	}
	sort.Strings(badFields)
	return res, doc, badFields, true
}

func degraded(raw string) *models.StructuredResult {
	return &models.StructuredResult{
		FactsSummary: raw,
		Unstructured: true,
	}
}

// schemaWarnings checks doc against schema and returns one line per
// violation.
func schemaWarnings(schema map[string]interface{}, doc map[string]interface{}) []string {
	if schema == nil || doc == nil {
		return nil
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return []string{fmt.Sprintf("schema check failed: %v", err)}
	}
	if result.Valid() {
		return nil
	}
	warnings := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		warnings = append(warnings, e.String())
	}
	return warnings
}
