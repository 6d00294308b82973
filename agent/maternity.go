package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ruraldraft-backend/models"
	"ruraldraft-backend/ptbr"
	"ruraldraft-backend/salary"
)

// MaternityType is the agent type of the rural maternity-benefit petition.
const MaternityType = "salario_maternidade"

// ErrInvalidBirthDate is returned by Calculate when the child's birth date
// cannot be read.
var ErrInvalidBirthDate = errors.New("invalid child birth date")

var maternityRequired = []string{
	"name",
	"child_name",
	"child_birth_date",
	"address",
	"cpf",
	"rg",
}

// MaternityAgent drafts the initial petition of a maternity benefit for a
// rural special insured (segurada especial).
type MaternityAgent struct {
	table   *salary.Table
	periods int
}

// MaternityOption is a functional option for MaternityAgent
type MaternityOption func(*MaternityAgent)

// MaternityWithTable sets the wage table used by Calculate
func MaternityWithTable(t *salary.Table) MaternityOption {
	return func(a *MaternityAgent) {
		a.table = t
	}
}

// MaternityWithPeriods sets the number of benefit months
func MaternityWithPeriods(n int) MaternityOption {
	return func(a *MaternityAgent) {
		a.periods = n
	}
}

// NewMaternityAgent creates the rural maternity agent
func NewMaternityAgent(opts ...MaternityOption) *MaternityAgent {
	a := &MaternityAgent{periods: salary.DefaultPeriods}
	for _, opt := range opts {
		opt(a)
	}
	if a.table == nil {
		a.table = salary.DefaultTable()
	}
	return a
}

func (a *MaternityAgent) Info() Info {
	return Info{
		Type:        MaternityType,
		Name:        "Salário Maternidade Rural",
		Description: "Ação previdenciária de concessão de salário maternidade para segurada especial (agricultora)",
	}
}

func (a *MaternityAgent) RequiredFields() []string {
	out := make([]string, len(maternityRequired))
	copy(out, maternityRequired)
	return out
}

func (a *MaternityAgent) Validate(data models.CaseData) []string {
	return MissingFields(data, maternityRequired)
}

// Calculate builds the payment table from the child's birth date and sums
// the adjusted column into the claim value.
func (a *MaternityAgent) Calculate(data models.CaseData) (*Calculation, error) {
	raw := data.Field("child_birth_date")
	birth, err := ptbr.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBirthDate, raw)
	}

	rows := a.table.BuildPaymentTable(birth, a.periods)
	_, total := salary.Totals(rows)

	return &Calculation{
		PaymentTable: salary.Models(rows),
		Total:        total,
		TotalInWords: ptbr.MoneyToWords(total),
	}, nil
}

const placeholderPaymentTable = `[
  { "competencia": "1º Mês", "valor_base": 1518.00, "valor_reajustado": 1518.00 },
  { "competencia": "2º Mês", "valor_base": 1518.00, "valor_reajustado": 1518.00 },
  { "competencia": "3º Mês", "valor_base": 1518.00, "valor_reajustado": 1518.00 },
  { "competencia": "4º Mês", "valor_base": 1518.00, "valor_reajustado": 1518.00 }
]`

func (a *MaternityAgent) BuildPrompt(vars Variables) string {
	table := placeholderPaymentTable
	if len(vars.PaymentTable) > 0 {
		if b, err := json.MarshalIndent(vars.PaymentTable, "", "  "); err == nil {
			table = string(b)
		}
	}

	inss, _ := json.Marshal(vars.INSSAddress)

	var b strings.Builder
	b.WriteString(`SAÍDA OBRIGATÓRIA: APENAS JSON VÁLIDO.
Extraia/Gere os dados variáveis para preencher o template de Salário-Maternidade Rural.

{
  "end_cidade_uf": "Cidade-UF da comarca competente (ex: Santarém-PA)",
  "inss_address": `)
	b.Write(inss)
	b.WriteString(`,
  "prioridades": { "idoso": boolean, "deficiente": boolean, "menor": boolean },
  "resumo_fatos": "Narrativa persuasiva (3 parágrafos) descrevendo a lida rural da autora (economia familiar, culturas plantadas), o nascimento da criança e a negativa do INSS. Use tags <b> para destaques.",
  "lista_provas": ["4 a 6 provas documentais específicas baseadas no relato. Não numere."],
  "preliminares": "HTML com TODAS as preliminares. SEMPRE inclua 'DA GRATUIDADE DA JUSTIÇA' (art. 5º LXXIV CF/88, Lei 1.060/50) e outras pedidas nos DETALHES. Formato: <p style='font-weight: bold;'>TÍTULO:</p><p>Texto...</p>",
  "jurisprudencias_selecionadas": [
    { "tribunal": "STF, STJ, TNU ou TRF", "ementa": "Resumo da decisão (máximo 2 linhas)", "referencia": "Título ou número do processo" }
  ],
  "valor_causa_extenso": "valor total por extenso",
  "tabela_calculo": `)
	b.WriteString(table)
	b.WriteString("\n}\n")

	if len(vars.Jurisprudence) > 0 {
		b.WriteString("\nJURISPRUDÊNCIA DISPONÍVEL (selecione as 2-3 mais relevantes):\n")
		for i, j := range vars.Jurisprudence {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, j.Title, j.Snippet)
		}
	}
	return b.String()
}

var amountSchema = map[string]interface{}{
	"type": []interface{}{"number", "string"},
}

func (a *MaternityAgent) Schema() map[string]interface{} {
	str := map[string]interface{}{"type": "string"}
	return map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"required": []interface{}{
			"resumo_fatos",
			"lista_provas",
		},
		"properties": map[string]interface{}{
			"end_cidade_uf": str,
			"inss_address":  str,
			"prioridades": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"idoso":      map[string]interface{}{"type": "boolean"},
					"deficiente": map[string]interface{}{"type": "boolean"},
					"menor":      map[string]interface{}{"type": "boolean"},
				},
			},
			"resumo_fatos": map[string]interface{}{"type": "string", "minLength": 1},
			"lista_provas": map[string]interface{}{
				"type":  "array",
				"items": str,
			},
			"preliminares": str,
			"jurisprudencias_selecionadas": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"tribunal":   str,
						"ementa":     str,
						"referencia": str,
					},
				},
			},
			"valor_causa_extenso": str,
			"tabela_calculo": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"competencia"},
					"properties": map[string]interface{}{
						"competencia":      str,
						"valor_base":       amountSchema,
						"valor_reajustado": amountSchema,
					},
				},
			},
			"dados_tecnicos": map[string]interface{}{"type": "object"},
			"correcoes": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"original", "correto"},
					"properties": map[string]interface{}{
						"original": str,
						"correto":  str,
					},
				},
			},
			"dados_cadastrais_corrigidos": map[string]interface{}{"type": []interface{}{"object", "null"}},
		},
	}
}
