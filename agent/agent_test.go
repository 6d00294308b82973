package agent

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ruraldraft-backend/internal/logger"
	"ruraldraft-backend/models"
	"ruraldraft-backend/salary"
)

func completeCase() models.CaseData {
	return models.CaseData{
		Name:           "Maria da Silva",
		ChildName:      "João",
		ChildBirthDate: "2024-03-10",
		Address:        "Sítio Boa Esperança, zona rural",
		CPF:            "123.456.789-00",
		RG:             "1234567",
	}
}

func testAgent() *MaternityAgent {
	clock := salary.WithClock(func() time.Time { return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC) })
	return NewMaternityAgent(MaternityWithTable(salary.DefaultTable(clock)))
}

func TestMaternityValidate(t *testing.T) {
	a := testAgent()

	assert.Empty(t, a.Validate(completeCase()))

	data := completeCase()
	data.RG = "   "
	data.ChildName = ""
	assert.Equal(t, []string{"child_name", "rg"}, a.Validate(data))

	// child fields may come from the children list
	data = completeCase()
	data.ChildName, data.ChildBirthDate = "", ""
	data.Children = []models.Child{{Name: "Ana", BirthDate: "2024-01-05"}}
	assert.Empty(t, a.Validate(data))

	assert.Len(t, a.Validate(models.CaseData{}), len(a.RequiredFields()))
}

func TestMaternityCalculate(t *testing.T) {
	a := testAgent()

	calc, err := a.Calculate(completeCase())
	require.NoError(t, err)
	require.Len(t, calc.PaymentTable, 4)
	assert.Equal(t, "Março/2024", calc.PaymentTable[0].Period)
	assert.Equal(t, "Junho/2024", calc.PaymentTable[3].Period)
	assert.EqualValues(t, "1412.00", calc.PaymentTable[0].Base)

	var sum float64
	for _, row := range calc.PaymentTable {
		v, err := row.Adjusted.Float()
		require.NoError(t, err)
		sum += v
	}
	assert.InDelta(t, sum, calc.Total, 0.001)
	assert.True(t, strings.HasSuffix(calc.TotalInWords, "centavos") || strings.HasSuffix(calc.TotalInWords, "reais"))

	data := completeCase()
	data.ChildBirthDate = "ontem"
	_, err = a.Calculate(data)
	assert.ErrorIs(t, err, ErrInvalidBirthDate)
}

func TestMaternityBuildPrompt(t *testing.T) {
	a := testAgent()

	prompt := a.BuildPrompt(Variables{INSSAddress: `Agência "Centro"`})
	assert.Contains(t, prompt, `"inss_address": "Agência \"Centro\""`)
	assert.Contains(t, prompt, "1º Mês")
	assert.NotContains(t, prompt, "JURISPRUDÊNCIA DISPONÍVEL")

	calc, err := a.Calculate(completeCase())
	require.NoError(t, err)
	prompt = a.BuildPrompt(Variables{
		PaymentTable:  calc.PaymentTable,
		Jurisprudence: []Reference{{Title: "TNU Tema 1", Snippet: "segurada especial"}},
	})
	assert.Contains(t, prompt, "Março/2024")
	assert.NotContains(t, prompt, "1º Mês")
	assert.Contains(t, prompt, "1. TNU Tema 1\n   segurada especial")
}

func TestMaternitySchemaIsJSON(t *testing.T) {
	b, err := json.Marshal(testAgent().Schema())
	require.NoError(t, err)
	assert.Contains(t, string(b), `"tabela_calculo"`)
}

func TestFillTemplate(t *testing.T) {
	out := FillTemplate("{{client_name}} / {{doc_type}} / {{case_details}} / {{legal_context}} / {{other}}", Variables{
		ClientName:   "Maria",
		DocType:      "Petição Inicial",
		Details:      "trabalha na roça",
		LegalContext: "Lei 8.213/91",
	})
	assert.Equal(t, "Maria / Petição Inicial / trabalha na roça / Lei 8.213/91 / {{other}}", out)
}

func TestDefaultTemplate(t *testing.T) {
	assert.Contains(t, DefaultTemplate("Petição Inicial"), "PETIÇÃO INICIAL")
	assert.Contains(t, DefaultTemplate("Ação previdenciária"), "PETIÇÃO INICIAL")
	assert.Contains(t, DefaultTemplate("Recurso Inominado"), "ESTRATÉGIA RECURSAL")
	assert.Contains(t, DefaultTemplate("Réplica"), "RÉPLICA À CONTESTAÇÃO")
	assert.Contains(t, DefaultTemplate("Memoriais"), `Redigir "{{doc_type}}"`)
}

func TestBuildFullPrompt(t *testing.T) {
	a := testAgent()
	vars := Variables{ClientName: "Maria", Details: "dus 12 anos na roça"}

	withDetails := BuildFullPrompt(a, "Cliente {{client_name}}: {{case_details}}", vars)
	assert.True(t, strings.HasPrefix(withDetails, "Cliente Maria: dus 12 anos na roça"))
	assert.Contains(t, withDetails, "REVISOR JURÍDICO SÊNIOR")
	assert.NotContains(t, withDetails, "DADOS BRUTOS")

	withoutDetails := BuildFullPrompt(a, "Cliente {{client_name}}", vars)
	assert.True(t, strings.HasSuffix(withoutDetails, "--- DADOS BRUTOS (PARA CORREÇÃO) ---\ndus 12 anos na roça"))
}

func TestRegistry(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reg := NewRegistry(RegistryWithLogger(logger.NewZapAdapter(zap.New(core))))

	reg.Register(testAgent())
	assert.True(t, reg.Has(MaternityType))
	assert.Equal(t, 1, reg.Count())
	assert.Equal(t, 0, logs.FilterLevelExact(zapcore.WarnLevel).Len())

	// re-registration replaces and warns
	replacement := testAgent()
	reg.Register(replacement)
	assert.Equal(t, 1, reg.Count())
	assert.Equal(t, 1, logs.FilterMessage("agent already registered, overwriting").Len())

	got, err := reg.Get(MaternityType)
	require.NoError(t, err)
	assert.Same(t, replacement, got)

	_, err = reg.Get("aposentadoria")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, logs.FilterMessage("agent not found").Len())

	assert.Equal(t, []Info{testAgent().Info()}, reg.Infos())
	assert.True(t, reg.Unregister(MaternityType))
	assert.False(t, reg.Unregister(MaternityType))
	assert.Empty(t, reg.Types())
}
