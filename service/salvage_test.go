package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ruraldraft-backend/models"
)

const bareReply = `{"resumo_fatos":"<p>Fatos</p>","lista_provas":["CAF","ITR"],"prioridades":{"idoso":false,"deficiente":false,"menor":true},"tabela_calculo":[{"competencia":"Março/2024","valor_base":"R$ 1.412,00","valor_reajustado":1700}]}`

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare", bareReply, bareReply},
		{"fenced", "```json\n" + bareReply + "\n```", bareReply},
		{"prose around", "Claro! Segue o JSON:\n" + bareReply + "\nEspero ter ajudado.", bareReply},
		{"fenced with prose", "Resposta:\n```json\n" + bareReply + "\n```\nFim.", bareReply},
		{"no braces", "sem json aqui", "sem json aqui"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.raw))
		})
	}
}

func TestSalvage_WrappedEqualsBare(t *testing.T) {
	want, _, _, ok := salvage(bareReply)
	require.True(t, ok)

	for _, raw := range []string{
		"```json\n" + bareReply + "\n```",
		"Aqui está:\n" + bareReply + "\nObrigado.",
	} {
		got, _, _, ok := salvage(raw)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	assert.Equal(t, "<p>Fatos</p>", want.FactsSummary)
	assert.Equal(t, []string{"CAF", "ITR"}, want.Evidence)
	assert.True(t, want.Priorities.Minor)
	require.Len(t, want.PaymentTable, 1)
	assert.Equal(t, models.Amount("R$ 1.412,00"), want.PaymentTable[0].Base)
}

func TestSalvage_Degraded(t *testing.T) {
	for _, raw := range []string{
		"O modelo não conseguiu responder.",
		"{ quebrado: ",
		"null",
		`["a","b"]`,
	} {
		res, doc, bad, ok := salvage(raw)
		assert.False(t, ok, raw)
		assert.Nil(t, doc)
		assert.Nil(t, bad)
		assert.True(t, res.Unstructured)
		assert.Equal(t, raw, res.FactsSummary)
	}
}

func TestSalvage_BadFieldKeepsTheRest(t *testing.T) {
	res, _, bad, ok := salvage(`{"resumo_fatos":"ok","lista_provas":"não é lista","prioridades":{"idoso":true}}`)
	require.True(t, ok)
	assert.Equal(t, []string{"lista_provas"}, bad)
	assert.Equal(t, "ok", res.FactsSummary)
	assert.True(t, res.Priorities.Elderly)
}

func TestSalvage_RegistrationAlias(t *testing.T) {
	res, _, _, ok := salvage(`{"resumo_fatos":"x","dados_cadastrais":{"name":"Maria Souza"}}`)
	require.True(t, ok)
	require.NotNil(t, res.Registration)
	assert.Equal(t, "Maria Souza", res.Registration.Name)

	res, _, _, ok = salvage(`{"dados_cadastrais":{"name":"A"},"dados_cadastrais_corrigidos":{"name":"B"}}`)
	require.True(t, ok)
	assert.Equal(t, "B", res.Registration.Name)
}

func TestSchemaWarnings(t *testing.T) {
	schema := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"resumo_fatos"},
		"properties": map[string]interface{}{
			"lista_provas": map[string]interface{}{"type": "array"},
		},
	}

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"lista_provas":"x"}`), &doc))
	warnings := schemaWarnings(schema, doc)
	assert.Len(t, warnings, 2)

	var valid map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"resumo_fatos":"ok","lista_provas":[]}`), &valid))
	assert.Empty(t, schemaWarnings(schema, valid))
	assert.Nil(t, schemaWarnings(nil, valid))
}
