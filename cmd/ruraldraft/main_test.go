package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := clock
	clock = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { clock = prev })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTableCmd(t *testing.T) {
	out, err := execute(t, "table", "--start", "10/03/2024")
	require.NoError(t, err)

	assert.Contains(t, out, "Março/2024")
	assert.Contains(t, out, "Junho/2024")
	assert.Contains(t, out, "R$ 1.412,00")
	assert.Contains(t, out, "R$ 5.648,00")
	assert.Contains(t, out, "reais")
}

func TestTableCmd_JSON(t *testing.T) {
	out, err := execute(t, "table", "--start", "2024-03-10", "--periods", "2", "--json")
	require.NoError(t, err)

	var data struct {
		Rows []struct {
			Period string `json:"competencia"`
		} `json:"rows"`
		TotalBase float64 `json:"total_base"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "Abril/2024", data.Rows[1].Period)
	assert.Equal(t, 2824.0, data.TotalBase)
}

func TestTableCmd_Errors(t *testing.T) {
	_, err := execute(t, "table")
	assert.Error(t, err)

	_, err = execute(t, "table", "--start", "ontem")
	assert.ErrorContains(t, err, "invalid --start")
}

func TestWordsCmd(t *testing.T) {
	out, err := execute(t, "words", "R$ 2.500,00")
	require.NoError(t, err)
	assert.Equal(t, "dois mil e quinhentos reais\n", out)

	_, err = execute(t, "words", "abc")
	assert.Error(t, err)
}

func TestCityCmd(t *testing.T) {
	out, err := execute(t, "city", "araguaína-to")
	require.NoError(t, err)
	assert.Equal(t, "Araguaína-TO\n", out)

	out, err = execute(t, "city", "Subseção", "Judiciária", "de", "Palmas", "-", "TO")
	require.NoError(t, err)
	assert.Equal(t, "Palmas-TO\n", out)

	_, err = execute(t, "city", "   ")
	assert.ErrorContains(t, err, "no location found")
}

func TestRenderCmd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "caso.json")
	require.NoError(t, os.WriteFile(input, []byte(`{
		"case_data": {
			"name": "maria da silva",
			"birth_date": "1998-04-02",
			"city": "Santarém",
			"state": "PA",
			"child_name": "joão da silva",
			"child_birth_date": "2024-03-10"
		},
		"signers": [{"full_name": "Ana Souza", "oab": "PA 12.345"}]
	}`), 0o644))

	out, err := execute(t, "render", "--input", input)
	require.NoError(t, err)
	assert.Contains(t, out, "MARIA DA SILVA")
	assert.Contains(t, out, "Junho/2024")
	assert.Contains(t, out, "ANA SOUZA")
	assert.Contains(t, out, "Santarém-PA, 1 de junho de 2025")

	html := filepath.Join(dir, "peticao.html")
	out, err = execute(t, "render", "-i", input, "-o", html)
	require.NoError(t, err)
	assert.Contains(t, out, "peticao.html written")
	written, err := os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(written), "MARIA DA SILVA")
}

func TestRenderCmd_UnknownAgent(t *testing.T) {
	input := filepath.Join(t.TempDir(), "caso.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"agent_type": "aposentadoria"}`), 0o644))

	_, err := execute(t, "render", "--input", input)
	assert.Error(t, err)
}
