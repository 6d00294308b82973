package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadItem_Headers(t *testing.T) {
	path := writeFile(t, "sumula_149.txt", "Title: Súmula 149 STJ\nCategory: Jurisprudencia\nTags: prova, Rural , testemunhal\n\nA prova exclusivamente testemunhal não basta.\nSegunda linha.\n")

	item, err := readItem(path, "legislacao")
	require.NoError(t, err)
	assert.Equal(t, "Súmula 149 STJ", item.Title)
	assert.Equal(t, "jurisprudencia", item.Category)
	assert.Equal(t, []string{"prova", "rural", "testemunhal"}, item.Tags)
	assert.Equal(t, "A prova exclusivamente testemunhal não basta.\nSegunda linha.", item.Content)
	assert.True(t, item.IsActive)
}

func TestReadItem_Defaults(t *testing.T) {
	path := writeFile(t, "lei_8213_art_39.md", "Art. 39. Para os segurados especiais: fica garantida a concessão.\n")

	item, err := readItem(path, "legislacao")
	require.NoError(t, err)
	assert.Equal(t, "lei 8213 art 39", item.Title)
	assert.Equal(t, "legislacao", item.Category)
	assert.Equal(t, []string{"lei", "8213", "art", "39"}, item.Tags)
	assert.Equal(t, "Art. 39. Para os segurados especiais: fica garantida a concessão.", item.Content)
}

func TestReadItem_Empty(t *testing.T) {
	path := writeFile(t, "vazio.txt", "Title: Vazio\n\n   \n")

	_, err := readItem(path, "legislacao")
	assert.ErrorContains(t, err, "no content")
}
