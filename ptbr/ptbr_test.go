package ptbr

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyToWords(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "zero reais"},
		{1, "um real"},
		{2, "dois reais"},
		{100, "cem reais"},
		{101, "cento e um reais"},
		{1000, "mil reais"},
		{1001, "mil e um reais"},
		{1100, "mil e cem reais"},
		{2500, "dois mil e quinhentos reais"},
		{6511.02, "seis mil quinhentos e onze reais e dois centavos"},
		{6072.00, "seis mil e setenta e dois reais"},
		{15, "quinze reais"},
		{0.5, "cinquenta centavos"},
		{0.01, "um centavo"},
		{0.004, "zero reais"},
		{1.01, "um real e um centavo"},
		{1_000_000, "um milhão de reais"},
		{2_000_000, "dois milhões de reais"},
		{1_500_000, "um milhão e quinhentos mil reais"},
		{2_345_678, "dois milhões trezentos e quarenta e cinco mil seiscentos e setenta e oito reais"},
		{1_000_000_000, "um bilhão de reais"},
		{3_000_000_001, "três bilhões e um reais"},
		{-10, "menos dez reais"},
		{math.NaN(), "zero reais"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, MoneyToWords(tt.amount))
		})
	}
}

func TestNormalizeCityUF(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"comma separated", "Springfield, IL", "Springfield-IL"},
		{"subdivision boilerplate, last mention wins", "jurisdiction sub-division of Springfield - IL, Capital City - IL", "Capital City-IL"},
		{"city only", "Springfield", "Springfield"},
		{"hyphen", "araguaína-to", "Araguaína-TO"},
		{"space separated code", "Araguaína TO", "Araguaína-TO"},
		{"portuguese boilerplate", "Subseção Judiciária de Araguaína - TO", "Araguaína-TO"},
		{"upper case boilerplate", "SUBSEÇÃO JUDICIÁRIA DE SÃO JOSÉ DO RIO PRETO-SP", "São José Do Rio Preto-SP"},
		{"boilerplate restating city", "Subseção Judiciária de Palmas - TO, abrangendo Porto Nacional - TO", "Porto Nacional-TO"},
		{"boilerplate with connective", "Subseção Judiciária de Imperatriz - MA e Açailândia - MA", "Açailândia-MA"},
		{"lower case boilerplate", "subseção judiciária de araguaína - to", "Araguaína-TO"},
		{"trailing punctuation", " Palmas - TO, ", "Palmas-TO"},
		{"extra whitespace", "  rio   branco ,  ac ", "Rio Branco-AC"},
		{"no code with commas", "Imperatriz, Maranhão", "Imperatriz"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCityUF(tt.raw))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "R$ 1.518,00", FormatMoney(1518))
	assert.Equal(t, "R$ 0,50", FormatMoney(0.5))
	assert.Equal(t, "R$ 6.511,02", FormatMoney(6511.02))
}

func TestDates(t *testing.T) {
	d, err := ParseDate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), d)

	d2, err := ParseDate("10/03/2024")
	require.NoError(t, err)
	assert.Equal(t, d, d2)

	_, err = ParseDate("ontem")
	assert.ErrorIs(t, err, ErrInvalidDate)

	assert.Equal(t, "10 de março de 2024", LongDate(d))
	assert.Equal(t, "10/03/2024", ShortDate(d))
	assert.Equal(t, "10/03/2024", FormatDate("2024-03-10"))
	assert.Equal(t, "10/03/2024", FormatDate("10/03/2024"))
	assert.Equal(t, "...", FormatDate(""))
	assert.Equal(t, "sem data", FormatDate("sem data"))

	assert.Equal(t, "Março", MonthName(time.March))
	assert.Equal(t, "", MonthName(0))
}

func TestAge(t *testing.T) {
	birth := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 33, Age(birth, time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 34, Age(birth, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)))
}

func TestCasing(t *testing.T) {
	assert.Equal(t, "Maria Da Silva", TitleCase("MARIA  da silva"))
	assert.Equal(t, "Agricultora rural", Capitalize("agricultora rural"))
	assert.Equal(t, "", Capitalize(""))
}
