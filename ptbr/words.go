// Package ptbr holds the Brazilian Portuguese text helpers used when writing
// petitions: amounts in words, currency and date formatting, and the
// city/state normalizer.
package ptbr

import (
	"math"
	"strings"
)

var (
	units    = [...]string{"", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito", "nove"}
	teens    = [...]string{"dez", "onze", "doze", "treze", "quatorze", "quinze", "dezesseis", "dezessete", "dezoito", "dezenove"}
	tens     = [...]string{"", "", "vinte", "trinta", "quarenta", "cinquenta", "sessenta", "setenta", "oitenta", "noventa"}
	hundreds = [...]string{"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos", "seiscentos", "setecentos", "oitocentos", "novecentos"}
)

// upTo999 spells 1..999. Zero yields "".
func upTo999(n int64) string {
	if n <= 0 || n > 999 {
		return ""
	}
	if n == 100 {
		return "cem"
	}

	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hundreds[h])
		n %= 100
	}
	switch {
	case n >= 10 && n <= 19:
		parts = append(parts, teens[n-10])
	case n > 0:
		if t := n / 10; t > 0 {
			parts = append(parts, tens[t])
		}
		if u := n % 10; u > 0 {
			parts = append(parts, units[u])
		}
	}
	return strings.Join(parts, " e ")
}

type group struct {
	value int64
	scale int // 0 units, 1 thousands, 2 millions, 3 billions
}

func (g group) words() string {
	switch g.scale {
	case 1:
		if g.value == 1 {
			return "mil"
		}
		return upTo999(g.value) + " mil"
	case 2:
		if g.value == 1 {
			return "um milhão"
		}
		return upTo999(g.value) + " milhões"
	case 3:
		head := upTo999(g.value)
		if g.value > 999 {
			head = IntegerWords(g.value)
		}
		if g.value == 1 {
			return head + " bilhão"
		}
		return head + " bilhões"
	default:
		return upTo999(g.value)
	}
}

// IntegerWords spells a non-negative integer ("seis mil quinhentos e onze").
// Zero yields "zero".
func IntegerWords(n int64) string {
	if n <= 0 {
		return "zero"
	}

	all := []group{
		{n / 1_000_000_000, 3},
		{(n % 1_000_000_000) / 1_000_000, 2},
		{(n % 1_000_000) / 1_000, 1},
		{n % 1_000, 0},
	}
	var groups []group
	for _, g := range all {
		if g.value > 0 {
			groups = append(groups, g)
		}
	}

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			// "mil e um", "mil e cem", "um milhão e quinhentos mil" but
			// "seis mil quinhentos e onze"
			last := i == len(groups)-1
			if last && (g.value < 100 || g.value%100 == 0) && g.scale <= 1 {
				b.WriteString(" e ")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(g.words())
	}
	return b.String()
}

// MoneyToWords spells an amount in reais and centavos, as written in the
// claim-value clause of a petition. 6511.02 becomes "seis mil quinhentos e
// onze reais e dois centavos". Zero, NaN and infinities yield "zero reais".
func MoneyToWords(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "zero reais"
	}
	prefix := ""
	if amount < 0 {
		prefix = "menos "
		amount = -amount
	}

	cents := int64(math.Round(amount * 100))
	if cents == 0 {
		return "zero reais"
	}
	reais := cents / 100
	cents %= 100

	var b strings.Builder
	b.WriteString(prefix)
	if reais > 0 {
		b.WriteString(IntegerWords(reais))
		switch {
		case reais == 1:
			b.WriteString(" real")
		case reais%1_000_000 == 0:
			b.WriteString(" de reais")
		default:
			b.WriteString(" reais")
		}
	}
	if cents > 0 {
		if reais > 0 {
			b.WriteString(" e ")
		}
		b.WriteString(upTo999(cents))
		if cents == 1 {
			b.WriteString(" centavo")
		} else {
			b.WriteString(" centavos")
		}
	}
	return b.String()
}
