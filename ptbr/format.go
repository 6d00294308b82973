package ptbr

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidDate is returned by ParseDate for text that is not a date.
var ErrInvalidDate = errors.New("invalid date")

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the capitalized month name ("Março").
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// FormatMoney formats v as Brazilian currency: "R$ 1.518,00".
func FormatMoney(v float64) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprintf("R$ %.2f", v)
}

// LongDate formats t as "10 de março de 2024".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), strings.ToLower(MonthName(t.Month())), t.Year())
}

// ShortDate formats t as "10/03/2024".
func ShortDate(t time.Time) string {
	return t.Format("02/01/2006")
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339, "2006-01-02T15:04:05"}

// ParseDate reads ISO dates, Brazilian dd/mm/yyyy dates and RFC 3339
// timestamps. The result is midnight UTC of the civil date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate renders a form date as dd/mm/yyyy. Text already containing "/"
// is returned untouched, empty text becomes "..." and anything unparseable is
// echoed back.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "..."
	}
	if strings.Contains(s, "/") {
		return s
	}
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return ShortDate(t)
}

// Age returns the completed years between birth and now.
func Age(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest ("MARIA DA SILVA" becomes "Maria Da Silva").
func TitleCase(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return cases.Title(language.BrazilianPortuguese).String(s)
}

// Capitalize upper-cases only the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
