package render

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"ruraldraft-backend/models"
	"ruraldraft-backend/ptbr"
)

// ReplaceWord replaces every whole-word, case-insensitive occurrence of
// original in s with corrected. Word boundaries are Unicode-aware, so
// "dus" matches in "dus 12 anos" but not in "produs".
func ReplaceWord(s, original, corrected string) string {
	original = strings.TrimSpace(original)
	if s == "" || original == "" {
		return s
	}
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(original))
	if err != nil {
		return s
	}

	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringIndex(s, -1) {
		if !isBoundary(s, loc[0], loc[1]) {
			continue
		}
		b.WriteString(s[last:loc[0]])
		b.WriteString(corrected)
		last = loc[1]
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

func isBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// ApplyCorrections returns a copy of data with every correction applied to
// the free-text form fields. Corrections that match nothing are ignored.
func ApplyCorrections(data models.CaseData, corrections []models.Correction) models.CaseData {
	out := data
	if len(corrections) == 0 {
		return out
	}
	fields := []*string{
		&out.Nationality,
		&out.MaritalStatus,
		&out.Profession,
		&out.BenefitStatus,
		&out.DecisionReason,
		&out.ActivityBeforeBirth,
		&out.SpecialInsuredPeriod,
		&out.ControversialPoint,
		&out.PreviousBenefit,
		&out.CNISPeriod,
		&out.UrbanLink,
		&out.RuralTasks,
		&out.EvidenceList,
		&out.Details,
	}
	for _, c := range corrections {
		if strings.TrimSpace(c.Corrected) == "" {
			continue
		}
		for _, f := range fields {
			*f = ReplaceWord(*f, c.Original, c.Corrected)
		}
	}
	return out
}

var nameParticles = map[string]bool{
	"da": true, "de": true, "do": true, "das": true, "dos": true, "e": true,
}

// TitleName title-cases a personal name, keeping the Portuguese particles
// (da, de, do, das, dos, e) in lower case: "MARIA DA SILVA" -> "Maria da Silva".
func TitleName(name string) string {
	words := strings.Fields(ptbr.TitleCase(name))
	for i, w := range words {
		if i > 0 && nameParticles[strings.ToLower(w)] {
			words[i] = strings.ToLower(w)
		}
	}
	return strings.Join(words, " ")
}

// titleNames title-cases the claimant and children names of data.
func titleNames(data models.CaseData) models.CaseData {
	out := data
	out.Name = TitleName(data.Name)
	out.ChildName = TitleName(data.ChildName)
	out.Children = make([]models.Child, len(data.Children))
	for i, c := range data.Children {
		c.Name = TitleName(c.Name)
		out.Children[i] = c
	}
	return out
}
