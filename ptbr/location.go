package ptbr

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const cityChars = `[A-Za-zÀ-ÖØ-öø-ÿ.\s]+`

var (
	boilerplateRe    = regexp.MustCompile(`(?i)subse[cç][aã]?o|subsecao|sub-?division`)
	boilerplateStrip = []*regexp.Regexp{
		regexp.MustCompile(`(?i)subse[cç][aã]?o\s+judici[aá]ri[ao]\s*(de|da|do)?\s*`),
		regexp.MustCompile(`(?i)(jurisdiction\s+)?sub-?division(\s+of(\s+the\s+court)?)?\s*`),
	}
	cityUFAnyRe      = regexp.MustCompile(`(` + cityChars + `)[,\-]\s*([A-Za-z]{2})\b`)
	cityUFTrailingRe = regexp.MustCompile(`(` + cityChars + `)[,\-]\s*([A-Za-z]{2})$`)
	cityUFSpaceRe    = regexp.MustCompile(`(` + cityChars + `)\s+([A-Za-z]{2})$`)
	edgePunctRe      = regexp.MustCompile(`^[,\-\s]+|[,\-\s]+$`)
)

// NormalizeCityUF extracts "City-UF" from noisy free text such as the
// jurisdiction line returned by a search engine or a language model:
//
//	"Subseção Judiciária de Araguaína - TO"  -> "Araguaína-TO"
//	"Springfield, IL"                        -> "Springfield-IL"
//	"Araguaína TO"                           -> "Araguaína-TO"
//	"Springfield"                            -> "Springfield"
//
// When the text names a court subdivision, the last "City - UF" mention wins.
// It never fails; empty input yields "".
func NormalizeCityUF(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return ""
	}

	if boilerplateRe.MatchString(s) {
		for _, re := range boilerplateStrip {
			s = re.ReplaceAllString(s, "")
		}
		if all := cityUFAnyRe.FindAllStringSubmatch(s, -1); len(all) > 0 {
			last := all[len(all)-1]
			return joinCityUF(dropLeadingProse(last[1]), last[2])
		}
	}
	s = edgePunctRe.ReplaceAllString(s, "")

	if m := cityUFTrailingRe.FindStringSubmatch(s); m != nil {
		return joinCityUF(m[1], m[2])
	}
	if m := cityUFSpaceRe.FindStringSubmatch(s); m != nil {
		return joinCityUF(m[1], m[2])
	}

	first, _, _ := strings.Cut(s, ",")
	return titleWords(first)
}

// dropLeadingProse removes lower-case words ("abrangendo", "e") in front of
// a capitalized city name. All-lower-case text is kept as is.
func dropLeadingProse(city string) string {
	words := strings.Fields(city)
	for i, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsLower(r) {
			return strings.Join(words[i:], " ")
		}
	}
	return city
}

func joinCityUF(city, uf string) string {
	return titleWords(city) + "-" + strings.ToUpper(uf)
}

// titleWords title-cases each whitespace separated word, leaving
// punctuation inside words alone.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = Capitalize(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}
