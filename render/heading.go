package render

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"ruraldraft-backend/models"
	"ruraldraft-backend/ptbr"
)

// Heading returns the court addressing line. A resolved jurisdiction names
// the court type, the court city and the judicial section; without one the
// normalized "City-UF" of the result is used.
func Heading(j *models.Jurisdiction, cityUF string) template.HTML {
	if j == nil {
		place := ptbr.NormalizeCityUF(cityUF)
		if place == "" {
			place = "competente"
		}
		return template.HTML(fmt.Sprintf(
			"AO JUÍZO FEDERAL DA VARA DO JUIZADO ESPECIAL FEDERAL DA COMARCA DE %s.",
			html.EscapeString(strings.ToUpper(place)),
		))
	}

	court := "VARA FEDERAL"
	if j.HasJEF {
		court = "VARA DO JUIZADO ESPECIAL FEDERAL"
	}
	city := j.CourtCity
	if city == "" {
		city = j.City
	}
	section := strings.ToUpper(j.Section)
	if section == "" {
		section = "SEÇÃO JUDICIÁRIA DO " + strings.ToUpper(j.State)
	}

	out := fmt.Sprintf("AO JUÍZO FEDERAL DA %s DA COMARCA DE %s - %s.",
		court,
		html.EscapeString(strings.ToUpper(city)),
		html.EscapeString(section),
	)
	if j.LegalBasis != "" {
		out += fmt.Sprintf(
			`<br><span style="font-size: 8pt; font-weight: normal; text-transform: none;">(%s)</span>`,
			html.EscapeString(j.LegalBasis),
		)
	}
	return template.HTML(out)
}
