package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"ruraldraft-backend/models"
	"ruraldraft-backend/ptbr"
)

type synopsisRow struct {
	Label string
	Value string
}

type tableRow struct {
	Period   string
	Base     string
	Adjusted string
}

// view is the data the petition templates are executed against.
type view struct {
	Office        *models.Office
	Heading       template.HTML
	Priorities    models.Priorities
	Client        models.CaseData
	Profession    string
	Age           string
	Email         string
	INSSAddress   string
	Preliminaries template.HTML
	Synopsis      []synopsisRow
	Facts         template.HTML
	ChildName     string
	Evidence      []string
	Precedents    []models.Precedent
	Total         string
	TotalInWords  string
	Rows          []tableRow
	Closing       string
	Signers       []models.Signer
	DocumentID    string
	GeneratedBy   string
	GeneratedAt   string

	total float64
}

func (r *Renderer) view(in Input, res *models.StructuredResult, now time.Time) *view {
	data := titleNames(ApplyCorrections(in.CaseData, res.Corrections))
	tech := res.TechnicalData
	if tech == nil {
		tech = &models.TechnicalData{}
	}

	office := in.Office
	if office == nil {
		office = r.office
	}

	v := &view{
		Office:      office,
		Heading:     Heading(res.Jurisdiction, res.CityUF),
		Priorities:  res.Priorities,
		Client:      data,
		Profession:  firstNonEmpty(tech.FormattedProfession, ptbr.Capitalize(data.Profession), DefaultProfession),
		Age:         age(data.BirthDate, now),
		Email:       PendingEmail,
		INSSAddress: firstNonEmpty(res.INSSAddress, PendingAddress),
		ChildName:   firstNonEmpty(data.Field("child_name"), DefaultChildName),
		Evidence:    nonEmpty(res.Evidence),
		Precedents:  res.Precedents,
		Signers:     in.Signers,
		GeneratedBy: firstNonEmpty(in.GeneratedBy, DefaultAuthor),
		GeneratedAt: now.Format("02/01/2006, 15:04:05"),
	}
	if office != nil && office.Email != "" {
		v.Email = office.Email
	}

	v.Preliminaries = template.HTML(defaultPreliminaries)
	if strings.TrimSpace(res.Preliminaries) != "" {
		v.Preliminaries = template.HTML(res.Preliminaries)
	}
	v.Facts = template.HTML("<p><i>" + PendingText + "</i></p>")
	if strings.TrimSpace(res.FactsSummary) != "" {
		v.Facts = template.HTML(res.FactsSummary)
	}

	v.Synopsis = synopsis(data, tech, v.Age)
	v.Rows, v.total = r.rows(res.PaymentTable)
	v.Total = ptbr.FormatMoney(v.total)
	v.TotalInWords = ptbr.MoneyToWords(v.total)

	place := ptbr.NormalizeCityUF(res.CityUF)
	if place == "" {
		place = "Local"
	}
	v.Closing = fmt.Sprintf("%s, %s", place, ptbr.LongDate(now))
	return v
}

func synopsis(data models.CaseData, tech *models.TechnicalData, age string) []synopsisRow {
	raw := func(field string) string { return ptbr.Capitalize(data.Field(field)) }
	return []synopsisRow{
		{"NOME", strings.ToUpper(data.Name)},
		{"Idade no Req. Adm.", age},
		{"Pedido", "Salário maternidade – segurado especial"},
		{"Criança", ptbr.Capitalize(data.Field("child_name"))},
		{"Data de Nascimento", ptbr.FormatDate(data.Field("child_birth_date"))},
		{"Data do Req. Adm", ptbr.FormatDate(data.DER)},
		{"NB", data.NB},
		{"Situação do Benefício", raw("benefit_status")},
		{"Data do Indef. Adm", ptbr.FormatDate(data.DeniedDate)},
		{"Motivo da Decisão do INSS", firstNonEmpty(tech.DenialReason, raw("decision_reason"))},
		{"Tempo de Trabalho Rural", firstNonEmpty(tech.ActivityTime, raw("activity_before_birth"), "Mais de 10 meses antes do nascimento")},
		{"Período Declarado", firstNonEmpty(tech.DeclaredRuralPeriod, data.Field("special_insured_period"))},
		{"Ponto Controvertido", firstNonEmpty(tech.ControversialPoint, raw("controversial_point"), "Carência")},
		{"Benefício Anterior", firstNonEmpty(tech.PreviousBenefit, raw("previous_benefit"), "Não consta")},
		{"CNIS Averbado", firstNonEmpty(tech.CNISRecorded, raw("cnis_period"), "Não consta")},
		{"Vínculo Urbano", firstNonEmpty(tech.UrbanLink, raw("urban_link"), "Nunca teve")},
	}
}

// rows formats the payment table and sums its adjusted column. Values that
// cannot be read count as zero.
func (r *Renderer) rows(table []models.PaymentTableRow) ([]tableRow, float64) {
	out := make([]tableRow, 0, len(table))
	var total float64
	for _, row := range table {
		base := r.amount(row.Period, "valor_base", row.Base)
		adjusted := r.amount(row.Period, "valor_reajustado", row.Adjusted)
		total += adjusted
		out = append(out, tableRow{
			Period:   row.Period,
			Base:     ptbr.FormatMoney(base),
			Adjusted: ptbr.FormatMoney(adjusted),
		})
	}
	return out, total
}

func (r *Renderer) amount(period, column string, a models.Amount) float64 {
	if strings.TrimSpace(string(a)) == "" {
		return 0
	}
	f, err := a.Float()
	if err != nil {
		r.logger.Warn("unreadable payment table value, counting as zero", map[string]interface{}{
			"period": period,
			"column": column,
			"value":  string(a),
		})
		return 0
	}
	return f
}

func age(birth string, now time.Time) string {
	t, err := ptbr.ParseDate(birth)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d anos", ptbr.Age(t, now))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			out = append(out, it)
		}
	}
	return out
}
