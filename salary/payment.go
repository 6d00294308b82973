package salary

import (
	"fmt"
	"time"

	"ruraldraft-backend/models"
	"ruraldraft-backend/ptbr"
)

// DefaultPeriods is the length of the maternity benefit in months (120 days).
const DefaultPeriods = 4

// Row is one month of a payment table.
type Row struct {
	Period   string    // "Março/2024"
	Month    time.Time // competence date
	Base     float64
	Adjusted float64
}

// Model converts the row to its JSON representation.
func (r Row) Model() models.PaymentTableRow {
	return models.PaymentTableRow{
		Period:   r.Period,
		Base:     models.NewAmount(r.Base),
		Adjusted: models.NewAmount(r.Adjusted),
	}
}

// BuildPaymentTable returns periods consecutive monthly rows starting at
// start. Month i is start plus i calendar months, with the day clamped to the
// end of shorter months (Jan 31 -> Feb 29). Non-positive periods fall back to
// DefaultPeriods.
func (t *Table) BuildPaymentTable(start time.Time, periods int) []Row {
	if periods <= 0 {
		periods = DefaultPeriods
	}
	start = civil(start)

	rows := make([]Row, 0, periods)
	for i := 0; i < periods; i++ {
		month := AddMonths(start, i)
		base := t.ValueInForce(month)
		rows = append(rows, Row{
			Period:   fmt.Sprintf("%s/%d", ptbr.MonthName(month.Month()), month.Year()),
			Month:    month,
			Base:     base,
			Adjusted: t.CompoundToToday(base, month),
		})
	}
	return rows
}

// AddMonths adds n calendar months to d, clamping the day to the length of
// the target month instead of overflowing into the next one.
func AddMonths(d time.Time, n int) time.Time {
	y, m, day := d.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, d.Location())
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, d.Location())
}

// Totals sums the base and adjusted columns, rounded to cents.
func Totals(rows []Row) (base, adjusted float64) {
	for _, r := range rows {
		base += r.Base
		adjusted += r.Adjusted
	}
	return Round2(base), Round2(adjusted)
}

// Models converts rows to their JSON representation.
func Models(rows []Row) []models.PaymentTableRow {
	out := make([]models.PaymentTableRow, len(rows))
	for i, r := range rows {
		out[i] = r.Model()
	}
	return out
}
