// Package salary holds the Brazilian statutory minimum-wage history and the
// adjustment engine built on it: the value in force on a date, compounding of
// later revaluations up to today, and the monthly payment table of a
// maternity benefit.
package salary

import (
	"math"
	"sort"
	"time"
)

// Record is one minimum-wage revision.
type Record struct {
	EffectiveDate time.Time `json:"vigencia"`
	Value         float64   `json:"valor"`
	Increase      float64   `json:"reajuste"` // percent over the previous value
	LegalBasis    string    `json:"legislacao"`
}

// Table is an immutable, date-ordered wage history. It is safe for
// concurrent use.
type Table struct {
	records []Record // descending by EffectiveDate
	now     func() time.Time
}

// Option configures a Table.
type Option func(*Table)

// WithClock overrides the clock used to decide what "today" is.
func WithClock(now func() time.Time) Option {
	return func(t *Table) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTable builds a table from records in any order.
func NewTable(records []Record, opts ...Option) *Table {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	for i := range sorted {
		sorted[i].EffectiveDate = civil(sorted[i].EffectiveDate)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate.After(sorted[j].EffectiveDate)
	})

	t := &Table{records: sorted, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Records returns a copy of the history, most recent first.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Today returns the table's current civil date.
func (t *Table) Today() time.Time {
	return civil(t.now())
}

// ValueInForce returns the value of the most recent record effective on or
// before date. Dates before the whole history get the oldest value.
func (t *Table) ValueInForce(date time.Time) float64 {
	if len(t.records) == 0 {
		return 0
	}
	d := civil(date)
	for _, r := range t.records {
		if !d.Before(r.EffectiveDate) {
			return r.Value
		}
	}
	return t.records[len(t.records)-1].Value
}

// CompoundToToday applies, oldest first, every increase effective strictly
// after baseDate and no later than today. The result is rounded half away
// from zero to cents.
func (t *Table) CompoundToToday(baseValue float64, baseDate time.Time) float64 {
	base := civil(baseDate)
	today := t.Today()

	v := baseValue
	for i := len(t.records) - 1; i >= 0; i-- {
		r := t.records[i]
		if r.EffectiveDate.After(base) && !r.EffectiveDate.After(today) {
			v *= 1 + r.Increase/100
		}
	}
	return Round2(v)
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// civil drops the clock part, keeping the calendar date in the value's own
// location, and returns it as midnight UTC.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
