package salary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func TestValueInForce(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name string
		date time.Time
		want float64
	}{
		{"effective day itself", day(2024, time.January, 1), 1412},
		{"day before a revision", day(2023, time.December, 31), 1320},
		{"mid year revision", day(2023, time.May, 1), 1320},
		{"before mid year revision", day(2023, time.April, 30), 1302},
		{"february 2020 revision", day(2020, time.February, 15), 1045},
		{"first record", day(1994, time.July, 1), 64.79},
		{"before all records falls back to oldest", day(1990, time.January, 1), 64.79},
		{"far future uses latest", day(2030, time.June, 1), 1621},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.ValueInForce(tt.date))
		})
	}
}

func TestValueInForce_ConstantBetweenRecords(t *testing.T) {
	table := DefaultTable()
	records := table.Records()

	// every pair of dates inside the same validity window sees the same value
	for i := 1; i < len(records); i++ {
		from := records[i].EffectiveDate
		to := records[i-1].EffectiveDate.AddDate(0, 0, -1)
		mid := from.Add(to.Sub(from) / 2)
		assert.Equal(t, table.ValueInForce(from), table.ValueInForce(mid), "window starting %s", from)
		assert.Equal(t, table.ValueInForce(from), table.ValueInForce(to), "window starting %s", from)
	}
}

func TestValueInForce_IgnoresTimeOfDay(t *testing.T) {
	table := DefaultTable()
	late := time.Date(2023, time.April, 30, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 1302.0, table.ValueInForce(late))
}

func TestCompoundToToday(t *testing.T) {
	table := DefaultTable(fixedClock(day(2025, time.June, 1)))

	t.Run("base date equal to today is unchanged", func(t *testing.T) {
		assert.Equal(t, 1518.0, table.CompoundToToday(1518, table.Today()))
		assert.Equal(t, 1234.56, table.CompoundToToday(1234.56, day(2025, time.June, 1)))
	})

	t.Run("increase on the base date itself is not applied", func(t *testing.T) {
		assert.InDelta(t, 1412*1.0795, table.CompoundToToday(1412, day(2024, time.January, 1)), 0.01)
	})

	t.Run("increase effective today is applied", func(t *testing.T) {
		tbl := DefaultTable(fixedClock(day(2025, time.January, 1)))
		assert.Equal(t, Round2(1412*1.0795), tbl.CompoundToToday(1412, day(2024, time.March, 10)))
	})

	t.Run("future increases are not applied", func(t *testing.T) {
		assert.Equal(t, Round2(1412*1.0795), table.CompoundToToday(1412, day(2024, time.March, 10)))
	})

	t.Run("several increases compound", func(t *testing.T) {
		want := 1302 * 1.089 * 1.0697 * 1.0795
		assert.InDelta(t, want, table.CompoundToToday(1302, day(2023, time.April, 1)), 0.01)
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, -0.13, Round2(-0.125))
	assert.Equal(t, 1524.24, Round2(1524.2399999))
}

func TestBuildPaymentTable_BirthScenario(t *testing.T) {
	table := DefaultTable(fixedClock(day(2025, time.June, 1)))

	rows := table.BuildPaymentTable(day(2024, time.March, 10), 4)
	require.Len(t, rows, 4)

	labels := []string{"Março/2024", "Abril/2024", "Maio/2024", "Junho/2024"}
	for i, r := range rows {
		assert.Equal(t, labels[i], r.Period)
		assert.Equal(t, 1412.0, r.Base)
		assert.Equal(t, Round2(1412*1.0795), r.Adjusted)
		assert.GreaterOrEqual(t, r.Adjusted, r.Base)
	}

	base, adjusted := Totals(rows)
	assert.Equal(t, 5648.0, base)
	assert.Equal(t, Round2(4*Round2(1412*1.0795)), adjusted)
}

func TestBuildPaymentTable_AcrossRevision(t *testing.T) {
	table := DefaultTable(fixedClock(day(2026, time.March, 1)))

	rows := table.BuildPaymentTable(day(2024, time.November, 20), 4)
	require.Len(t, rows, 4)

	assert.Equal(t, "Novembro/2024", rows[0].Period)
	assert.Equal(t, "Fevereiro/2025", rows[3].Period)
	assert.Equal(t, 1412.0, rows[0].Base)
	assert.Equal(t, 1412.0, rows[1].Base)
	assert.Equal(t, 1518.0, rows[2].Base)
	assert.Equal(t, 1518.0, rows[3].Base)

	assert.InDelta(t, 1412*1.0795*1.0679, rows[0].Adjusted, 0.01)
	assert.InDelta(t, 1518*1.0679, rows[2].Adjusted, 0.01)
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.Adjusted, r.Base)
	}
}

func TestBuildPaymentTable_Deterministic(t *testing.T) {
	table := DefaultTable(fixedClock(day(2025, time.June, 1)))
	start := day(2023, time.January, 31)

	first := table.BuildPaymentTable(start, 6)
	second := table.BuildPaymentTable(start, 6)
	assert.Equal(t, first, second)

	assert.Equal(t, day(2023, time.February, 28), first[1].Month)
	assert.Equal(t, day(2023, time.March, 31), first[2].Month)
}

func TestBuildPaymentTable_DefaultPeriods(t *testing.T) {
	table := DefaultTable(fixedClock(day(2025, time.June, 1)))
	assert.Len(t, table.BuildPaymentTable(day(2024, time.March, 10), 0), DefaultPeriods)
	assert.Len(t, table.BuildPaymentTable(day(2024, time.March, 10), -2), DefaultPeriods)
}

func TestAddMonths(t *testing.T) {
	assert.Equal(t, day(2024, time.February, 29), AddMonths(day(2024, time.January, 31), 1))
	assert.Equal(t, day(2025, time.January, 15), AddMonths(day(2024, time.December, 15), 1))
	assert.Equal(t, day(2024, time.March, 10), AddMonths(day(2024, time.March, 10), 0))
}

func TestRowModel(t *testing.T) {
	m := Row{Period: "Março/2024", Base: 1412, Adjusted: 1524.25}.Model()
	assert.Equal(t, "Março/2024", m.Period)
	assert.EqualValues(t, "1412.00", m.Base)
	assert.EqualValues(t, "1524.25", m.Adjusted)
}

func TestNewTable_SortsRecords(t *testing.T) {
	table := NewTable([]Record{
		{EffectiveDate: day(2020, time.January, 1), Value: 100, Increase: 0},
		{EffectiveDate: day(2022, time.January, 1), Value: 120, Increase: 10},
		{EffectiveDate: day(2021, time.January, 1), Value: 110, Increase: 10},
	}, fixedClock(day(2023, time.January, 1)))

	records := table.Records()
	assert.Equal(t, 120.0, records[0].Value)
	assert.Equal(t, 100.0, records[2].Value)
	assert.Equal(t, 110.0, table.ValueInForce(day(2021, time.June, 1)))
	assert.Equal(t, 121.0, table.CompoundToToday(100, day(2020, time.June, 1)))

	assert.Equal(t, 0.0, NewTable(nil).ValueInForce(day(2021, time.June, 1)))
}
