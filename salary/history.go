package salary

import "time"

// history is the national minimum wage since the Real plan, most recent
// first. The 2026 value is the announced projection.
var history = []Record{
	{date(2026, time.January), 1621.00, 6.79, "Projeção pendente"},
	{date(2025, time.January), 1518.00, 7.95, "Decreto 12.342/2024"},
	{date(2024, time.January), 1412.00, 6.97, "Decreto 11.864/2024"},
	{date(2023, time.May), 1320.00, 8.90, "MP 1.172/2023"},
	{date(2023, time.January), 1302.00, 7.43, "MP 1.143/2022"},
	{date(2022, time.January), 1212.00, 10.16, "MP 1.091/2021"},
	{date(2021, time.January), 1100.00, 5.26, "MP 1.021/2020"},
	{date(2020, time.February), 1045.00, 0.58, "MP 919/2020"},
	{date(2020, time.January), 1039.00, 4.10, "MP 916/2019"},
	{date(2019, time.January), 998.00, 4.61, "Decreto 9.661/2019"},
	{date(2018, time.January), 954.00, 1.81, "Decreto 9.255/2017"},
	{date(2017, time.January), 937.00, 6.48, "Lei 13.152/2015"},
	{date(2016, time.January), 880.00, 11.68, "Decreto 8.618/2015"},
	{date(2015, time.January), 788.00, 8.84, "Decreto 8.381/2014"},
	{date(2014, time.January), 724.00, 6.78, "Decreto 8.166/2013"},
	{date(2013, time.January), 678.00, 9.00, "Decreto 7.872/2012"},
	{date(2012, time.January), 622.00, 14.13, "Decreto 7.655/2011"},
	{date(2011, time.March), 545.00, 0.93, "Lei 12.382/2011"},
	{date(2011, time.January), 540.00, 5.88, "MP 516/2010"},
	{date(2010, time.January), 510.00, 9.68, "Lei 12.255/2010"},
	{date(2009, time.February), 465.00, 12.05, "Lei 11.944/2009"},
	{date(2008, time.March), 415.00, 9.21, "Lei 11.709/2008"},
	{date(2007, time.April), 380.00, 8.57, "Lei 11.498/2007"},
	{date(2006, time.April), 350.00, 16.67, "Lei 11.321/2006"},
	{date(2005, time.May), 300.00, 15.38, "Lei 11.164/2005"},
	{date(2004, time.May), 260.00, 8.33, "Lei 10.888/2004"},
	{date(2003, time.June), 240.00, 20.00, "Lei 10.699/2003"},
	{date(2002, time.June), 200.00, 11.11, "Lei 10.525/2002"},
	{date(2001, time.June), 180.00, 19.21, "MP 2.194-6/2001"},
	{date(2000, time.June), 151.00, 11.03, "Lei 9.971/2000"},
	{date(1999, time.May), 136.00, 4.62, "Lei 9.971/2000"},
	{date(1998, time.May), 130.00, 8.33, "Lei 9.971/2000"},
	{date(1997, time.May), 120.00, 7.14, "Lei 9.971/2000"},
	{date(1996, time.May), 112.00, 12.00, "Lei 9.971/2000"},
	{date(1995, time.May), 100.00, 42.86, "Lei 9.032/1995"},
	{date(1994, time.September), 70.00, 8.04, "MP 598/1994"},
	{date(1994, time.July), 64.79, 0, "Lei 8.880/1994"},
}

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// DefaultTable returns the national minimum-wage history.
func DefaultTable(opts ...Option) *Table {
	return NewTable(history, opts...)
}
