package stats

import (
	"github.com/shopspring/decimal"
)

// Overview is the headline summary of a budget: planned income, planned
// expenses, what is left, and how much of the income the plan consumes.
type Overview struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Remaining    decimal.Decimal
	// PercentSpent is TotalExpense / TotalIncome as a fraction (0.46 means
	// 46%). It is 0 when TotalIncome is 0 so progress indicators never see
	// a division by zero.
	PercentSpent decimal.Decimal
}

// ItemSpend reports how much of an expense item's planned amount has
// actually been spent so far.
type ItemSpend struct {
	ItemId    int
	Name      string
	Section   string
	Planned   decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
}

// TimelinePoint is the spending recorded on a single day of the month plus
// the running total up to and including that day.
type TimelinePoint struct {
	Day        int
	Spent      decimal.Decimal
	Cumulative decimal.Decimal
}

// Timeline is the day-by-day spending series for one reporting period.
type Timeline struct {
	Month int
	Year  int
	Days  []TimelinePoint
	// TotalSpent is the final cumulative value, floored at zero for display.
	TotalSpent decimal.Decimal
}
