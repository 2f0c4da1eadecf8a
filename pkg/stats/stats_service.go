package stats

import (
	"context"
	"time"

	"github.com/centavo/centavo/internal/utils"
	"github.com/centavo/centavo/pkg/budget"
	"github.com/shopspring/decimal"
)

type StatsService interface {
	GetOverview(ctx context.Context) (Overview, error)
	GetSpend(ctx context.Context) ([]ItemSpend, error)
	GetTimeline(ctx context.Context) (Timeline, error)
}

type StatsServiceImpl struct {
	store *budget.Store
	clock utils.Clock
}

func NewStatsServiceImpl(store *budget.Store, clock utils.Clock) *StatsServiceImpl {
	return &StatsServiceImpl{store: store, clock: clock}
}

func (s *StatsServiceImpl) GetOverview(ctx context.Context) (Overview, error) {
	return BudgetOverview(s.store.Snapshot()), nil
}

func (s *StatsServiceImpl) GetSpend(ctx context.Context) ([]ItemSpend, error) {
	return ActualSpend(s.store.Snapshot()), nil
}

func (s *StatsServiceImpl) GetTimeline(ctx context.Context) (Timeline, error) {
	return SpendingTimeline(s.store.Snapshot(), s.store.Period(), s.clock.Now()), nil
}

// BudgetOverview sums the planned amounts across all sections. Income items
// contribute to TotalIncome, expense items to TotalExpense.
func BudgetOverview(b budget.Budget) Overview {
	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, item := range b.Flatten() {
		switch item.Kind {
		case budget.Income:
			totalIncome = totalIncome.Add(item.Amount)
		case budget.Expense:
			totalExpense = totalExpense.Add(item.Amount)
		}
	}

	percentSpent := decimal.Zero
	if !totalIncome.IsZero() {
		percentSpent = totalExpense.Div(totalIncome)
	}
	return Overview{
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		Remaining:    totalIncome.Sub(totalExpense),
		PercentSpent: percentSpent,
	}
}

// ActualSpend computes the realized spend of every expense item from its
// nested transactions. An expense transaction adds to the spend; an income
// transaction nested under an expense item is a refund and subtracts.
func ActualSpend(b budget.Budget) []ItemSpend {
	spend := make([]ItemSpend, 0)
	for _, item := range b.Flatten() {
		if item.Kind != budget.Expense {
			continue
		}
		spent := decimal.Zero
		for _, tx := range item.Transactions {
			if tx.Kind == budget.Income {
				spent = spent.Sub(tx.Amount)
			} else {
				spent = spent.Add(tx.Amount)
			}
		}
		spend = append(spend, ItemSpend{
			ItemId:    item.ItemId,
			Name:      item.Name,
			Section:   item.Section,
			Planned:   item.Amount,
			Spent:     spent,
			Remaining: item.Amount.Sub(spent),
		})
	}
	return spend
}

// SpendingTimeline builds the day-by-day net spending series for the
// period's month. Only transactions nested under expense items count, with
// the same refund semantics as ActualSpend. For the current month the
// series stops at today; for past months it covers the whole month.
func SpendingTimeline(b budget.Budget, period budget.Period, now time.Time) Timeline {
	lastDay := daysInMonth(period.Month, period.Year)
	if int(now.Month()) == period.Month && now.Year() == period.Year && now.Day() < lastDay {
		lastDay = now.Day()
	}

	spentByDay := make(map[int]decimal.Decimal)
	for _, item := range b.Flatten() {
		if item.Kind != budget.Expense {
			continue
		}
		for _, tx := range item.Transactions {
			date, err := time.Parse("2006-01-02", tx.Date)
			if err != nil || int(date.Month()) != period.Month || date.Year() != period.Year {
				continue
			}
			day := date.Day()
			if tx.Kind == budget.Income {
				spentByDay[day] = spentByDay[day].Sub(tx.Amount)
			} else {
				spentByDay[day] = spentByDay[day].Add(tx.Amount)
			}
		}
	}

	days := make([]TimelinePoint, 0, lastDay)
	cumulative := decimal.Zero
	for day := 1; day <= lastDay; day++ {
		cumulative = cumulative.Add(spentByDay[day])
		days = append(days, TimelinePoint{Day: day, Spent: spentByDay[day], Cumulative: cumulative})
	}

	totalSpent := cumulative
	if totalSpent.IsNegative() {
		totalSpent = decimal.Zero
	}
	return Timeline{Month: period.Month, Year: period.Year, Days: days, TotalSpent: totalSpent}
}

func daysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
