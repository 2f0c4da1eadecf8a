package stats

import (
	"encoding/json"
	"net/http"

	"github.com/centavo/centavo/internal/format"
	"github.com/centavo/centavo/pkg/budget"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type OverviewDTO struct {
	TotalIncome         decimal.Decimal `json:"total_income"`
	TotalIncomeDisplay  string          `json:"total_income_display,omitempty"`
	TotalExpense        decimal.Decimal `json:"total_expense"`
	TotalExpenseDisplay string          `json:"total_expense_display,omitempty"`
	Remaining           decimal.Decimal `json:"remaining"`
	RemainingDisplay    string          `json:"remaining_display,omitempty"`
	PercentSpent        decimal.Decimal `json:"percent_spent"`
	Spend               []ItemSpendDTO  `json:"spend"`
}

type ItemSpendDTO struct {
	ItemId    int             `json:"item_id"`
	Name      string          `json:"name"`
	Section   string          `json:"section"`
	Planned   decimal.Decimal `json:"planned"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

type TimelinePointDTO struct {
	Day        int             `json:"day"`
	Spent      decimal.Decimal `json:"spent"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

type TimelineDTO struct {
	Month      int                `json:"month"`
	Year       int                `json:"year"`
	Days       []TimelinePointDTO `json:"days"`
	TotalSpent decimal.Decimal    `json:"total_spent"`
}

type StatsHandler struct {
	statsService StatsService
	feedRenderer FeedRenderer
	store        *budget.Store
	formatter    *format.CurrencyFormatter
}

func NewStatsHandler(statsService StatsService, feedRenderer FeedRenderer, store *budget.Store, formatter *format.CurrencyFormatter) *StatsHandler {
	return &StatsHandler{statsService, feedRenderer, store, formatter}
}

// GetOverview godoc
// @Summary Get budget totals
// @Description Planned totals plus the realized spend of every expense item
// @Tags Stats
// @Produce json
// @Success 200 {object} OverviewDTO
// @Router /api/stats/overview [get]
// @Security XUserId
func (handler *StatsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting budget overview")
	w.Header().Set("Content-Type", "application/json")

	overview, err := handler.statsService.GetOverview(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	spend, err := handler.statsService.GetSpend(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	spendDTO := make([]ItemSpendDTO, 0, len(spend))
	for _, item := range spend {
		spendDTO = append(spendDTO, ItemSpendDTO{
			ItemId:    item.ItemId,
			Name:      item.Name,
			Section:   item.Section,
			Planned:   item.Planned,
			Spent:     item.Spent,
			Remaining: item.Remaining,
		})
	}
	overviewDTO := OverviewDTO{
		TotalIncome:         overview.TotalIncome,
		TotalIncomeDisplay:  handler.formatter.Format(overview.TotalIncome),
		TotalExpense:        overview.TotalExpense,
		TotalExpenseDisplay: handler.formatter.Format(overview.TotalExpense),
		Remaining:           overview.Remaining,
		RemainingDisplay:    handler.formatter.Format(overview.Remaining),
		PercentSpent:        overview.PercentSpent,
		Spend:               spendDTO,
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(overviewDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetTimeline godoc
// @Summary Get the spending timeline
// @Description Day-by-day net spending for the current reporting period
// @Tags Stats
// @Produce json
// @Success 200 {object} TimelineDTO
// @Router /api/stats/timeline [get]
// @Security XUserId
func (handler *StatsHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting spending timeline")
	w.Header().Set("Content-Type", "application/json")

	timeline, err := handler.statsService.GetTimeline(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	days := make([]TimelinePointDTO, 0, len(timeline.Days))
	for _, day := range timeline.Days {
		days = append(days, TimelinePointDTO{Day: day.Day, Spent: day.Spent, Cumulative: day.Cumulative})
	}
	timelineDTO := TimelineDTO{
		Month:      timeline.Month,
		Year:       timeline.Year,
		Days:       days,
		TotalSpent: timeline.TotalSpent,
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(timelineDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ExportFeed godoc
// @Summary Export the transaction feed
// @Description The full transaction feed as CSV, newest first
// @Tags Stats
// @Produce text/csv
// @Success 200 {string} string "CSV content"
// @Router /api/stats/export [get]
// @Security XUserId
func (handler *StatsHandler) ExportFeed(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting transaction feed")

	csvContent, err := handler.feedRenderer.RenderFeed(handler.store.Feed())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\"transactions.csv\"")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csvContent)); err != nil {
		log.Errorf("failed to write csv response: %v", err)
	}
}
