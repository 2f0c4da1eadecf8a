package app

import (
	"database/sql"
	"time"

	"github.com/centavo/centavo/internal/config"
	"github.com/centavo/centavo/internal/event_bus"
	"github.com/centavo/centavo/internal/format"
	"github.com/centavo/centavo/internal/utils"
	"github.com/centavo/centavo/pkg/budget"
	"github.com/centavo/centavo/pkg/stats"
	"github.com/centavo/centavo/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	BudgetClient    budget.Client
	BudgetStore     *budget.Store
	SnapshotRepo    budget.SnapshotRepository
	BudgetService   budget.Service
	BudgetHandler   *budget.Handler
	CurrencyFormats *format.CurrencyFormatter

	StatsService    *stats.StatsServiceImpl
	CsvFeedRenderer *stats.CsvFeedRendererImpl
	StatsHandler    *stats.StatsHandler

	EventBus *event_bus.EventBus
	Clock    utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	formatter, err := format.NewCurrencyFormatter(cfg.Currency, cfg.Locale)
	if err != nil {
		return nil, err
	}
	deps.CurrencyFormats = formatter

	sections := cfg.Sections
	if len(sections) == 0 {
		sections = budget.DefaultSections
	}

	deps.BudgetClient = budget.NewClient(cfg.Api.BaseUrl, cfg.Api.Token, time.Duration(cfg.Api.Timeout)*time.Second)
	deps.BudgetStore = budget.NewStore(sections, budget.CurrentPeriod(deps.Clock))
	deps.SnapshotRepo = budget.NewSnapshotRepository(db)
	deps.BudgetService = budget.NewBudgetService(deps.BudgetClient, deps.BudgetStore, deps.SnapshotRepo, deps.EventBus)
	deps.BudgetHandler = budget.NewBudgetHandler(deps.BudgetService, deps.BudgetStore, formatter, deps.Clock)
	budget.RegisterSnapshotListener(deps.EventBus, deps.BudgetStore, deps.SnapshotRepo)

	deps.StatsService = stats.NewStatsServiceImpl(deps.BudgetStore, deps.Clock)
	deps.CsvFeedRenderer = stats.NewCsvFeedRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvFeedRenderer, deps.BudgetStore, formatter)

	return deps, nil
}
