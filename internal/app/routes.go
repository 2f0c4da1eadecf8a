package app

import (
	"github.com/centavo/centavo/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Budget
	r.HandleFunc("/api/budget", deps.BudgetHandler.GetBudget).Methods("GET")
	r.HandleFunc("/api/budget/item", deps.BudgetHandler.CreateItem).Methods("POST")
	r.HandleFunc("/api/budget/item/{itemId}", deps.BudgetHandler.UpdateItem).Methods("PUT")
	r.HandleFunc("/api/budget/item/{itemId}", deps.BudgetHandler.DeleteItem).Methods("DELETE")

	// Transactions
	r.HandleFunc("/api/transactions", deps.BudgetHandler.GetTransactions).Methods("GET")
	r.HandleFunc("/api/transaction", deps.BudgetHandler.CreateTransaction).Methods("POST")
	r.HandleFunc("/api/transaction/{transactionId}", deps.BudgetHandler.UpdateTransaction).Methods("PUT")
	r.HandleFunc("/api/transaction/{transactionId}", deps.BudgetHandler.DeleteTransaction).Methods("DELETE")

	// Categories
	r.HandleFunc("/api/categories", deps.BudgetHandler.GetCategories).Methods("GET")

	// Stats
	r.HandleFunc("/api/stats/overview", deps.StatsHandler.GetOverview).Methods("GET")
	r.HandleFunc("/api/stats/timeline", deps.StatsHandler.GetTimeline).Methods("GET")
	r.HandleFunc("/api/stats/export", deps.StatsHandler.ExportFeed).Methods("GET")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
}
