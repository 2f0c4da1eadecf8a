package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/centavo/centavo/internal/format"
	"github.com/centavo/centavo/internal/utils"
	"github.com/centavo/centavo/pkg/user"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type BudgetDTO struct {
	Month    int          `json:"month"`
	Year     int          `json:"year"`
	Sections []SectionDTO `json:"sections"`
}

type SectionDTO struct {
	Name  string    `json:"name"`
	Items []ItemDTO `json:"items"`
}

type ItemDTO struct {
	ItemId        int              `json:"item_id"`
	Section       string           `json:"section"`
	Name          string           `json:"name"`
	Amount        decimal.Decimal  `json:"amount"`
	AmountDisplay string           `json:"amount_display,omitempty"`
	Type          string           `json:"type"`
	StartDate     string           `json:"start_date"`
	EndDate       string           `json:"end_date,omitempty"`
	Transactions  []TransactionDTO `json:"transactions"`
}

type TransactionDTO struct {
	TransactionId int             `json:"transaction_id"`
	ItemId        int             `json:"item_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	AmountDisplay string          `json:"amount_display,omitempty"`
	Type          string          `json:"type"`
	Date          string          `json:"date"`
}

type CategoryDTO struct {
	Name   string `json:"name"`
	ItemId int    `json:"item_id"`
}

type Handler struct {
	service   Service
	store     *Store
	formatter *format.CurrencyFormatter
	clock     utils.Clock
}

func NewBudgetHandler(service Service, store *Store, formatter *format.CurrencyFormatter, clock utils.Clock) *Handler {
	return &Handler{service: service, store: store, formatter: formatter, clock: clock}
}

// GetBudget godoc
// @Summary Get the budget for a period
// @Description Load the normalized budget for the given month and year; defaults to the current month
// @Tags Budget
// @Produce json
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year"
// @Param refresh query bool false "Force a backend fetch"
// @Success 200 {object} BudgetDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "User not found"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/budget [get]
// @Security XUserId
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting budget")
	w.Header().Set("Content-Type", "application/json")

	period := CurrentPeriod(h.clock)
	month, year := period.Month, period.Year
	var err error
	if monthParam := r.URL.Query().Get("month"); monthParam != "" {
		if month, err = strconv.Atoi(monthParam); err != nil {
			http.Error(w, "invalid month", http.StatusBadRequest)
			return
		}
	}
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		if year, err = strconv.Atoi(yearParam); err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
	}
	if month < 1 || month > 12 {
		http.Error(w, "month must be between 1 and 12", http.StatusBadRequest)
		return
	}
	force := r.URL.Query().Get("refresh") == "true"

	b, err := h.service.LoadPeriod(r.Context(), month, year, force)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.budgetToDTO(b, month, year)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CreateItem godoc
// @Summary Create a budget item
// @Description Persist a new budget item through the backend and add it to the current budget
// @Tags BudgetItem
// @Accept json
// @Produce json
// @Param item body ItemDTO true "Budget Item"
// @Success 201 {object} ItemDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "User not found"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/budget/item [post]
// @Security XUserId
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating budget item")
	w.Header().Set("Content-Type", "application/json")

	var itemDTO ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&itemDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateItem(r.Context(), dtoToItem(itemDTO))
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(h.itemToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// UpdateItem godoc
// @Summary Update a budget item
// @Tags BudgetItem
// @Accept json
// @Produce json
// @Param itemId path int true "Budget Item ID"
// @Param item body ItemDTO true "Budget Item"
// @Success 200 {object} ItemDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "User not found"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/budget/item/{itemId} [put]
// @Security XUserId
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating budget item")
	w.Header().Set("Content-Type", "application/json")

	itemId, err := strconv.Atoi(mux.Vars(r)["itemId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var itemDTO ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&itemDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if itemDTO.ItemId == 0 || itemDTO.ItemId != itemId {
		http.Error(w, "Invalid item id in request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateItem(r.Context(), dtoToItem(itemDTO))
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.itemToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DeleteItem godoc
// @Summary Delete a budget item
// @Tags BudgetItem
// @Param itemId path int true "Budget Item ID"
// @Param section query string true "Owning section name"
// @Success 204 "No Content"
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "User not found"
// @Failure 404 {string} string "Item Not Found"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/budget/item/{itemId} [delete]
// @Security XUserId
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting budget item")

	itemId, err := strconv.Atoi(mux.Vars(r)["itemId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	section := r.URL.Query().Get("section")
	if section == "" {
		http.Error(w, "section is required", http.StatusBadRequest)
		return
	}

	deleted, err := h.service.DeleteItem(r.Context(), section, itemId)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTransactions godoc
// @Summary Get the transaction feed
// @Description All of the user's transactions, newest first
// @Tags Transaction
// @Produce json
// @Param refresh query bool false "Force a backend fetch"
// @Success 200 {array} TransactionDTO
// @Failure 403 {string} string "User not found"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/transactions [get]
// @Security XUserId
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting transaction feed")
	w.Header().Set("Content-Type", "application/json")

	feed := h.store.Feed()
	if r.URL.Query().Get("refresh") == "true" || len(feed) == 0 {
		loaded, err := h.service.LoadTransactions(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		feed = loaded
	}

	feedDTO := make([]TransactionDTO, 0, len(feed))
	for _, tx := range feed {
		feedDTO = append(feedDTO, h.transactionToDTO(tx))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(feedDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CreateTransaction godoc
// @Summary Record a transaction
// @Description Persist a new transaction through the backend, then apply it to the budget and the feed
// @Tags Transaction
// @Accept json
// @Produce json
// @Param transaction body TransactionDTO true "Transaction"
// @Success 201 {object} TransactionDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "User not found"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/transaction [post]
// @Security XUserId
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating transaction")
	w.Header().Set("Content-Type", "application/json")

	var txDTO TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&txDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateTransaction(r.Context(), dtoToTransaction(txDTO))
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(h.transactionToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Tags Transaction
// @Accept json
// @Produce json
// @Param transactionId path int true "Transaction ID"
// @Param transaction body TransactionDTO true "Transaction"
// @Success 200 {object} TransactionDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "User not found"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/transaction/{transactionId} [put]
// @Security XUserId
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating transaction")
	w.Header().Set("Content-Type", "application/json")

	transactionId, err := strconv.Atoi(mux.Vars(r)["transactionId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var txDTO TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&txDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if txDTO.TransactionId == 0 || txDTO.TransactionId != transactionId {
		http.Error(w, "Invalid transaction id in request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateTransaction(r.Context(), dtoToTransaction(txDTO))
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.transactionToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags Transaction
// @Param transactionId path int true "Transaction ID"
// @Success 204 "No Content"
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "User not found"
// @Failure 404 {string} string "Transaction Not Found"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/transaction/{transactionId} [delete]
// @Security XUserId
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting transaction")

	transactionId, err := strconv.Atoi(mux.Vars(r)["transactionId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.service.DeleteTransaction(r.Context(), transactionId)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCategories godoc
// @Summary Get transaction categories
// @Description (name, item id) pairs for populating category pickers
// @Tags Category
// @Produce json
// @Param refresh query bool false "Force a backend fetch"
// @Success 200 {array} CategoryDTO
// @Failure 403 {string} string "User not found"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/categories [get]
// @Security XUserId
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting categories")
	w.Header().Set("Content-Type", "application/json")

	categories := h.store.Categories()
	if r.URL.Query().Get("refresh") == "true" || len(categories) == 0 {
		loaded, err := h.service.LoadCategories(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		categories = loaded
	}

	categoriesDTO := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		categoriesDTO = append(categoriesDTO, CategoryDTO{Name: c.Name, ItemId: c.ItemId})
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(categoriesDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		http.Error(w, "user not found", http.StatusForbidden)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrSectionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrRemote):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) budgetToDTO(b Budget, month, year int) BudgetDTO {
	sections := make([]SectionDTO, 0, len(b.Sections))
	for _, name := range b.Sections {
		items := b.Items[name]
		itemsDTO := make([]ItemDTO, 0, len(items))
		for _, item := range items {
			itemsDTO = append(itemsDTO, h.itemToDTO(item))
		}
		sections = append(sections, SectionDTO{Name: name, Items: itemsDTO})
	}
	return BudgetDTO{Month: month, Year: year, Sections: sections}
}

func (h *Handler) itemToDTO(item BudgetItem) ItemDTO {
	transactions := make([]TransactionDTO, 0, len(item.Transactions))
	for _, tx := range item.Transactions {
		transactions = append(transactions, h.transactionToDTO(tx))
	}
	return ItemDTO{
		ItemId:        item.ItemId,
		Section:       item.Section,
		Name:          item.Name,
		Amount:        item.Amount,
		AmountDisplay: h.formatter.Format(item.Amount),
		Type:          string(item.Kind),
		StartDate:     item.StartDate,
		EndDate:       item.EndDate,
		Transactions:  transactions,
	}
}

func (h *Handler) transactionToDTO(tx Transaction) TransactionDTO {
	return TransactionDTO{
		TransactionId: tx.TransactionId,
		ItemId:        tx.ItemId,
		Description:   tx.Description,
		Amount:        tx.Amount,
		AmountDisplay: h.formatter.Format(tx.Amount),
		Type:          string(tx.Kind),
		Date:          tx.Date,
	}
}

func dtoToItem(dto ItemDTO) BudgetItem {
	return BudgetItem{
		ItemId:    dto.ItemId,
		Section:   dto.Section,
		Name:      dto.Name,
		Amount:    dto.Amount,
		Kind:      Kind(dto.Type),
		StartDate: dto.StartDate,
		EndDate:   dto.EndDate,
	}
}

func dtoToTransaction(dto TransactionDTO) Transaction {
	return Transaction{
		TransactionId: dto.TransactionId,
		ItemId:        dto.ItemId,
		Description:   dto.Description,
		Amount:        dto.Amount,
		Kind:          Kind(dto.Type),
		Date:          dto.Date,
	}
}
