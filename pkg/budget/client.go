package budget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ErrRemote marks failures talking to the budget backend. Handlers use it to
// distinguish a broken upstream from a local fault.
var ErrRemote = errors.New("budget backend request failed")

// Client is the remote collaborator that owns the source of truth. Every
// create/update response carries the authoritative persisted record,
// including server-assigned ids; the engine applies those, never locally
// drafted ones.
type Client interface {
	GetBudgetItems(ctx context.Context, userId, month, year int) ([]BudgetItem, error) // POST /budget/get_budget_items
	GetTransactions(ctx context.Context, userId int) ([]Transaction, error)            // POST /transaction/get_transactions
	GetCategories(ctx context.Context, userId int) ([]Category, error)                 // POST /category/get_categories
	CreateItem(ctx context.Context, item BudgetItem) (BudgetItem, error)
	UpdateItem(ctx context.Context, item BudgetItem) (BudgetItem, error)
	DeleteItem(ctx context.Context, userId int, section string, itemId int) (bool, error)
	CreateTransaction(ctx context.Context, tx Transaction) (Transaction, error)
	UpdateTransaction(ctx context.Context, tx Transaction) (Transaction, error)
	DeleteTransaction(ctx context.Context, userId, transactionId int) (bool, error)
}

type ClientImpl struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for the backend at baseURL. A hung backend call
// would otherwise delay the local mutation indefinitely, so every request
// carries the configured timeout; expiry is treated as a normal failure.
func NewClient(baseURL, token string, timeout time.Duration) *ClientImpl {
	return &ClientImpl{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Wire records. Amounts travel as plain non-negative numbers; sign is
// carried by the type field.
type itemPayload struct {
	ItemId       int                  `json:"item_id,omitempty"`
	Section      string               `json:"section"`
	UserId       int                  `json:"user_id"`
	Name         string               `json:"name"`
	Amount       decimal.Decimal      `json:"amount"`
	Type         string               `json:"type"`
	StartDate    string               `json:"start_date"`
	EndDate      *string              `json:"end_date"`
	Transactions []transactionPayload `json:"transactions,omitempty"`
}

type transactionPayload struct {
	TransactionId int             `json:"transaction_id,omitempty"`
	UserId        int             `json:"user_id"`
	ItemId        int             `json:"item_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Date          string          `json:"date"`
}

type categoryPayload struct {
	Name   string `json:"name"`
	ItemId int    `json:"item_id"`
}

type deletedPayload bool

func (c *ClientImpl) GetBudgetItems(ctx context.Context, userId, month, year int) ([]BudgetItem, error) {
	request := struct {
		UserId int `json:"user_id"`
		Month  int `json:"month"`
		Year   int `json:"year"`
	}{userId, month, year}

	var response []itemPayload
	if err := c.do(ctx, http.MethodPost, "/budget/get_budget_items", request, &response); err != nil {
		return nil, err
	}

	items := make([]BudgetItem, 0, len(response))
	for _, p := range response {
		items = append(items, p.toItem())
	}
	return items, nil
}

func (c *ClientImpl) GetTransactions(ctx context.Context, userId int) ([]Transaction, error) {
	request := struct {
		UserId int `json:"user_id"`
	}{userId}

	var response []transactionPayload
	if err := c.do(ctx, http.MethodPost, "/transaction/get_transactions", request, &response); err != nil {
		return nil, err
	}

	txs := make([]Transaction, 0, len(response))
	for _, p := range response {
		txs = append(txs, p.toTransaction())
	}
	return txs, nil
}

func (c *ClientImpl) GetCategories(ctx context.Context, userId int) ([]Category, error) {
	request := struct {
		UserId int `json:"user_id"`
	}{userId}

	var response []categoryPayload
	if err := c.do(ctx, http.MethodPost, "/category/get_categories", request, &response); err != nil {
		return nil, err
	}

	categories := make([]Category, 0, len(response))
	for _, p := range response {
		categories = append(categories, Category{Name: p.Name, ItemId: p.ItemId})
	}
	return categories, nil
}

func (c *ClientImpl) CreateItem(ctx context.Context, item BudgetItem) (BudgetItem, error) {
	var response itemPayload
	if err := c.do(ctx, http.MethodPost, "/budget/create_budget_item", fromItem(item), &response); err != nil {
		return BudgetItem{}, err
	}
	return response.toItem(), nil
}

func (c *ClientImpl) UpdateItem(ctx context.Context, item BudgetItem) (BudgetItem, error) {
	var response itemPayload
	if err := c.do(ctx, http.MethodPost, "/budget/update_budget_item", fromItem(item), &response); err != nil {
		return BudgetItem{}, err
	}
	return response.toItem(), nil
}

func (c *ClientImpl) DeleteItem(ctx context.Context, userId int, section string, itemId int) (bool, error) {
	request := struct {
		Section string `json:"section"`
		UserId  int    `json:"user_id"`
		ItemId  int    `json:"item_id"`
	}{section, userId, itemId}

	var deleted deletedPayload
	if err := c.do(ctx, http.MethodDelete, "/budget/delete_budget_item", request, &deleted); err != nil {
		return false, err
	}
	return bool(deleted), nil
}

func (c *ClientImpl) CreateTransaction(ctx context.Context, tx Transaction) (Transaction, error) {
	request := struct {
		UserId      int             `json:"user_id"`
		ItemId      int             `json:"item_id"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Type        string          `json:"type"`
		Date        string          `json:"date"`
	}{tx.UserId, tx.ItemId, tx.Description, tx.Amount, string(tx.Kind), tx.Date}

	var response transactionPayload
	if err := c.do(ctx, http.MethodPost, "/transaction/create_transaction", request, &response); err != nil {
		return Transaction{}, err
	}
	return response.toTransaction(), nil
}

func (c *ClientImpl) UpdateTransaction(ctx context.Context, tx Transaction) (Transaction, error) {
	var response transactionPayload
	if err := c.do(ctx, http.MethodPost, "/transaction/update_transaction", fromTransaction(tx), &response); err != nil {
		return Transaction{}, err
	}
	return response.toTransaction(), nil
}

func (c *ClientImpl) DeleteTransaction(ctx context.Context, userId, transactionId int) (bool, error) {
	request := struct {
		UserId        int `json:"user_id"`
		TransactionId int `json:"transaction_id"`
	}{userId, transactionId}

	var deleted deletedPayload
	if err := c.do(ctx, http.MethodDelete, "/transaction/delete_transaction", request, &deleted); err != nil {
		return false, err
	}
	return bool(deleted), nil
}

// do sends one JSON request and decodes the JSON response into out. Non-2xx
// responses and transport failures are wrapped in ErrRemote.
func (c *ClientImpl) do(ctx context.Context, method, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Errorf("request to %s failed: %v", path, err)
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Errorf("budget backend returned non-OK status %d for %s", resp.StatusCode, path)
		return fmt.Errorf("%w: status %d on %s", ErrRemote, resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Errorf("failed to decode response from %s: %v", path, err)
		return fmt.Errorf("%w: decoding %s response: %v", ErrRemote, path, err)
	}
	return nil
}

func (p itemPayload) toItem() BudgetItem {
	item := BudgetItem{
		ItemId:    p.ItemId,
		Section:   p.Section,
		UserId:    p.UserId,
		Name:      p.Name,
		Amount:    p.Amount,
		Kind:      Kind(p.Type),
		StartDate: p.StartDate,
	}
	if p.EndDate != nil {
		item.EndDate = *p.EndDate
	}
	item.Transactions = make([]Transaction, 0, len(p.Transactions))
	for _, t := range p.Transactions {
		item.Transactions = append(item.Transactions, t.toTransaction())
	}
	return item
}

func fromItem(item BudgetItem) itemPayload {
	p := itemPayload{
		ItemId:    item.ItemId,
		Section:   item.Section,
		UserId:    item.UserId,
		Name:      item.Name,
		Amount:    item.Amount,
		Type:      string(item.Kind),
		StartDate: item.StartDate,
	}
	if item.EndDate != "" {
		p.EndDate = &item.EndDate
	}
	return p
}

func (p transactionPayload) toTransaction() Transaction {
	return Transaction{
		TransactionId: p.TransactionId,
		UserId:        p.UserId,
		ItemId:        p.ItemId,
		Description:   p.Description,
		Amount:        p.Amount,
		Kind:          Kind(p.Type),
		Date:          p.Date,
	}
}

func fromTransaction(tx Transaction) transactionPayload {
	return transactionPayload{
		TransactionId: tx.TransactionId,
		UserId:        tx.UserId,
		ItemId:        tx.ItemId,
		Description:   tx.Description,
		Amount:        tx.Amount,
		Type:          string(tx.Kind),
		Date:          tx.Date,
	}
}
