package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/centavo/centavo/internal/event_bus"
	"github.com/centavo/centavo/pkg/user"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidInput = errors.New("invalid input")

// Service coordinates one user action end to end: validate locally, persist
// through the backend, then apply the server-confirmed record to the store.
// On a backend failure no local mutation happens and the error propagates
// exactly one level, to the initiating handler. Nothing is retried.
type Service interface {
	// LoadPeriod makes (month, year) the current reporting period. A load
	// for the period already held is answered from memory without a fetch.
	LoadPeriod(ctx context.Context, month, year int, force bool) (Budget, error)
	LoadTransactions(ctx context.Context) ([]Transaction, error)
	LoadCategories(ctx context.Context) ([]Category, error)
	CreateItem(ctx context.Context, item BudgetItem) (BudgetItem, error)
	UpdateItem(ctx context.Context, item BudgetItem) (BudgetItem, error)
	DeleteItem(ctx context.Context, section string, itemId int) (bool, error)
	CreateTransaction(ctx context.Context, tx Transaction) (Transaction, error)
	UpdateTransaction(ctx context.Context, tx Transaction) (Transaction, error)
	DeleteTransaction(ctx context.Context, transactionId int) (bool, error)
}

type ServiceImpl struct {
	client    Client
	store     *Store
	snapshots SnapshotRepository
	eventBus  *event_bus.EventBus
}

func NewBudgetService(client Client, store *Store, snapshots SnapshotRepository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{client: client, store: store, snapshots: snapshots, eventBus: eventBus}
}

func (s *ServiceImpl) LoadPeriod(ctx context.Context, month, year int, force bool) (Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	period := Period{Month: month, Year: year}
	if !force && period == s.store.Period() && s.store.Snapshot().ItemCount() > 0 {
		return s.store.Snapshot(), nil
	}

	stale := false
	items, err := s.client.GetBudgetItems(ctx, userId, month, year)
	if err != nil {
		cached, fetchedAt, cacheErr := s.snapshots.GetSnapshot(ctx, userId, period)
		if cacheErr != nil {
			return Budget{}, err
		}
		log.Warnf("backend unavailable, serving snapshot of %d-%02d fetched at %s: %v", year, month, fetchedAt.Format(time.RFC3339), err)
		items = cached
		stale = true
	}

	normalized := Normalize(items, s.store.Sections())
	s.store.Replace(normalized, period)

	if !stale {
		if err := s.snapshots.StoreSnapshot(ctx, userId, period, items); err != nil {
			log.Warnf("failed to cache snapshot for %d-%02d: %v", year, month, err)
		}
		s.primeReferenceData(ctx, userId)
	}
	s.publish(ctx, event_bus.BudgetReplaced, event_bus.BudgetReplacedEvent{UserId: userId, Month: month, Year: year, Stale: stale})
	return s.store.Snapshot(), nil
}

// primeReferenceData fills an empty feed and category list after the first
// successful period load. Failures are logged, not propagated; the budget
// itself loaded fine.
func (s *ServiceImpl) primeReferenceData(ctx context.Context, userId int) {
	if len(s.store.Feed()) == 0 {
		if txs, err := s.client.GetTransactions(ctx, userId); err != nil {
			log.Warnf("failed to load transaction feed: %v", err)
		} else {
			s.store.ReplaceFeed(txs)
		}
	}
	if len(s.store.Categories()) == 0 {
		if categories, err := s.client.GetCategories(ctx, userId); err != nil {
			log.Warnf("failed to load categories: %v", err)
		} else {
			s.store.ReplaceCategories(categories)
		}
	}
}

func (s *ServiceImpl) LoadTransactions(ctx context.Context) ([]Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	txs, err := s.client.GetTransactions(ctx, userId)
	if err != nil {
		// Keep showing whatever the feed already holds.
		return nil, err
	}
	s.store.ReplaceFeed(txs)
	return s.store.Feed(), nil
}

func (s *ServiceImpl) LoadCategories(ctx context.Context) ([]Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	categories, err := s.client.GetCategories(ctx, userId)
	if err != nil {
		return nil, err
	}
	s.store.ReplaceCategories(categories)
	return s.store.Categories(), nil
}

func (s *ServiceImpl) CreateItem(ctx context.Context, item BudgetItem) (BudgetItem, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return BudgetItem{}, fmt.Errorf("failed to get current user: %w", err)
	}
	item.UserId = userId
	if err := validateItem(item); err != nil {
		return BudgetItem{}, err
	}

	confirmed, err := s.client.CreateItem(ctx, item)
	if err != nil {
		return BudgetItem{}, err
	}
	if err := s.store.AddItem(confirmed); err != nil {
		log.Warnf("confirmed budget item %d not applied locally: %v", confirmed.ItemId, err)
	}
	s.publish(ctx, event_bus.BudgetItemCreated, event_bus.BudgetItemEvent{UserId: userId, ItemId: confirmed.ItemId, Section: confirmed.Section})
	return confirmed, nil
}

func (s *ServiceImpl) UpdateItem(ctx context.Context, item BudgetItem) (BudgetItem, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return BudgetItem{}, fmt.Errorf("failed to get current user: %w", err)
	}
	item.UserId = userId
	if err := validateItem(item); err != nil {
		return BudgetItem{}, err
	}

	confirmed, err := s.client.UpdateItem(ctx, item)
	if err != nil {
		return BudgetItem{}, err
	}
	if err := s.store.UpdateItem(confirmed); err != nil {
		log.Warnf("confirmed budget item %d not applied locally: %v", confirmed.ItemId, err)
	}
	s.publish(ctx, event_bus.BudgetItemUpdated, event_bus.BudgetItemEvent{UserId: userId, ItemId: confirmed.ItemId, Section: confirmed.Section})
	return confirmed, nil
}

func (s *ServiceImpl) DeleteItem(ctx context.Context, section string, itemId int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.client.DeleteItem(ctx, userId, section, itemId)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("budget item %d not deleted, probably because it does not exist or the user (%d) is not the owner", itemId, userId)
		return false, nil
	}
	if err := s.store.RemoveItem(section, itemId); err != nil {
		log.Warnf("deleted budget item %d not removed locally: %v", itemId, err)
	}
	s.publish(ctx, event_bus.BudgetItemDeleted, event_bus.BudgetItemEvent{UserId: userId, ItemId: itemId, Section: section})
	return true, nil
}

func (s *ServiceImpl) CreateTransaction(ctx context.Context, tx Transaction) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	tx.UserId = userId
	if err := validateTransaction(tx); err != nil {
		return Transaction{}, err
	}

	confirmed, err := s.client.CreateTransaction(ctx, tx)
	if err != nil {
		return Transaction{}, err
	}

	// A transaction dated in the current period joins the aggregate budget;
	// any transaction joins the flat feed.
	if s.store.Period().Contains(confirmed.Date) {
		if err := s.store.AddTransaction(confirmed); err != nil {
			log.Warnf("confirmed transaction %d not applied to budget: %v", confirmed.TransactionId, err)
		}
	}
	s.store.AddToFeed(confirmed)
	s.publish(ctx, event_bus.TransactionCreated, event_bus.TransactionEvent{UserId: userId, TransactionId: confirmed.TransactionId, ItemId: confirmed.ItemId, Date: confirmed.Date})
	return confirmed, nil
}

func (s *ServiceImpl) UpdateTransaction(ctx context.Context, tx Transaction) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	tx.UserId = userId
	if err := validateTransaction(tx); err != nil {
		return Transaction{}, err
	}
	previous, hadPrevious := s.store.FindInFeed(tx.TransactionId)

	confirmed, err := s.client.UpdateTransaction(ctx, tx)
	if err != nil {
		return Transaction{}, err
	}

	period := s.store.Period()
	switch {
	case period.Contains(confirmed.Date):
		if err := s.store.UpdateTransaction(confirmed); errors.Is(err, ErrTransactionNotFound) {
			// The transaction was re-dated into the current period; it has
			// no nested entry yet.
			if err := s.store.AddTransaction(confirmed); err != nil {
				log.Warnf("confirmed transaction %d not applied to budget: %v", confirmed.TransactionId, err)
			}
		} else if err != nil {
			log.Warnf("confirmed transaction %d not applied to budget: %v", confirmed.TransactionId, err)
		}
	case hadPrevious && period.Contains(previous.Date):
		// Re-dated out of the current period; drop the nested entry.
		if err := s.store.DeleteTransaction(previous); err != nil {
			log.Warnf("transaction %d not removed from budget: %v", previous.TransactionId, err)
		}
	}
	if err := s.store.UpdateFeed(confirmed); err != nil {
		log.Warnf("confirmed transaction %d not applied to feed: %v", confirmed.TransactionId, err)
	}
	s.publish(ctx, event_bus.TransactionUpdated, event_bus.TransactionEvent{UserId: userId, TransactionId: confirmed.TransactionId, ItemId: confirmed.ItemId, Date: confirmed.Date})
	return confirmed, nil
}

func (s *ServiceImpl) DeleteTransaction(ctx context.Context, transactionId int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	previous, hadPrevious := s.store.FindInFeed(transactionId)

	deleted, err := s.client.DeleteTransaction(ctx, userId, transactionId)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("transaction %d not deleted, probably because it does not exist or the user (%d) is not the owner", transactionId, userId)
		return false, nil
	}

	if hadPrevious {
		if s.store.Period().Contains(previous.Date) {
			if err := s.store.DeleteTransaction(previous); err != nil {
				log.Warnf("deleted transaction %d not removed from budget: %v", transactionId, err)
			}
		}
		if err := s.store.DeleteFromFeed(previous); err != nil {
			log.Warnf("deleted transaction %d not removed from feed: %v", transactionId, err)
		}
	}
	s.publish(ctx, event_bus.TransactionDeleted, event_bus.TransactionEvent{UserId: userId, TransactionId: transactionId, ItemId: previous.ItemId, Date: previous.Date})
	return true, nil
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s event: %v", eventType, err)
	}
}

func validateItem(item BudgetItem) error {
	if item.Name == "" {
		return fmt.Errorf("%w: budget item name is required", ErrInvalidInput)
	}
	if item.Section == "" {
		return fmt.Errorf("%w: budget item section is required", ErrInvalidInput)
	}
	if item.Kind != Income && item.Kind != Expense {
		return fmt.Errorf("%w: budget item type must be income or expense", ErrInvalidInput)
	}
	if item.Amount.IsNegative() {
		return fmt.Errorf("%w: budget item amount must not be negative", ErrInvalidInput)
	}
	if !isValidDate(item.StartDate) {
		return fmt.Errorf("%w: start date must be in YYYY-MM-DD format", ErrInvalidInput)
	}
	if item.EndDate != "" && !isValidDate(item.EndDate) {
		return fmt.Errorf("%w: end date must be in YYYY-MM-DD format", ErrInvalidInput)
	}
	return nil
}

func validateTransaction(tx Transaction) error {
	if tx.Description == "" {
		return fmt.Errorf("%w: transaction description is required", ErrInvalidInput)
	}
	if tx.Kind != Income && tx.Kind != Expense {
		return fmt.Errorf("%w: transaction type must be income or expense", ErrInvalidInput)
	}
	if tx.Amount.IsNegative() {
		return fmt.Errorf("%w: transaction amount must not be negative", ErrInvalidInput)
	}
	if !isValidDate(tx.Date) {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}
	return nil
}

func isValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
