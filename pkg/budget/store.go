package budget

import (
	"errors"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
)

var ErrSectionNotFound = errors.New("section not found")
var ErrItemNotFound = errors.New("budget item not found")
var ErrTransactionNotFound = errors.New("transaction not found")

// Store is the aggregation engine. It owns the normalized budget for the
// current reporting period, the flat all-transactions feed, the category
// reference list, and the period itself.
//
// The store is an explicitly constructed value, not a singleton: tests and
// callers create as many independent instances as they need. Mutations go
// through the methods below; readers only ever get copies, so the store
// remains the single writer of its structures.
//
// The budget and the feed are deliberately separate: a transaction recorded
// for a past period must appear in the feed but never inside the
// currently-displayed budget, which only holds the active period.
type Store struct {
	mu         sync.RWMutex
	budget     Budget
	feed       []Transaction
	categories []Category
	period     Period

	// sectionByItem indexes item id to owning section so transaction routing
	// does not scan every section. Maintained in lockstep with budget.
	sectionByItem map[int]string
}

// NewStore creates an empty store over the given section taxonomy, reporting
// on the given period.
func NewStore(sections []string, period Period) *Store {
	return &Store{
		budget:        NewBudget(sections),
		feed:          []Transaction{},
		categories:    []Category{},
		period:        period,
		sectionByItem: map[int]string{},
	}
}

// Sections returns the fixed section taxonomy.
func (s *Store) Sections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.budget.Sections...)
}

// Period returns the reporting period the budget currently covers.
func (s *Store) Period() Period {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.period
}

// Snapshot returns a deep copy of the current budget for reading.
func (s *Store) Snapshot() Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.budget.clone()
}

// Feed returns a copy of the flat transaction feed, sorted by date
// descending.
func (s *Store) Feed() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Transaction(nil), s.feed...)
}

// Categories returns a copy of the category reference list.
func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Category(nil), s.categories...)
}

// Replace swaps in a freshly normalized budget for the given period. Periods
// replace each other wholesale; budgets are never merged.
func (s *Store) Replace(b Budget, period Period) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = b.clone()
	s.period = period
	s.reindex()
}

// ReplaceFeed swaps in the authoritative all-transactions list.
func (s *Store) ReplaceFeed(txs []Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed = append([]Transaction(nil), txs...)
	sortFeed(s.feed)
}

// ReplaceCategories swaps in the category reference list.
func (s *Store) ReplaceCategories(categories []Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]Category(nil), categories...)
}

// AddItem appends a budget item to its section. The caller is responsible
// for not submitting the same item twice; ids are not deduplicated here.
func (s *Store) AddItem(item BudgetItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budget.Items[item.Section]; !ok {
		log.Warnf("cannot add budget item %d: %v: %q", item.ItemId, ErrSectionNotFound, item.Section)
		return ErrSectionNotFound
	}
	s.budget.Items[item.Section] = append(s.budget.Items[item.Section], item)
	s.sectionByItem[item.ItemId] = item.Section
	return nil
}

// UpdateItem replaces the item with the same id inside its section. Returns
// ErrItemNotFound, leaving state untouched, when the id is absent.
func (s *Store) UpdateItem(item BudgetItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.budget.Items[item.Section]
	if !ok {
		log.Warnf("cannot update budget item %d: %v: %q", item.ItemId, ErrSectionNotFound, item.Section)
		return ErrSectionNotFound
	}
	for i := range items {
		if items[i].ItemId == item.ItemId {
			items[i] = item
			return nil
		}
	}
	log.Warnf("cannot update budget item %d in section %q: %v", item.ItemId, item.Section, ErrItemNotFound)
	return ErrItemNotFound
}

// RemoveItem filters the item out of the given section. Returns
// ErrItemNotFound when the id is absent so lost deletes are observable.
func (s *Store) RemoveItem(section string, itemId int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.budget.Items[section]
	if !ok {
		log.Warnf("cannot remove budget item %d: %v: %q", itemId, ErrSectionNotFound, section)
		return ErrSectionNotFound
	}
	for i := range items {
		if items[i].ItemId == itemId {
			s.budget.Items[section] = append(items[:i:i], items[i+1:]...)
			delete(s.sectionByItem, itemId)
			return nil
		}
	}
	log.Warnf("cannot remove budget item %d from section %q: %v", itemId, section, ErrItemNotFound)
	return ErrItemNotFound
}

// AddTransaction appends the transaction to the nested list of its owning
// budget item. It does not touch the flat feed; AddToFeed is a separate
// operation because past-period transactions belong in the feed only.
func (s *Store) AddTransaction(tx Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, idx, err := s.locate(tx.ItemId)
	if err != nil {
		return err
	}
	items := s.budget.Items[item.Section]
	items[idx].Transactions = append(items[idx].Transactions, tx)
	return nil
}

// UpdateTransaction replaces the nested transaction with the same
// transaction id under its owning budget item.
func (s *Store) UpdateTransaction(tx Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, idx, err := s.locate(tx.ItemId)
	if err != nil {
		return err
	}
	nested := s.budget.Items[item.Section][idx].Transactions
	for i := range nested {
		if nested[i].TransactionId == tx.TransactionId {
			nested[i] = tx
			return nil
		}
	}
	log.Warnf("cannot update transaction %d under budget item %d: %v", tx.TransactionId, tx.ItemId, ErrTransactionNotFound)
	return ErrTransactionNotFound
}

// DeleteTransaction removes the nested transaction with the same transaction
// id from its owning budget item.
func (s *Store) DeleteTransaction(tx Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, idx, err := s.locate(tx.ItemId)
	if err != nil {
		return err
	}
	nested := s.budget.Items[item.Section][idx].Transactions
	for i := range nested {
		if nested[i].TransactionId == tx.TransactionId {
			s.budget.Items[item.Section][idx].Transactions = append(nested[:i:i], nested[i+1:]...)
			return nil
		}
	}
	log.Warnf("cannot delete transaction %d under budget item %d: %v", tx.TransactionId, tx.ItemId, ErrTransactionNotFound)
	return ErrTransactionNotFound
}

// AddToFeed appends a transaction to the flat feed and re-sorts it.
func (s *Store) AddToFeed(tx Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed = append(s.feed, tx)
	sortFeed(s.feed)
}

// UpdateFeed replaces the feed entry with the same transaction id and
// re-sorts, since the date may have changed.
func (s *Store) UpdateFeed(tx Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.feed {
		if s.feed[i].TransactionId == tx.TransactionId {
			s.feed[i] = tx
			sortFeed(s.feed)
			return nil
		}
	}
	log.Warnf("cannot update transaction %d in feed: %v", tx.TransactionId, ErrTransactionNotFound)
	return ErrTransactionNotFound
}

// DeleteFromFeed removes the feed entry with the same transaction id.
func (s *Store) DeleteFromFeed(tx Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.feed {
		if s.feed[i].TransactionId == tx.TransactionId {
			s.feed = append(s.feed[:i:i], s.feed[i+1:]...)
			return nil
		}
	}
	log.Warnf("cannot delete transaction %d from feed: %v", tx.TransactionId, ErrTransactionNotFound)
	return ErrTransactionNotFound
}

// FindInFeed returns the feed entry with the given transaction id.
func (s *Store) FindInFeed(transactionId int) (Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tx := range s.feed {
		if tx.TransactionId == transactionId {
			return tx, true
		}
	}
	return Transaction{}, false
}

// locate resolves an item id to its budget item via the section index.
// Callers must hold the lock.
func (s *Store) locate(itemId int) (BudgetItem, int, error) {
	section, ok := s.sectionByItem[itemId]
	if !ok {
		log.Warnf("no budget item with id %d in any section: %v", itemId, ErrItemNotFound)
		return BudgetItem{}, 0, ErrItemNotFound
	}
	items := s.budget.Items[section]
	for i := range items {
		if items[i].ItemId == itemId {
			return items[i], i, nil
		}
	}
	// Index out of step with the budget; repair and report.
	delete(s.sectionByItem, itemId)
	log.Warnf("stale index entry for budget item %d, removed: %v", itemId, ErrItemNotFound)
	return BudgetItem{}, 0, ErrItemNotFound
}

func (s *Store) reindex() {
	s.sectionByItem = make(map[int]string)
	for section, items := range s.budget.Items {
		for _, item := range items {
			s.sectionByItem[item.ItemId] = section
		}
	}
}

// sortFeed orders the feed by date descending. The sort is stable so entries
// sharing a date keep their relative order. ISO dates compare correctly as
// strings. A full re-sort per edit is O(n log n) but the feed holds hundreds
// of entries, not millions.
func sortFeed(feed []Transaction) {
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Date > feed[j].Date
	})
}
