package budget

import (
	"context"
	"errors"
)

var ErrClientTestError = errors.New("client test error")

// ClientStub is an in-memory Client used by service tests. It assigns ids
// the way the backend would and can be switched into a failing mode.
type ClientStub struct {
	nextId       int
	Items        []BudgetItem
	Transactions []Transaction
	Cats         []Category
	// Fail makes every call return ErrClientTestError.
	Fail bool
}

func NewClientStub() *ClientStub {
	return &ClientStub{nextId: 100}
}

func (s *ClientStub) Cleanup() {
	s.nextId = 100
	s.Items = nil
	s.Transactions = nil
	s.Cats = nil
	s.Fail = false
}

func (s *ClientStub) GetBudgetItems(ctx context.Context, userId, month, year int) ([]BudgetItem, error) {
	if s.Fail {
		return nil, ErrClientTestError
	}
	return append([]BudgetItem(nil), s.Items...), nil
}

func (s *ClientStub) GetTransactions(ctx context.Context, userId int) ([]Transaction, error) {
	if s.Fail {
		return nil, ErrClientTestError
	}
	return append([]Transaction(nil), s.Transactions...), nil
}

func (s *ClientStub) GetCategories(ctx context.Context, userId int) ([]Category, error) {
	if s.Fail {
		return nil, ErrClientTestError
	}
	return append([]Category(nil), s.Cats...), nil
}

func (s *ClientStub) CreateItem(ctx context.Context, item BudgetItem) (BudgetItem, error) {
	if s.Fail {
		return BudgetItem{}, ErrClientTestError
	}
	s.nextId++
	item.ItemId = s.nextId
	s.Items = append(s.Items, item)
	return item, nil
}

func (s *ClientStub) UpdateItem(ctx context.Context, item BudgetItem) (BudgetItem, error) {
	if s.Fail {
		return BudgetItem{}, ErrClientTestError
	}
	for i := range s.Items {
		if s.Items[i].ItemId == item.ItemId {
			s.Items[i] = item
		}
	}
	return item, nil
}

func (s *ClientStub) DeleteItem(ctx context.Context, userId int, section string, itemId int) (bool, error) {
	if s.Fail {
		return false, ErrClientTestError
	}
	for i := range s.Items {
		if s.Items[i].ItemId == itemId {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *ClientStub) CreateTransaction(ctx context.Context, tx Transaction) (Transaction, error) {
	if s.Fail {
		return Transaction{}, ErrClientTestError
	}
	s.nextId++
	tx.TransactionId = s.nextId
	s.Transactions = append(s.Transactions, tx)
	return tx, nil
}

func (s *ClientStub) UpdateTransaction(ctx context.Context, tx Transaction) (Transaction, error) {
	if s.Fail {
		return Transaction{}, ErrClientTestError
	}
	for i := range s.Transactions {
		if s.Transactions[i].TransactionId == tx.TransactionId {
			s.Transactions[i] = tx
		}
	}
	return tx, nil
}

func (s *ClientStub) DeleteTransaction(ctx context.Context, userId, transactionId int) (bool, error) {
	if s.Fail {
		return false, ErrClientTestError
	}
	for i := range s.Transactions {
		if s.Transactions[i].TransactionId == transactionId {
			s.Transactions = append(s.Transactions[:i], s.Transactions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
