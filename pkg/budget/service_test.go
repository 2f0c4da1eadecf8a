package budget

import (
	"context"
	"testing"

	"github.com/centavo/centavo/internal/test_utils"
	"github.com/centavo/centavo/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1, Uid: "test-user"})

func setupService(t *testing.T) (*ServiceImpl, *ClientStub, *Store) {
	t.Helper()
	clientStub := NewClientStub()
	store := NewStore([]string{"Income", "Food"}, Period{Month: 3, Year: 2024})
	snapshots := NewSnapshotRepository(test_utils.SetupTestDB(t))
	service := NewBudgetService(clientStub, store, snapshots, nil)
	return service, clientStub, store
}

func TestServiceImpl_LoadPeriod(t *testing.T) {
	t.Run("should fetch, normalize and replace the budget", func(t *testing.T) {
		service, clientStub, store := setupService(t)

		// given
		clientStub.Items = []BudgetItem{
			{ItemId: 1, Section: "Income", Name: "Salary", Kind: Income, Amount: decimal.NewFromInt(5000)},
			{ItemId: 2, Section: "Food", Name: "Groceries", Kind: Expense, Amount: decimal.NewFromInt(400)},
		}

		// when
		b, err := service.LoadPeriod(ctx, 3, 2024, false)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 2, b.ItemCount())
		assert.Len(t, b.Items["Income"], 1)
		assert.Equal(t, Period{Month: 3, Year: 2024}, store.Period())
	})

	t.Run("should prime feed and categories on the initial load", func(t *testing.T) {
		service, clientStub, store := setupService(t)

		// given
		clientStub.Items = []BudgetItem{{ItemId: 1, Section: "Food", Name: "Groceries"}}
		clientStub.Transactions = []Transaction{{TransactionId: 9, ItemId: 1, Date: "2024-03-02"}}
		clientStub.Cats = []Category{{Name: "Groceries", ItemId: 1}}

		// when
		_, err := service.LoadPeriod(ctx, 3, 2024, false)

		// then
		assert.NoError(t, err)
		assert.Len(t, store.Feed(), 1)
		assert.Len(t, store.Categories(), 1)
	})

	t.Run("should answer from memory when period is unchanged", func(t *testing.T) {
		service, clientStub, _ := setupService(t)

		// given
		clientStub.Items = []BudgetItem{{ItemId: 1, Section: "Food", Name: "Groceries"}}
		_, err := service.LoadPeriod(ctx, 3, 2024, false)
		require.NoError(t, err)
		clientStub.Fail = true

		// when
		b, err := service.LoadPeriod(ctx, 3, 2024, false)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 1, b.ItemCount())
	})

	t.Run("should serve cached snapshot when backend is unavailable", func(t *testing.T) {
		service, clientStub, _ := setupService(t)

		// given a period was loaded and cached once
		clientStub.Items = []BudgetItem{{ItemId: 1, Section: "Food", Name: "Groceries"}}
		_, err := service.LoadPeriod(ctx, 3, 2024, false)
		require.NoError(t, err)
		clientStub.Fail = true

		// when the same period is force-reloaded while the backend is down
		b, err := service.LoadPeriod(ctx, 3, 2024, true)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 1, b.ItemCount())
	})

	t.Run("should propagate error when backend fails and no snapshot exists", func(t *testing.T) {
		service, clientStub, _ := setupService(t)

		// given
		clientStub.Fail = true

		// when
		_, err := service.LoadPeriod(ctx, 3, 2024, false)

		// then
		assert.ErrorIs(t, err, ErrClientTestError)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, _, _ := setupService(t)

		// when
		_, err := service.LoadPeriod(context.Background(), 3, 2024, false)

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_CreateItem(t *testing.T) {
	t.Run("should apply server-confirmed record with assigned id", func(t *testing.T) {
		service, _, store := setupService(t)

		// when
		created, err := service.CreateItem(ctx, BudgetItem{
			Section: "Food", Name: "Groceries", Kind: Expense,
			Amount: decimal.NewFromInt(400), StartDate: "2024-03-01",
		})

		// then
		assert.NoError(t, err)
		assert.NotZero(t, created.ItemId)
		snapshot := store.Snapshot()
		require.Len(t, snapshot.Items["Food"], 1)
		assert.Equal(t, created.ItemId, snapshot.Items["Food"][0].ItemId)
	})

	t.Run("should not mutate local state when backend fails", func(t *testing.T) {
		service, clientStub, store := setupService(t)

		// given
		clientStub.Fail = true

		// when
		_, err := service.CreateItem(ctx, BudgetItem{
			Section: "Food", Name: "Groceries", Kind: Expense,
			Amount: decimal.NewFromInt(400), StartDate: "2024-03-01",
		})

		// then
		assert.ErrorIs(t, err, ErrClientTestError)
		assert.Equal(t, 0, store.Snapshot().ItemCount())
	})

	t.Run("should reject invalid input before calling the backend", func(t *testing.T) {
		service, clientStub, _ := setupService(t)

		// when
		_, err := service.CreateItem(ctx, BudgetItem{Section: "Food", Kind: Expense, StartDate: "2024-03-01"})

		// then
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, clientStub.Items)
	})
}

func TestServiceImpl_DeleteItem(t *testing.T) {
	t.Run("should remove item locally after backend confirms", func(t *testing.T) {
		service, _, store := setupService(t)

		// given
		created, err := service.CreateItem(ctx, BudgetItem{
			Section: "Food", Name: "Groceries", Kind: Expense,
			Amount: decimal.NewFromInt(400), StartDate: "2024-03-01",
		})
		require.NoError(t, err)

		// when
		deleted, err := service.DeleteItem(ctx, "Food", created.ItemId)

		// then
		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, 0, store.Snapshot().ItemCount())
	})

	t.Run("should keep local state when backend fails", func(t *testing.T) {
		service, clientStub, store := setupService(t)

		// given
		created, err := service.CreateItem(ctx, BudgetItem{
			Section: "Food", Name: "Groceries", Kind: Expense,
			Amount: decimal.NewFromInt(400), StartDate: "2024-03-01",
		})
		require.NoError(t, err)
		clientStub.Fail = true

		// when
		_, err = service.DeleteItem(ctx, "Food", created.ItemId)

		// then
		assert.ErrorIs(t, err, ErrClientTestError)
		assert.Equal(t, 1, store.Snapshot().ItemCount())
	})
}

func TestServiceImpl_CreateTransaction(t *testing.T) {
	t.Run("should add a current-period transaction to budget and feed", func(t *testing.T) {
		service, _, store := setupService(t)

		// given
		item, err := service.CreateItem(ctx, BudgetItem{
			Section: "Food", Name: "Groceries", Kind: Expense,
			Amount: decimal.NewFromInt(400), StartDate: "2024-03-01",
		})
		require.NoError(t, err)

		// when
		created, err := service.CreateTransaction(ctx, Transaction{
			ItemId: item.ItemId, Description: "Supermarket", Kind: Expense,
			Amount: decimal.NewFromInt(52), Date: "2024-03-05",
		})

		// then
		assert.NoError(t, err)
		assert.NotZero(t, created.TransactionId)
		assert.Len(t, store.Snapshot().Items["Food"][0].Transactions, 1)
		_, inFeed := store.FindInFeed(created.TransactionId)
		assert.True(t, inFeed)
	})

	t.Run("should put a past-period transaction in the feed only", func(t *testing.T) {
		service, _, store := setupService(t)

		// given
		item, err := service.CreateItem(ctx, BudgetItem{
			Section: "Food", Name: "Groceries", Kind: Expense,
			Amount: decimal.NewFromInt(400), StartDate: "2024-01-01",
		})
		require.NoError(t, err)

		// when
		created, err := service.CreateTransaction(ctx, Transaction{
			ItemId: item.ItemId, Description: "Old receipt", Kind: Expense,
			Amount: decimal.NewFromInt(30), Date: "2024-01-15",
		})

		// then
		assert.NoError(t, err)
		assert.Empty(t, store.Snapshot().Items["Food"][0].Transactions)
		_, inFeed := store.FindInFeed(created.TransactionId)
		assert.True(t, inFeed)
	})

	t.Run("should not mutate any view when backend fails", func(t *testing.T) {
		service, clientStub, store := setupService(t)

		// given
		item, err := service.CreateItem(ctx, BudgetItem{
			Section: "Food", Name: "Groceries", Kind: Expense,
			Amount: decimal.NewFromInt(400), StartDate: "2024-03-01",
		})
		require.NoError(t, err)
		clientStub.Fail = true

		// when
		_, err = service.CreateTransaction(ctx, Transaction{
			ItemId: item.ItemId, Description: "Supermarket", Kind: Expense,
			Amount: decimal.NewFromInt(52), Date: "2024-03-05",
		})

		// then
		assert.ErrorIs(t, err, ErrClientTestError)
		assert.Empty(t, store.Snapshot().Items["Food"][0].Transactions)
		assert.Empty(t, store.Feed())
	})
}

func TestServiceImpl_UpdateTransaction(t *testing.T) {
	t.Run("should update nested entry and feed for current-period transaction", func(t *testing.T) {
		service, _, store := setupService(t)

		// given
		item, _ := service.CreateItem(ctx, BudgetItem{
			Section: "Food", Name: "Groceries", Kind: Expense,
			Amount: decimal.NewFromInt(400), StartDate: "2024-03-01",
		})
		created, err := service.CreateTransaction(ctx, Transaction{
			ItemId: item.ItemId, Description: "Supermarket", Kind: Expense,
			Amount: decimal.NewFromInt(52), Date: "2024-03-05",
		})
		require.NoError(t, err)

		// when
		updated, err := service.UpdateTransaction(ctx, Transaction{
			TransactionId: created.TransactionId, ItemId: item.ItemId,
			Description: "Supermarket corrected", Kind: Expense,
			Amount: decimal.NewFromInt(55), Date: "2024-03-05",
		})

		// then
		assert.NoError(t, err)
		nested := store.Snapshot().Items["Food"][0].Transactions
		require.Len(t, nested, 1)
		assert.Equal(t, "Supermarket corrected", nested[0].Description)
		inFeed, _ := store.FindInFeed(updated.TransactionId)
		assert.Equal(t, "Supermarket corrected", inFeed.Description)
	})

	t.Run("should drop nested entry when transaction is re-dated out of the period", func(t *testing.T) {
		service, _, store := setupService(t)

		// given
		item, _ := service.CreateItem(ctx, BudgetItem{
			Section: "Food", Name: "Groceries", Kind: Expense,
			Amount: decimal.NewFromInt(400), StartDate: "2024-03-01",
		})
		created, err := service.CreateTransaction(ctx, Transaction{
			ItemId: item.ItemId, Description: "Supermarket", Kind: Expense,
			Amount: decimal.NewFromInt(52), Date: "2024-03-05",
		})
		require.NoError(t, err)

		// when
		_, err = service.UpdateTransaction(ctx, Transaction{
			TransactionId: created.TransactionId, ItemId: item.ItemId,
			Description: "Supermarket", Kind: Expense,
			Amount: decimal.NewFromInt(52), Date: "2024-02-05",
		})

		// then
		assert.NoError(t, err)
		assert.Empty(t, store.Snapshot().Items["Food"][0].Transactions)
		inFeed, ok := store.FindInFeed(created.TransactionId)
		assert.True(t, ok)
		assert.Equal(t, "2024-02-05", inFeed.Date)
	})

	t.Run("should add nested entry when transaction is re-dated into the period", func(t *testing.T) {
		service, _, store := setupService(t)

		// given a past-period transaction known only to the feed
		item, _ := service.CreateItem(ctx, BudgetItem{
			Section: "Food", Name: "Groceries", Kind: Expense,
			Amount: decimal.NewFromInt(400), StartDate: "2024-01-01",
		})
		created, err := service.CreateTransaction(ctx, Transaction{
			ItemId: item.ItemId, Description: "Old receipt", Kind: Expense,
			Amount: decimal.NewFromInt(30), Date: "2024-01-15",
		})
		require.NoError(t, err)

		// when
		_, err = service.UpdateTransaction(ctx, Transaction{
			TransactionId: created.TransactionId, ItemId: item.ItemId,
			Description: "Old receipt", Kind: Expense,
			Amount: decimal.NewFromInt(30), Date: "2024-03-15",
		})

		// then
		assert.NoError(t, err)
		require.Len(t, store.Snapshot().Items["Food"][0].Transactions, 1)
	})
}

func TestServiceImpl_DeleteTransaction(t *testing.T) {
	t.Run("should remove transaction from budget and feed", func(t *testing.T) {
		service, _, store := setupService(t)

		// given
		item, _ := service.CreateItem(ctx, BudgetItem{
			Section: "Food", Name: "Groceries", Kind: Expense,
			Amount: decimal.NewFromInt(400), StartDate: "2024-03-01",
		})
		created, err := service.CreateTransaction(ctx, Transaction{
			ItemId: item.ItemId, Description: "Supermarket", Kind: Expense,
			Amount: decimal.NewFromInt(52), Date: "2024-03-05",
		})
		require.NoError(t, err)

		// when
		deleted, err := service.DeleteTransaction(ctx, created.TransactionId)

		// then
		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.Empty(t, store.Snapshot().Items["Food"][0].Transactions)
		assert.Empty(t, store.Feed())
	})

	t.Run("should keep both views when backend fails", func(t *testing.T) {
		service, clientStub, store := setupService(t)

		// given
		item, _ := service.CreateItem(ctx, BudgetItem{
			Section: "Food", Name: "Groceries", Kind: Expense,
			Amount: decimal.NewFromInt(400), StartDate: "2024-03-01",
		})
		created, err := service.CreateTransaction(ctx, Transaction{
			ItemId: item.ItemId, Description: "Supermarket", Kind: Expense,
			Amount: decimal.NewFromInt(52), Date: "2024-03-05",
		})
		require.NoError(t, err)
		clientStub.Fail = true

		// when
		_, err = service.DeleteTransaction(ctx, created.TransactionId)

		// then
		assert.ErrorIs(t, err, ErrClientTestError)
		assert.Len(t, store.Snapshot().Items["Food"][0].Transactions, 1)
		assert.Len(t, store.Feed(), 1)
	})
}

func TestServiceImpl_LoadTransactions(t *testing.T) {
	t.Run("should replace the feed sorted descending", func(t *testing.T) {
		service, clientStub, _ := setupService(t)

		// given
		clientStub.Transactions = []Transaction{
			{TransactionId: 1, Date: "2024-03-01"},
			{TransactionId: 2, Date: "2024-03-15"},
		}

		// when
		feed, err := service.LoadTransactions(ctx)

		// then
		assert.NoError(t, err)
		require.Len(t, feed, 2)
		assert.Equal(t, 2, feed[0].TransactionId)
	})
}
