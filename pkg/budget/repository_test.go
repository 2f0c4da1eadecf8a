package budget

import (
	"context"
	"testing"

	"github.com/centavo/centavo/internal/test_utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRepositoryImpl(t *testing.T) {
	period := Period{Month: 3, Year: 2024}

	t.Run("should store and read back a snapshot", func(t *testing.T) {
		// given
		repo := NewSnapshotRepository(test_utils.SetupTestDB(t))
		items := []BudgetItem{
			{ItemId: 1, Section: "Income", Name: "Salary", Kind: Income, Amount: decimal.NewFromInt(5000)},
			{ItemId: 2, Section: "Food", Name: "Groceries", Kind: Expense, Amount: decimal.NewFromInt(400)},
		}

		// when
		err := repo.StoreSnapshot(context.Background(), 1, period, items)
		require.NoError(t, err)
		loaded, fetchedAt, err := repo.GetSnapshot(context.Background(), 1, period)

		// then
		assert.NoError(t, err)
		assert.False(t, fetchedAt.IsZero())
		require.Len(t, loaded, 2)
		assert.Equal(t, "Salary", loaded[0].Name)
		assert.True(t, loaded[0].Amount.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("should overwrite an existing snapshot for the same period", func(t *testing.T) {
		// given
		repo := NewSnapshotRepository(test_utils.SetupTestDB(t))
		require.NoError(t, repo.StoreSnapshot(context.Background(), 1, period, []BudgetItem{{ItemId: 1, Section: "Food"}}))

		// when
		err := repo.StoreSnapshot(context.Background(), 1, period, []BudgetItem{
			{ItemId: 1, Section: "Food"},
			{ItemId: 2, Section: "Food"},
		})
		require.NoError(t, err)
		loaded, _, err := repo.GetSnapshot(context.Background(), 1, period)

		// then
		assert.NoError(t, err)
		assert.Len(t, loaded, 2)
	})

	t.Run("should keep snapshots of different users apart", func(t *testing.T) {
		// given
		repo := NewSnapshotRepository(test_utils.SetupTestDB(t))
		require.NoError(t, repo.StoreSnapshot(context.Background(), 1, period, []BudgetItem{{ItemId: 1, Section: "Food"}}))

		// when
		_, _, err := repo.GetSnapshot(context.Background(), 2, period)

		// then
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("should return not found for a missing period", func(t *testing.T) {
		// given
		repo := NewSnapshotRepository(test_utils.SetupTestDB(t))

		// when
		_, _, err := repo.GetSnapshot(context.Background(), 1, Period{Month: 1, Year: 2020})

		// then
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("should delete a snapshot", func(t *testing.T) {
		// given
		repo := NewSnapshotRepository(test_utils.SetupTestDB(t))
		require.NoError(t, repo.StoreSnapshot(context.Background(), 1, period, []BudgetItem{{ItemId: 1, Section: "Food"}}))

		// when
		err := repo.DeleteSnapshot(context.Background(), 1, period)
		require.NoError(t, err)
		_, _, err = repo.GetSnapshot(context.Background(), 1, period)

		// then
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})
}
