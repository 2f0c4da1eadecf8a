package user

import (
	"context"
	"database/sql"
	"testing"

	"github.com/centavo/centavo/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepoImpl(t *testing.T) {
	t.Run("should create and fetch a user", func(t *testing.T) {
		// given
		repo := NewUserRepo(test_utils.SetupTestDB(t))

		// when
		id, err := repo.CreateUser(context.Background(), User{Uid: "uid-1", Email: "ana@example.com", FirstName: "Ana", LastName: "Diaz", Currency: "EUR"})
		require.NoError(t, err)
		fetched, err := repo.GetUser(context.Background(), id)

		// then
		assert.NoError(t, err)
		assert.Equal(t, "uid-1", fetched.Uid)
		assert.Equal(t, "Ana", fetched.FirstName)
		assert.Equal(t, "EUR", fetched.Currency)
	})

	t.Run("should fetch a user by uid", func(t *testing.T) {
		// given
		repo := NewUserRepo(test_utils.SetupTestDB(t))
		_, err := repo.CreateUser(context.Background(), User{Uid: "uid-2", Email: "bo@example.com"})
		require.NoError(t, err)

		// when
		fetched, err := repo.GetUserByUid(context.Background(), "uid-2")

		// then
		assert.NoError(t, err)
		assert.Equal(t, "bo@example.com", fetched.Email)
	})

	t.Run("should return no rows for unknown uid", func(t *testing.T) {
		// given
		repo := NewUserRepo(test_utils.SetupTestDB(t))

		// when
		_, err := repo.GetUserByUid(context.Background(), "missing")

		// then
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("should reject a duplicate uid", func(t *testing.T) {
		// given
		repo := NewUserRepo(test_utils.SetupTestDB(t))
		_, err := repo.CreateUser(context.Background(), User{Uid: "uid-3", Email: "first@example.com"})
		require.NoError(t, err)

		// when
		_, err = repo.CreateUser(context.Background(), User{Uid: "uid-3", Email: "second@example.com"})

		// then
		assert.Error(t, err)
	})

	t.Run("should update an existing user", func(t *testing.T) {
		// given
		repo := NewUserRepo(test_utils.SetupTestDB(t))
		id, err := repo.CreateUser(context.Background(), User{Uid: "uid-4", Email: "ana@example.com", Currency: "USD"})
		require.NoError(t, err)

		// when
		updated, err := repo.UpdateUser(context.Background(), id, User{Email: "ana@example.com", Currency: "EUR"})
		require.NoError(t, err)
		fetched, err := repo.GetUser(context.Background(), id)

		// then
		assert.NoError(t, err)
		assert.Equal(t, "EUR", updated.Currency)
		assert.Equal(t, "EUR", fetched.Currency)
	})

	t.Run("should fail updating a missing user", func(t *testing.T) {
		// given
		repo := NewUserRepo(test_utils.SetupTestDB(t))

		// when
		_, err := repo.UpdateUser(context.Background(), 999, User{Email: "ghost@example.com"})

		// then
		assert.Error(t, err)
	})

	t.Run("should delete a user", func(t *testing.T) {
		// given
		repo := NewUserRepo(test_utils.SetupTestDB(t))
		id, err := repo.CreateUser(context.Background(), User{Uid: "uid-5", Email: "ana@example.com"})
		require.NoError(t, err)

		// when
		err = repo.DeleteUser(context.Background(), id)
		require.NoError(t, err)
		_, err = repo.GetUser(context.Background(), id)

		// then
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}
