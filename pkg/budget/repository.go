package budget

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository caches the last successfully fetched budget items per
// user and period in the local database. When the backend is unreachable the
// service serves the cached snapshot instead of nothing; a stale view is the
// documented worst case.
type SnapshotRepository interface {
	StoreSnapshot(ctx context.Context, userId int, period Period, items []BudgetItem) error
	GetSnapshot(ctx context.Context, userId int, period Period) ([]BudgetItem, time.Time, error)
	DeleteSnapshot(ctx context.Context, userId int, period Period) error
}

type SnapshotRepositoryImpl struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepositoryImpl {
	return &SnapshotRepositoryImpl{db: db}
}

func (r *SnapshotRepositoryImpl) StoreSnapshot(ctx context.Context, userId int, period Period, items []BudgetItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}

	query := `INSERT INTO period_snapshot (user_id, month, year, payload, fetched_at)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT (user_id, month, year) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`
	_, err = r.db.ExecContext(ctx, query, userId, period.Month, period.Year, string(payload), time.Now().UTC())
	if err != nil {
		err := fmt.Errorf("could not store snapshot: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *SnapshotRepositoryImpl) GetSnapshot(ctx context.Context, userId int, period Period) ([]BudgetItem, time.Time, error) {
	query := `SELECT payload, fetched_at FROM period_snapshot WHERE user_id = ? AND month = ? AND year = ?`

	var payload string
	var fetchedAt time.Time
	err := r.db.QueryRowContext(ctx, query, userId, period.Month, period.Year).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrSnapshotNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query snapshot: %w", err)
		log.Error(err)
		return nil, time.Time{}, err
	}

	var items []BudgetItem
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, time.Time{}, fmt.Errorf("could not decode snapshot: %w", err)
	}
	return items, fetchedAt, nil
}

func (r *SnapshotRepositoryImpl) DeleteSnapshot(ctx context.Context, userId int, period Period) error {
	query := `DELETE FROM period_snapshot WHERE user_id = ? AND month = ? AND year = ?`
	if _, err := r.db.ExecContext(ctx, query, userId, period.Month, period.Year); err != nil {
		err := fmt.Errorf("could not delete snapshot: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
