package budget

import (
	"github.com/centavo/centavo/internal/event_bus"
	"github.com/centavo/centavo/pkg/user"
	log "github.com/sirupsen/logrus"
)

// RegisterSnapshotListener re-persists the cached snapshot of the current
// period whenever a confirmed mutation changes the in-memory budget, so a
// later offline start sees the mutation too.
func RegisterSnapshotListener(bus *event_bus.EventBus, store *Store, snapshots SnapshotRepository) {
	refresh := func(e event_bus.Event) error {
		userId, err := user.CurrentId(e.Context())
		if err != nil {
			log.Debugf("snapshot listener: no user on %s event, skipping", e.Type)
			return nil
		}
		return snapshots.StoreSnapshot(e.Context(), userId, store.Period(), store.Snapshot().Flatten())
	}

	for _, eventType := range []event_bus.EventType{
		event_bus.BudgetItemCreated,
		event_bus.BudgetItemUpdated,
		event_bus.BudgetItemDeleted,
		event_bus.TransactionCreated,
		event_bus.TransactionUpdated,
		event_bus.TransactionDeleted,
	} {
		bus.Subscribe(eventType, refresh)
	}
}
