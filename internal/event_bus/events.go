package event_bus

// Event types published by the budget service after a mutation has been
// confirmed by the backend and applied locally.
const (
	BudgetReplaced     EventType = "budget.replaced"
	BudgetItemCreated  EventType = "budget.item.created"
	BudgetItemUpdated  EventType = "budget.item.updated"
	BudgetItemDeleted  EventType = "budget.item.deleted"
	TransactionCreated EventType = "transaction.created"
	TransactionUpdated EventType = "transaction.updated"
	TransactionDeleted EventType = "transaction.deleted"
)

// BudgetReplacedEvent announces that a freshly loaded period replaced the
// in-memory budget.
type BudgetReplacedEvent struct {
	UserId int
	Month  int
	Year   int
	// Stale is true when the replacement came from the local snapshot cache
	// rather than the backend.
	Stale bool
}

// BudgetItemEvent announces a confirmed budget item mutation.
type BudgetItemEvent struct {
	UserId  int
	ItemId  int
	Section string
}

// TransactionEvent announces a confirmed transaction mutation.
type TransactionEvent struct {
	UserId        int
	TransactionId int
	ItemId        int
	Date          string
}
