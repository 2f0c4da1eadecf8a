package budget

import "github.com/shopspring/decimal"

// Kind tells whether a budget item or transaction adds to or takes from the
// budget. Amounts are always non-negative; direction is carried here.
type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// DefaultSections is the taxonomy a budget starts with. Additional sections
// can be appended through configuration, but the set is fixed at runtime.
var DefaultSections = []string{"Income", "Home", "Food", "Transportation", "Subscriptions"}

// BudgetItem is a planned allocation of money within a section.
type BudgetItem struct {
	ItemId    int
	Section   string
	UserId    int
	Name      string
	Amount    decimal.Decimal
	Kind      Kind
	StartDate string
	// EndDate is empty for open-ended items.
	EndDate      string
	Transactions []Transaction
}

// Transaction is an actual monetary event recorded against a budget item.
type Transaction struct {
	// TransactionId is 0 while the record is pending creation; the
	// authoritative id is assigned by the backend.
	TransactionId int
	UserId        int
	// ItemId routes the transaction to its owning budget item. 0 means
	// uncategorized.
	ItemId      int
	Description string
	Amount      decimal.Decimal
	Kind        Kind
	// Date is an ISO calendar date (YYYY-MM-DD).
	Date string
}

// Category is a (name, item id) pair used to populate selection inputs when
// recording transactions. It is sourced from the backend and never mutated
// locally.
type Category struct {
	Name   string
	ItemId int
}

// Budget is the aggregate root: an ordered set of sections, each holding the
// budget items planned for the current reporting period.
type Budget struct {
	Sections []string
	Items    map[string][]BudgetItem
}

// NewBudget returns an empty budget over the given section taxonomy.
func NewBudget(sections []string) Budget {
	items := make(map[string][]BudgetItem, len(sections))
	for _, s := range sections {
		items[s] = []BudgetItem{}
	}
	return Budget{Sections: append([]string(nil), sections...), Items: items}
}

// Flatten returns all budget items in section order.
func (b Budget) Flatten() []BudgetItem {
	flat := make([]BudgetItem, 0)
	for _, section := range b.Sections {
		flat = append(flat, b.Items[section]...)
	}
	return flat
}

// ItemCount returns the total number of budget items across all sections.
func (b Budget) ItemCount() int {
	count := 0
	for _, section := range b.Sections {
		count += len(b.Items[section])
	}
	return count
}

func (b Budget) clone() Budget {
	out := NewBudget(b.Sections)
	for section, items := range b.Items {
		copied := make([]BudgetItem, len(items))
		for i, item := range items {
			item.Transactions = append([]Transaction(nil), item.Transactions...)
			copied[i] = item
		}
		out.Items[section] = copied
	}
	return out
}
