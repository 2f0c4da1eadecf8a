package budget

import (
	log "github.com/sirupsen/logrus"
)

// Normalize converts a flat list of section-tagged budget items, as returned
// by the backend for one period, into a section-keyed Budget.
//
// Items tagged with a section outside the taxonomy are dropped and reported;
// everything else is still placed. One malformed record must not block an
// otherwise-successful period load.
func Normalize(items []BudgetItem, sections []string) Budget {
	b := NewBudget(sections)
	for _, item := range items {
		if _, ok := b.Items[item.Section]; !ok {
			log.Warnf("unknown section %q on budget item %d (%q), dropping item", item.Section, item.ItemId, item.Name)
			continue
		}
		b.Items[item.Section] = append(b.Items[item.Section], item)
	}
	return b
}
