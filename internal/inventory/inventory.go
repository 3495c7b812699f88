// Package inventory holds the ordered in-memory list of pantry items.
//
// An Inventory is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
package inventory

import (
	"errors"
	"time"

	"github.com/vbonduro/pantryinv/internal/domain"
)

var (
	// ErrNotFound is returned when an item is not part of the list.
	ErrNotFound = errors.New("item not found")
	// ErrOutOfStock is returned when dispensing an item whose quantity is zero.
	ErrOutOfStock = errors.New("item is out of stock")
)

type Inventory struct {
	items []*domain.Item
}

func New() *Inventory {
	return &Inventory{}
}

// Add appends item to the end of the list. Duplicates are allowed.
func (inv *Inventory) Add(item *domain.Item) {
	inv.items = append(inv.items, item)
}

// NextID returns the identifier the next added item should carry.
func (inv *Inventory) NextID() int64 {
	return int64(len(inv.items)) + 1
}

// Remove deletes the first entry that is the same item (pointer identity).
func (inv *Inventory) Remove(item *domain.Item) error {
	idx := inv.indexOf(item)
	if idx < 0 {
		return ErrNotFound
	}
	inv.items = append(inv.items[:idx], inv.items[idx+1:]...)
	return nil
}

// Dispense takes one unit of item out of stock.
func (inv *Inventory) Dispense(item *domain.Item) error {
	if inv.indexOf(item) < 0 {
		return ErrNotFound
	}
	if item.Quantity <= 0 {
		return ErrOutOfStock
	}
	item.Quantity--
	return nil
}

// FilterByCategory returns items whose category equals category exactly.
func (inv *Inventory) FilterByCategory(category string) []*domain.Item {
	matched := make([]*domain.Item, 0)
	for _, item := range inv.items {
		if item.Category == category {
			matched = append(matched, item)
		}
	}
	return matched
}

// ListExpired returns items whose expiration date is strictly before asOf's date.
func (inv *Inventory) ListExpired(asOf time.Time) []*domain.Item {
	expired := make([]*domain.Item, 0)
	for _, item := range inv.items {
		if item.ExpiredAsOf(asOf) {
			expired = append(expired, item)
		}
	}
	return expired
}

// CategoryCounts counts items per category in order of first appearance.
func (inv *Inventory) CategoryCounts() []domain.CategoryCount {
	counts := make([]domain.CategoryCount, 0)
	index := make(map[string]int)
	for _, item := range inv.items {
		i, ok := index[item.Category]
		if !ok {
			index[item.Category] = len(counts)
			counts = append(counts, domain.CategoryCount{Category: item.Category, Items: 1})
			continue
		}
		counts[i].Items++
	}
	return counts
}

// At returns the item at position pos (zero-based).
func (inv *Inventory) At(pos int) (*domain.Item, error) {
	if pos < 0 || pos >= len(inv.items) {
		return nil, ErrNotFound
	}
	return inv.items[pos], nil
}

// Items returns a copy of the list. The items themselves are shared.
func (inv *Inventory) Items() []*domain.Item {
	out := make([]*domain.Item, len(inv.items))
	copy(out, inv.items)
	return out
}

func (inv *Inventory) Len() int {
	return len(inv.items)
}

// Replace discards the current list and takes items in their given order.
func (inv *Inventory) Replace(items []*domain.Item) {
	inv.items = make([]*domain.Item, len(items))
	copy(inv.items, items)
}

func (inv *Inventory) indexOf(item *domain.Item) int {
	for i, it := range inv.items {
		if it == item {
			return i
		}
	}
	return -1
}
