package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vbonduro/pantryinv/internal/domain"
	"github.com/vbonduro/pantryinv/internal/filestore"
	"github.com/vbonduro/pantryinv/internal/flatfile"
	"github.com/vbonduro/pantryinv/internal/inventory"
)

// itemRepository is the subset of store.ItemStore that PantryService requires.
type itemRepository interface {
	ReplaceAll(ctx context.Context, items []*domain.Item) error
	List(ctx context.Context) ([]*domain.Item, error)
}

// PantryService serializes every user action against one inventory and keeps
// the sqlite snapshot in step with it after each change.
type PantryService struct {
	mu        sync.Mutex
	inv       *inventory.Inventory
	itemStore itemRepository
	files     filestore.FileStore
	now       func() time.Time
	logger    *slog.Logger
}

func NewPantryService(itemStore itemRepository, files filestore.FileStore, logger *slog.Logger) *PantryService {
	return &PantryService{
		inv:       inventory.New(),
		itemStore: itemStore,
		files:     files,
		now:       time.Now,
		logger:    logger,
	}
}

// SetClock replaces the clock used for expiry checks.
func (s *PantryService) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Today returns the current date according to the service clock.
func (s *PantryService) Today() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

// Restore replaces the in-memory list with the stored snapshot.
func (s *PantryService) Restore(ctx context.Context) error {
	items, err := s.itemStore.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore items: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.Replace(items)
	s.logger.Info("inventory restored", "items", len(items))
	return nil
}

// AddItem appends a new item. Incomplete input (empty name or category, or a
// quantity that is not positive) is skipped: the returned item and error are
// both nil.
func (s *PantryService) AddItem(ctx context.Context, name, category string, quantity int, expiresOn *time.Time) (*domain.Item, error) {
	if name == "" || category == "" || quantity <= 0 {
		s.logger.Debug("add item skipped", "name", name, "category", category, "quantity", quantity)
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := &domain.Item{
		ID:        s.inv.NextID(),
		Name:      name,
		Category:  category,
		Quantity:  quantity,
		ExpiresOn: expiresOn,
	}
	s.inv.Add(item)

	if err := s.sync(ctx); err != nil {
		_ = s.inv.Remove(item)
		return nil, err
	}
	s.logger.Info("item added", "id", item.ID, "name", name, "category", category, "quantity", quantity)
	return item.Clone(), nil
}

// DispenseAt takes one unit from the item at list position pos and returns a
// copy of the item as it stands afterwards.
func (s *PantryService) DispenseAt(ctx context.Context, pos int) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.inv.At(pos)
	if err != nil {
		return nil, err
	}
	if err := s.inv.Dispense(item); err != nil {
		if errors.Is(err, inventory.ErrOutOfStock) {
			s.logger.Info("dispense rejected", "id", item.ID, "name", item.Name, "reason", "out of stock")
		}
		return item.Clone(), err
	}

	if err := s.sync(ctx); err != nil {
		item.Quantity++
		return nil, err
	}
	s.logger.Info("item dispensed", "id", item.ID, "name", item.Name, "remaining", item.Quantity)
	return item.Clone(), nil
}

// RemoveAt deletes the item at list position pos.
func (s *PantryService) RemoveAt(ctx context.Context, pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.inv.At(pos)
	if err != nil {
		return err
	}
	before := s.inv.Items()
	if err := s.inv.Remove(item); err != nil {
		return err
	}

	if err := s.sync(ctx); err != nil {
		s.inv.Replace(before)
		return err
	}
	s.logger.Info("item removed", "id", item.ID, "name", item.Name)
	return nil
}

// Entry is a private copy of one item together with its position in the
// full list. Entries are safe to read after the service lock is released.
type Entry struct {
	Pos  int
	Item domain.Item
}

// entries copies items, tagging each with its position in the full list.
// Callers hold s.mu.
func (s *PantryService) entries(items []*domain.Item) []Entry {
	positions := make(map[*domain.Item]int, s.inv.Len())
	for i, item := range s.inv.Items() {
		positions[item] = i
	}
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		out = append(out, Entry{Pos: positions[item], Item: *item.Clone()})
	}
	return out
}

func (s *PantryService) ListItems(ctx context.Context) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries(s.inv.Items())
}

func (s *PantryService) FilterByCategory(ctx context.Context, category string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries(s.inv.FilterByCategory(category))
}

// ListExpired returns items that expired before today.
func (s *PantryService) ListExpired(ctx context.Context) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries(s.inv.ListExpired(s.now()))
}

func (s *PantryService) CategoryCounts(ctx context.Context) []domain.CategoryCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.CategoryCounts()
}

// Export writes the current list to the named file in the flat format. The
// list is copied under the lock, so the file is a consistent snapshot even
// while other requests change stock.
func (s *PantryService) Export(ctx context.Context, name string) error {
	s.mu.Lock()
	items := cloneAll(s.inv.Items())
	s.mu.Unlock()

	w, err := s.files.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create export: %w", err)
	}
	if err := flatfile.Write(w, items); err != nil {
		filestore.Discard(w)
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish export: %w", err)
	}

	s.logger.Info("inventory exported", "file", name, "items", len(items))
	return nil
}

// Import replaces the list with the contents of the named file. The file is
// parsed completely before anything changes, so a malformed file leaves the
// current list as it was.
func (s *PantryService) Import(ctx context.Context, name string) ([]Entry, error) {
	r, err := s.files.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer func() {
		if err := r.Close(); err != nil {
			s.logger.Error("failed to close export", "file", name, "error", err)
		}
	}()

	items, err := flatfile.Read(r)
	if err != nil {
		s.logger.Warn("import rejected", "file", name, "error", err)
		return nil, fmt.Errorf("failed to parse export: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.inv.Items()
	s.inv.Replace(items)
	if err := s.sync(ctx); err != nil {
		s.inv.Replace(before)
		return nil, err
	}

	s.logger.Info("inventory imported", "file", name, "items", len(items))
	return s.entries(s.inv.Items()), nil
}

func (s *PantryService) ListExports(ctx context.Context) ([]string, error) {
	return s.files.List(ctx)
}

func (s *PantryService) DeleteExport(ctx context.Context, name string) error {
	if err := s.files.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete export: %w", err)
	}
	s.logger.Info("export deleted", "file", name)
	return nil
}

func cloneAll(items []*domain.Item) []*domain.Item {
	out := make([]*domain.Item, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// sync writes the current list to the snapshot store. Callers hold s.mu.
func (s *PantryService) sync(ctx context.Context) error {
	if err := s.itemStore.ReplaceAll(ctx, s.inv.Items()); err != nil {
		s.logger.Error("failed to persist inventory", "error", err)
		return fmt.Errorf("failed to persist inventory: %w", err)
	}
	return nil
}
