package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vbonduro/pantryinv/internal/domain"
)

// ItemStore keeps a snapshot of the working pantry list. Rows are keyed by
// list position, so the stored order is the list order.
type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

// ReplaceAll overwrites the stored snapshot with items in one transaction.
func (s *ItemStore) ReplaceAll(ctx context.Context, items []*domain.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (position, item_id, name, category, quantity, expires_on) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			slog.Error("failed to close statement", "error", err)
		}
	}()

	for pos, item := range items {
		var expiresOn *string
		if item.ExpiresOn != nil {
			d := item.ExpiresOn.Format(domain.DateLayout)
			expiresOn = &d
		}
		if _, err := stmt.ExecContext(ctx, pos, item.ID, item.Name, item.Category, item.Quantity, expiresOn); err != nil {
			return fmt.Errorf("failed to insert item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit items: %w", err)
	}
	return nil
}

func (s *ItemStore) List(ctx context.Context) ([]*domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, name, category, quantity, expires_on FROM items ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	items := make([]*domain.Item, 0)
	for rows.Next() {
		item := &domain.Item{}
		var expiresOn sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Quantity, &expiresOn); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if expiresOn.Valid {
			d, err := domain.ParseDate(expiresOn.String)
			if err != nil {
				return nil, fmt.Errorf("invalid expiration date for item %q: %w", item.Name, err)
			}
			item.ExpiresOn = &d
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}
