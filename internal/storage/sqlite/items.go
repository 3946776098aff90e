package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/tallyup/tallyup/internal/apperr"
	"github.com/tallyup/tallyup/internal/models"
)

// CreateItem persists a new line item.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.ExpenseItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO expense_items (id, expense_id, name, amount, currency) VALUES (?, ?, ?, ?, ?)",
		item.ID, item.ExpenseID, item.Name, decimalString(item.Amount), item.Currency,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// GetItem retrieves an item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, itemID string) (*models.ExpenseItem, error) {
	item := &models.ExpenseItem{}
	var amount string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, expense_id, name, amount, currency FROM expense_items WHERE id = ?",
		itemID,
	).Scan(&item.ID, &item.ExpenseID, &item.Name, &amount, &item.Currency)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("item not found: %s", itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if item.Amount, err = scanDecimal(amount); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem updates an item's name, amount and currency.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.ExpenseItem) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expense_items SET name = ?, amount = ?, currency = ? WHERE id = ?",
		item.Name, decimalString(item.Amount), item.Currency, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("item not found: %s", item.ID)
	}
	return nil
}

// DeleteItem removes an item; its shares cascade.
func (s *SQLiteStore) DeleteItem(ctx context.Context, itemID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expense_items WHERE id = ?", itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("item not found: %s", itemID)
	}
	return nil
}

// ListItems returns all items of an expense.
func (s *SQLiteStore) ListItems(ctx context.Context, expenseID string) ([]models.ExpenseItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, expense_id, name, amount, currency FROM expense_items WHERE expense_id = ? ORDER BY id",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []models.ExpenseItem
	for rows.Next() {
		var item models.ExpenseItem
		var amount string
		if err := rows.Scan(&item.ID, &item.ExpenseID, &item.Name, &amount, &item.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if item.Amount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}
