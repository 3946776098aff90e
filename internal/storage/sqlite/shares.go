package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallyup/tallyup/internal/apperr"
	"github.com/tallyup/tallyup/internal/models"
)

// CreateShare persists a new item share with its derived values.
func (s *SQLiteStore) CreateShare(ctx context.Context, share *models.ExpenseItemShare) error {
	if share.ID == "" {
		share.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO item_shares (id, item_id, user_id, percent, value, base_value)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		share.ID, share.ItemID, share.UserID,
		nullDecimalString(share.Percent),
		nullDecimalString(share.Value),
		nullDecimalString(share.BaseValue),
	)
	if err != nil {
		return fmt.Errorf("failed to insert share: %w", err)
	}
	return nil
}

// GetShare retrieves a share by ID.
func (s *SQLiteStore) GetShare(ctx context.Context, shareID string) (*models.ExpenseItemShare, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, item_id, user_id, percent, value, base_value FROM item_shares WHERE id = ?",
		shareID,
	)
	share, err := scanShare(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("share not found: %s", shareID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	return share, nil
}

// UpdateShareValues writes back a share's declared percent and derived
// original/base values after (re)computation.
func (s *SQLiteStore) UpdateShareValues(ctx context.Context, shareID string, percent, value, baseValue *decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE item_shares SET percent = ?, value = ?, base_value = ? WHERE id = ?",
		nullDecimalString(percent), nullDecimalString(value), nullDecimalString(baseValue), shareID,
	)
	if err != nil {
		return fmt.Errorf("failed to update share values: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("share not found: %s", shareID)
	}
	return nil
}

// DeleteShare removes a share.
func (s *SQLiteStore) DeleteShare(ctx context.Context, shareID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM item_shares WHERE id = ?", shareID)
	if err != nil {
		return fmt.Errorf("failed to delete share: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("share not found: %s", shareID)
	}
	return nil
}

// ListSharesByItem returns all shares of one item.
func (s *SQLiteStore) ListSharesByItem(ctx context.Context, itemID string) ([]models.ExpenseItemShare, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item_id, user_id, percent, value, base_value
		 FROM item_shares WHERE item_id = ? ORDER BY user_id, id`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares by item: %w", err)
	}
	defer rows.Close()
	return collectShares(rows)
}

// ListSharesByExpense returns all shares across all items of an expense.
func (s *SQLiteStore) ListSharesByExpense(ctx context.Context, expenseID string) ([]models.ExpenseItemShare, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sh.id, sh.item_id, sh.user_id, sh.percent, sh.value, sh.base_value
		 FROM item_shares sh
		 JOIN expense_items i ON i.id = sh.item_id
		 WHERE i.expense_id = ?
		 ORDER BY sh.user_id, sh.id`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares by expense: %w", err)
	}
	defer rows.Close()
	return collectShares(rows)
}

func scanShare(row rowScanner) (*models.ExpenseItemShare, error) {
	share := &models.ExpenseItemShare{}
	var percent, value, baseValue sql.NullString

	err := row.Scan(&share.ID, &share.ItemID, &share.UserID, &percent, &value, &baseValue)
	if err != nil {
		return nil, err
	}

	if share.Percent, err = scanNullDecimal(percent); err != nil {
		return nil, err
	}
	if share.Value, err = scanNullDecimal(value); err != nil {
		return nil, err
	}
	if share.BaseValue, err = scanNullDecimal(baseValue); err != nil {
		return nil, err
	}
	return share, nil
}

func collectShares(rows *sql.Rows) ([]models.ExpenseItemShare, error) {
	var shares []models.ExpenseItemShare
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, *share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}
