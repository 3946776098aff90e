package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tallyup/tallyup/internal/apperr"
	"github.com/tallyup/tallyup/internal/models"
)

// CreateExpense persists a new expense to the database.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	var snapshot any = nil
	if expense.RateSnapshot != "" {
		snapshot = expense.RateSnapshot
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, payer_id, amount, rate_snapshot, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PayerID,
		decimalString(expense.Amount), snapshot, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, payer_id, amount, rate_snapshot, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	)
	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("expense not found: %s", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// DeleteExpense removes an expense; items, shares and payments cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("expense not found: %s", expenseID)
	}
	return nil
}

// ListExpensesWithUserShare returns every expense in which the user holds at
// least one item share.
func (s *SQLiteStore) ListExpensesWithUserShare(ctx context.Context, userID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT e.id, e.group_id, e.payer_id, e.amount, e.rate_snapshot, e.created_at
		 FROM expenses e
		 JOIN expense_items i ON i.expense_id = e.id
		 JOIN item_shares sh ON sh.item_id = i.id
		 WHERE sh.user_id = ?
		 ORDER BY e.created_at, e.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses with user share: %w", err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

// ListExpensesByPayer returns every expense the user paid for.
func (s *SQLiteStore) ListExpensesByPayer(ctx context.Context, userID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, payer_id, amount, rate_snapshot, created_at
		 FROM expenses WHERE payer_id = ?
		 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by payer: %w", err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var amount string
	var snapshot sql.NullString

	err := row.Scan(&expense.ID, &expense.GroupID, &expense.PayerID,
		&amount, &snapshot, &expense.CreatedAt)
	if err != nil {
		return nil, err
	}

	if expense.Amount, err = scanDecimal(amount); err != nil {
		return nil, err
	}
	if snapshot.Valid {
		expense.RateSnapshot = snapshot.String
	}
	return expense, nil
}

func collectExpenses(rows *sql.Rows) ([]models.Expense, error) {
	var expenses []models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}
