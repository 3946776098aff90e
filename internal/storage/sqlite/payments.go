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

// CreatePayment persists a new payment to the database.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.ExpensePayment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	var receipt any = nil
	if payment.ReceiptRef != "" {
		receipt = payment.ReceiptRef
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expense_payments (id, expense_id, user_id, amount, status, receipt_ref, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.ExpenseID, payment.UserID,
		decimalString(payment.Amount), string(payment.Status), receipt, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, paymentID string) (*models.ExpensePayment, error) {
	payment := &models.ExpensePayment{}
	var amount, status string
	var receipt sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, expense_id, user_id, amount, status, receipt_ref, created_at
		 FROM expense_payments WHERE id = ?`,
		paymentID,
	).Scan(&payment.ID, &payment.ExpenseID, &payment.UserID,
		&amount, &status, &receipt, &payment.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("payment not found: %s", paymentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.Amount, err = scanDecimal(amount); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentStatus(status)
	if receipt.Valid {
		payment.ReceiptRef = receipt.String
	}
	return payment, nil
}

// UpdatePaymentStatus sets a payment's verification status.
func (s *SQLiteStore) UpdatePaymentStatus(ctx context.Context, paymentID string, status models.PaymentStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expense_payments SET status = ? WHERE id = ?",
		string(status), paymentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("payment not found: %s", paymentID)
	}
	return nil
}

// AttachReceipt sets a payment's receipt reference.
func (s *SQLiteStore) AttachReceipt(ctx context.Context, paymentID, receiptRef string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expense_payments SET receipt_ref = ? WHERE id = ?",
		receiptRef, paymentID,
	)
	if err != nil {
		return fmt.Errorf("failed to attach receipt: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("payment not found: %s", paymentID)
	}
	return nil
}

// HasReceipt reports whether any payment on the expense already carries the
// given receipt reference.
func (s *SQLiteStore) HasReceipt(ctx context.Context, expenseID, receiptRef string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM expense_payments WHERE expense_id = ? AND receipt_ref = ?",
		expenseID, receiptRef,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check receipt existence: %w", err)
	}
	return true, nil
}

// ListPayments returns all payments toward an expense.
func (s *SQLiteStore) ListPayments(ctx context.Context, expenseID string) ([]models.ExpensePayment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, expense_id, user_id, amount, status, receipt_ref, created_at
		 FROM expense_payments WHERE expense_id = ?
		 ORDER BY created_at, id`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.ExpensePayment
	for rows.Next() {
		var payment models.ExpensePayment
		var amount, status string
		var receipt sql.NullString

		if err := rows.Scan(&payment.ID, &payment.ExpenseID, &payment.UserID,
			&amount, &status, &receipt, &payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if payment.Amount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		payment.Status = models.PaymentStatus(status)
		if receipt.Valid {
			payment.ReceiptRef = receipt.String
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}
