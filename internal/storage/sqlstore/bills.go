package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/circles/internal/models"
	"github.com/mmynk/circles/internal/storage"
)

// The recorder's membership row is the source row of the insert: no
// membership, no bill.
const insertBillQuery = `
	INSERT INTO bills (circle_id, user_id, name, amount, category_id, bill_date, created_at)
	SELECT m.circle_id, m.user_id, CAST(? AS TEXT), CAST(? AS DOUBLE PRECISION), CAST(? AS BIGINT), CAST(? AS TEXT), CAST(? AS BIGINT)
	FROM circle_members m
	WHERE m.circle_id = ? AND m.user_id = ?
	RETURNING id
`

const listBillsQuery = `
	SELECT b.id, b.circle_id, b.user_id, u.uid AS user_uid, b.name, b.amount, b.category_id, b.bill_date, b.created_at
	FROM bills b
	JOIN circle_members m ON m.circle_id = b.circle_id AND m.user_id = ?
	JOIN users u ON u.id = b.user_id
	WHERE b.circle_id = ?
	ORDER BY b.bill_date DESC, b.id DESC
`

const removeBillQuery = `
	DELETE FROM bills
	WHERE id = ? AND circle_id = ?
	  AND EXISTS (SELECT 1 FROM circle_members m WHERE m.circle_id = bills.circle_id AND m.user_id = ?)
`

// ListBills returns the circle's bills visible to userID.
func (s *Store) ListBills(ctx context.Context, userID, circleID int64) ([]*models.Bill, error) {
	var bills []*models.Bill
	if err := s.db.SelectContext(ctx, &bills, s.q(listBillsQuery), userID, circleID); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

// AddBill persists a new bill recorded by a member of the circle.
func (s *Store) AddBill(ctx context.Context, bill *models.Bill) error {
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	err := s.db.QueryRowxContext(ctx, s.q(insertBillQuery),
		bill.Name, bill.Amount, bill.CategoryID, bill.BillDate, bill.CreatedAt,
		bill.CircleID, bill.UserID,
	).Scan(&bill.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrConditionFailed
	}
	// Membership and circle are guaranteed by the statement, so the only
	// reference that can dangle is the category.
	if isForeignKeyViolation(err) {
		return fmt.Errorf("failed to insert bill: category %d: %w", bill.CategoryID, storage.ErrInvalidReference)
	}
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	return nil
}

// RemoveBill deletes a bill scoped to its circle and the caller's membership.
func (s *Store) RemoveBill(ctx context.Context, userID, billID, circleID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q(removeBillQuery), billID, circleID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete bill: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted bill count: %w", err)
	}

	return removed, nil
}

// ListBillCategories returns every bill category ordered by id.
// The result is nil when no categories exist.
func (s *Store) ListBillCategories(ctx context.Context) ([]*models.BillCategory, error) {
	var categories []*models.BillCategory
	if err := s.db.SelectContext(ctx, &categories, `SELECT id, name FROM bill_categories ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list bill categories: %w", err)
	}
	return categories, nil
}
