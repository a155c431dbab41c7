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

const insertBudgetQuery = `
	INSERT INTO budgets (circle_id, user_id, name, amount, start_date, end_date, created_at)
	SELECT m.circle_id, m.user_id, CAST(? AS TEXT), CAST(? AS DOUBLE PRECISION), CAST(? AS TEXT), CAST(? AS TEXT), CAST(? AS BIGINT)
	FROM circle_members m
	WHERE m.circle_id = ? AND m.user_id = ?
	RETURNING id
`

const listBudgetsQuery = `
	SELECT b.id, b.circle_id, b.user_id, u.uid AS user_uid, b.name, b.amount, b.start_date, b.end_date, b.created_at
	FROM budgets b
	JOIN circle_members m ON m.circle_id = b.circle_id AND m.user_id = ?
	JOIN users u ON u.id = b.user_id
	WHERE b.circle_id = ?
	ORDER BY b.start_date DESC, b.id DESC
`

const removeBudgetQuery = `
	DELETE FROM budgets
	WHERE id = ? AND circle_id = ?
	  AND EXISTS (SELECT 1 FROM circle_members m WHERE m.circle_id = budgets.circle_id AND m.user_id = ?)
`

// ListBudgets returns the circle's budgets visible to userID.
func (s *Store) ListBudgets(ctx context.Context, userID, circleID int64) ([]*models.Budget, error) {
	var budgets []*models.Budget
	if err := s.db.SelectContext(ctx, &budgets, s.q(listBudgetsQuery), userID, circleID); err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// AddBudget persists a new budget created by a member of the circle.
func (s *Store) AddBudget(ctx context.Context, budget *models.Budget) error {
	if budget.CreatedAt == 0 {
		budget.CreatedAt = time.Now().Unix()
	}

	err := s.db.QueryRowxContext(ctx, s.q(insertBudgetQuery),
		budget.Name, budget.Amount, budget.StartDate, budget.EndDate, budget.CreatedAt,
		budget.CircleID, budget.UserID,
	).Scan(&budget.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrConditionFailed
	}
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}

	return nil
}

// RemoveBudget deletes a budget scoped to its circle and the caller's membership.
func (s *Store) RemoveBudget(ctx context.Context, userID, budgetID, circleID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q(removeBudgetQuery), budgetID, circleID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete budget: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted budget count: %w", err)
	}

	return removed, nil
}
