package circles

import (
	"context"
	"errors"

	"github.com/mmynk/circles/internal/auth"
	"github.com/mmynk/circles/internal/models"
	"github.com/mmynk/circles/internal/storage"
)

// NewBudget is the caller-supplied part of a budget.
type NewBudget struct {
	CircleID  int64
	Name      string
	Amount    float64
	StartDate string
	EndDate   string
}

// ListBudgets returns the budgets of circleID visible to userID, newest start
// date first, ties by most recently created.
func (s *Service) ListBudgets(ctx context.Context, userID, circleID int64) ([]*models.Budget, error) {
	return s.store.ListBudgets(ctx, userID, circleID)
}

// AddBudget records a budget in a circle the caller belongs to.
func (s *Service) AddBudget(ctx context.Context, who auth.Identity, in NewBudget) (*models.Budget, error) {
	budget := &models.Budget{
		CircleID:  in.CircleID,
		UserID:    who.UserID,
		UserUID:   who.UID,
		Name:      in.Name,
		Amount:    in.Amount,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		CreatedAt: s.now().Unix(),
	}
	if err := s.store.AddBudget(ctx, budget); err != nil {
		if errors.Is(err, storage.ErrConditionFailed) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return budget, nil
}

// RemoveBudget mirrors RemoveBill.
func (s *Service) RemoveBudget(ctx context.Context, userID, budgetID, circleID int64) (int64, error) {
	return s.store.RemoveBudget(ctx, userID, budgetID, circleID)
}
