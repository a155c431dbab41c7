package circles

import (
	"context"
	"errors"

	"github.com/mmynk/circles/internal/auth"
	"github.com/mmynk/circles/internal/models"
	"github.com/mmynk/circles/internal/storage"
)

// NewBill is the caller-supplied part of a bill.
type NewBill struct {
	CircleID   int64
	Name       string
	Amount     float64
	CategoryID int64
	BillDate   string
}

// ListBills returns the bills of circleID visible to userID, newest bill date
// first and, for equal dates, most recently recorded first. A non-member
// gets an empty list, not an error.
func (s *Service) ListBills(ctx context.Context, userID, circleID int64) ([]*models.Bill, error) {
	return s.store.ListBills(ctx, userID, circleID)
}

// AddBill records a bill in a circle the caller belongs to.
func (s *Service) AddBill(ctx context.Context, who auth.Identity, in NewBill) (*models.Bill, error) {
	bill := &models.Bill{
		CircleID:   in.CircleID,
		UserID:     who.UserID,
		UserUID:    who.UID,
		Name:       in.Name,
		Amount:     in.Amount,
		CategoryID: in.CategoryID,
		BillDate:   in.BillDate,
		CreatedAt:  s.now().Unix(),
	}
	if err := s.store.AddBill(ctx, bill); err != nil {
		switch {
		case errors.Is(err, storage.ErrConditionFailed):
			return nil, ErrNotMember
		case errors.Is(err, storage.ErrInvalidReference):
			return nil, ErrUnknownCategory
		}
		return nil, err
	}
	return bill, nil
}

// RemoveBill deletes billID from circleID and returns the number of rows
// removed. Zero means the bill does not exist, lives in another circle, or
// the caller is not a member; callers must not tell these apart.
func (s *Service) RemoveBill(ctx context.Context, userID, billID, circleID int64) (int64, error) {
	return s.store.RemoveBill(ctx, userID, billID, circleID)
}

// ListBillCategories returns all categories, or nil when there are none.
func (s *Service) ListBillCategories(ctx context.Context) ([]*models.BillCategory, error) {
	categories, err := s.store.ListBillCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, nil
	}
	return categories, nil
}
