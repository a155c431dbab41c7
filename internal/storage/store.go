// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/circles/internal/models"
)

var (
	// ErrNotFound is returned when a lookup by key matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when an insert violates a unique constraint.
	ErrConflict = errors.New("record already exists")

	// ErrConditionFailed is returned when a conditional insert matched no row,
	// i.e. the guard in the statement (quota, membership, ownership) did not hold.
	ErrConditionFailed = errors.New("write condition not satisfied")

	// ErrInvalidReference is returned when an insert names a referenced row
	// (such as a bill category) that does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a user and populates user.ID.
	// Returns ErrConflict if the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByUID returns ErrNotFound if no user has the external id.
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
}

// CircleStore persists circles and their memberships.
type CircleStore interface {
	// CountOwnedCircles returns the number of circles owned by ownerID.
	CountOwnedCircles(ctx context.Context, ownerID int64) (int, error)

	// CreateCircle inserts the circle and the owner's membership row in one
	// transaction, but only while the owner owns fewer than quota circles.
	// Populates circle.ID and circle.CreatedAt.
	// Returns ErrConditionFailed when the quota is already reached.
	CreateCircle(ctx context.Context, circle *models.Circle, quota int) error

	// ListCirclesForUser returns every circle userID has a membership row in,
	// ordered by circle id.
	ListCirclesForUser(ctx context.Context, userID int64) ([]*models.CircleMembership, error)

	// GetMembership returns ErrNotFound if userID is not in circleID.
	GetMembership(ctx context.Context, userID, circleID int64) (*models.CircleMembership, error)

	// AddMember inserts a membership for memberID, conditioned on ownerID
	// owning circleID. Returns ErrConditionFailed when ownerID is not the
	// owner and ErrConflict when memberID is already a member.
	AddMember(ctx context.Context, ownerID, circleID, memberID int64, joinedAt int64) (*models.CircleMembership, error)

	// ListMembers returns the members of circleID if userID is one of them.
	// The membership of userID is part of the query; non-members get an
	// empty result.
	ListMembers(ctx context.Context, userID, circleID int64) ([]*models.Member, error)
}

// ExpenseStore persists bills and reads bill categories.
type ExpenseStore interface {
	// ListBills returns the bills of circleID visible to userID, newest
	// bill_date first, ties by id descending. The membership of userID is
	// part of the query; non-members get an empty result.
	ListBills(ctx context.Context, userID, circleID int64) ([]*models.Bill, error)

	// AddBill inserts the bill if bill.UserID is a member of bill.CircleID.
	// Populates bill.ID and bill.CreatedAt.
	// Returns ErrConditionFailed when the recorder is not a member and
	// ErrInvalidReference when the category does not exist.
	AddBill(ctx context.Context, bill *models.Bill) error

	// RemoveBill deletes billID only if it belongs to circleID and userID is a
	// member of circleID. Returns the number of rows removed.
	RemoveBill(ctx context.Context, userID, billID, circleID int64) (int64, error)

	// ListBillCategories returns all categories ordered by id.
	ListBillCategories(ctx context.Context) ([]*models.BillCategory, error)
}

// BudgetStore persists budgets. Semantics mirror ExpenseStore.
type BudgetStore interface {
	ListBudgets(ctx context.Context, userID, circleID int64) ([]*models.Budget, error)
	AddBudget(ctx context.Context, budget *models.Budget) error
	RemoveBudget(ctx context.Context, userID, budgetID, circleID int64) (int64, error)
}

// Store defines the full persistence surface used by the service layer.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	UserStore
	CircleStore
	ExpenseStore
	BudgetStore

	// Close releases any resources held by the store.
	Close() error
}
