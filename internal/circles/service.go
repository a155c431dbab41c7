// Package circles holds the authorization and consistency rules for circles:
// who may see or change a circle's bills and budgets, and how many circles a
// user may own. Every rule is enforced in the same storage statement that
// reads or writes the data, never as a separate check followed by a write.
package circles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/circles/internal/auth"
	"github.com/mmynk/circles/internal/models"
	"github.com/mmynk/circles/internal/storage"
)

// DefaultCircleQuota is the number of circles a single user may own.
const DefaultCircleQuota = 2

// Store is the persistence the rules are evaluated against.
type Store interface {
	storage.CircleStore
	storage.ExpenseStore
	storage.BudgetStore
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service composes storage calls under the circle rules. It holds no
// per-request state; the caller's identity is passed to each method.
type Service struct {
	store Store
	quota int
	now   func() time.Time
}

// NewService creates a Service. A quota <= 0 selects DefaultCircleQuota.
func NewService(store Store, quota int) *Service {
	if quota <= 0 {
		quota = DefaultCircleQuota
	}
	return &Service{store: store, quota: quota, now: time.Now}
}

// Quota returns the per-owner circle limit in effect.
func (s *Service) Quota() int {
	return s.quota
}

// CanCreateCircle returns nil if ownerID owns fewer circles than the quota,
// ErrQuotaExceeded otherwise.
func (s *Service) CanCreateCircle(ctx context.Context, ownerID int64) error {
	count, err := s.store.CountOwnedCircles(ctx, ownerID)
	if err != nil {
		return err
	}
	if count >= s.quota {
		return ErrQuotaExceeded
	}
	return nil
}

// CreateCircle creates a circle owned by the caller. The quota is checked up
// front for a cheap denial and enforced again by the conditional insert, so
// concurrent requests cannot exceed it.
func (s *Service) CreateCircle(ctx context.Context, who auth.Identity, name string) (*models.Circle, error) {
	if err := s.CanCreateCircle(ctx, who.UserID); err != nil {
		return nil, err
	}

	circle := &models.Circle{
		Name:      name,
		OwnerID:   who.UserID,
		CreatedAt: s.now().Unix(),
	}
	if err := s.store.CreateCircle(ctx, circle, s.quota); err != nil {
		if errors.Is(err, storage.ErrConditionFailed) {
			return nil, ErrQuotaExceeded
		}
		return nil, err
	}

	return circle, nil
}

// ListCirclesForUser returns every circle userID belongs to. A user with no
// memberships gets ErrNotFound rather than an empty list.
func (s *Service) ListCirclesForUser(ctx context.Context, userID int64) ([]*models.CircleMembership, error) {
	circles, err := s.store.ListCirclesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(circles) == 0 {
		return nil, fmt.Errorf("no circles for user: %w", ErrNotFound)
	}
	return circles, nil
}

// AddMember adds the user registered under email to circleID. Only the owner
// may add members. The result describes the new member as other members see it.
//
// Ownership is checked before the email is looked up, so a caller who does
// not own circleID gets ErrNotOwner whether or not the email is registered.
// The insert stays conditioned on ownership.
func (s *Service) AddMember(ctx context.Context, who auth.Identity, circleID int64, email string) (*models.Member, error) {
	caller, err := s.store.GetMembership(ctx, who.UserID, circleID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotOwner
	}
	if err != nil {
		return nil, err
	}
	if !caller.IsOwner {
		return nil, ErrNotOwner
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	membership, err := s.store.AddMember(ctx, who.UserID, circleID, user.ID, s.now().Unix())
	switch {
	case errors.Is(err, storage.ErrConditionFailed):
		return nil, ErrNotOwner
	case errors.Is(err, storage.ErrConflict):
		return nil, ErrAlreadyMember
	case err != nil:
		return nil, err
	}
	return &models.Member{
		UserID:    user.ID,
		UID:       user.UID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsOwner:   membership.IsOwner,
		JoinedAt:  membership.JoinedAt,
	}, nil
}

// ListMembers returns the members of circleID. Non-members get ErrNotMember.
func (s *Service) ListMembers(ctx context.Context, userID, circleID int64) ([]*models.Member, error) {
	members, err := s.store.ListMembers(ctx, userID, circleID)
	if err != nil {
		return nil, err
	}
	// A circle always contains its owner, so an empty result means the
	// caller is not in it.
	if len(members) == 0 {
		return nil, ErrNotMember
	}
	return members, nil
}
