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

// insertCircleQuery inserts a circle only while the owner is under quota.
// The count and the insert are one statement, so two concurrent creations
// cannot both slip under the limit.
const insertCircleQuery = `
	INSERT INTO circles (name, owner_id, created_at)
	SELECT CAST(? AS TEXT), CAST(? AS BIGINT), CAST(? AS BIGINT)
	WHERE (SELECT COUNT(*) FROM circles WHERE owner_id = ?) < ?
	RETURNING id
`

// insertMemberQuery adds a member only if ownerID owns the circle.
const insertMemberQuery = `
	INSERT INTO circle_members (circle_id, user_id, is_owner, joined_at)
	SELECT o.circle_id, CAST(? AS BIGINT), FALSE, CAST(? AS BIGINT)
	FROM circle_members o
	WHERE o.circle_id = ? AND o.user_id = ? AND o.is_owner = TRUE
	RETURNING circle_id
`

const membershipColumns = `c.id AS circle_id, c.name AS circle_name, m.user_id, m.is_owner, m.joined_at`

// CountOwnedCircles returns how many circles ownerID currently owns.
func (s *Store) CountOwnedCircles(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, s.q(`SELECT COUNT(*) FROM circles WHERE owner_id = ?`), ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to count owned circles: %w", err)
	}
	return count, nil
}

// CreateCircle persists a circle and its owner membership in one transaction.
func (s *Store) CreateCircle(ctx context.Context, circle *models.Circle, quota int) error {
	if circle.CreatedAt == 0 {
		circle.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// PostgreSQL runs at READ COMMITTED, where the conditional insert alone
	// does not serialize two creations by the same owner. Lock the owner row.
	// SQLite already holds the write lock from BEGIN IMMEDIATE.
	if s.dialect == Postgres {
		if _, err := tx.ExecContext(ctx, s.q(`SELECT id FROM users WHERE id = ? FOR UPDATE`), circle.OwnerID); err != nil {
			return fmt.Errorf("failed to lock owner: %w", err)
		}
	}

	err = tx.QueryRowxContext(ctx, s.q(insertCircleQuery),
		circle.Name, circle.OwnerID, circle.CreatedAt,
		circle.OwnerID, quota,
	).Scan(&circle.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrConditionFailed
	}
	if err != nil {
		return fmt.Errorf("failed to insert circle: %w", err)
	}

	// The owner's own row has no joined_at.
	_, err = tx.ExecContext(ctx,
		s.q(`INSERT INTO circle_members (circle_id, user_id, is_owner, joined_at) VALUES (?, ?, ?, NULL)`),
		circle.ID, circle.OwnerID, true,
	)
	if err != nil {
		return fmt.Errorf("failed to insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListCirclesForUser returns the circles userID belongs to, ordered by id.
func (s *Store) ListCirclesForUser(ctx context.Context, userID int64) ([]*models.CircleMembership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM circle_members m
		JOIN circles c ON c.id = m.circle_id
		WHERE m.user_id = ?
		ORDER BY c.id
	`

	var circles []*models.CircleMembership
	if err := s.db.SelectContext(ctx, &circles, s.q(query), userID); err != nil {
		return nil, fmt.Errorf("failed to list circles for user: %w", err)
	}

	return circles, nil
}

// GetMembership retrieves the membership row for (userID, circleID).
func (s *Store) GetMembership(ctx context.Context, userID, circleID int64) (*models.CircleMembership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM circle_members m
		JOIN circles c ON c.id = m.circle_id
		WHERE m.user_id = ? AND m.circle_id = ?
	`

	membership := &models.CircleMembership{}
	err := s.db.GetContext(ctx, membership, s.q(query), userID, circleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return membership, nil
}

// AddMember inserts memberID into circleID if ownerID owns the circle.
func (s *Store) AddMember(ctx context.Context, ownerID, circleID, memberID int64, joinedAt int64) (*models.CircleMembership, error) {
	var insertedCircle int64
	err := s.db.QueryRowxContext(ctx, s.q(insertMemberQuery),
		memberID, joinedAt, circleID, ownerID,
	).Scan(&insertedCircle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrConditionFailed
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("failed to add member: %w", storage.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return s.GetMembership(ctx, memberID, circleID)
}

// ListMembers returns the members of circleID, owner first, provided userID
// is itself a member. Non-members get an empty result.
func (s *Store) ListMembers(ctx context.Context, userID, circleID int64) ([]*models.Member, error) {
	query := `
		SELECT u.id AS user_id, u.uid, u.first_name, u.last_name, m.is_owner, m.joined_at
		FROM circle_members m
		JOIN users u ON u.id = m.user_id
		JOIN circle_members me ON me.circle_id = m.circle_id AND me.user_id = ?
		WHERE m.circle_id = ?
		ORDER BY m.is_owner DESC, m.joined_at, u.id
	`

	var members []*models.Member
	if err := s.db.SelectContext(ctx, &members, s.q(query), userID, circleID); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}
