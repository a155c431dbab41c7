package models

// Circle is a group of users who share bills and budgets.
type Circle struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	OwnerID int64  `db:"owner_id"`

	// CreatedAt is the Unix timestamp when the circle was created.
	CreatedAt int64 `db:"created_at"`
}

// CircleMembership is a user's view of a circle they belong to.
// Rows are keyed by (UserID, CircleID).
type CircleMembership struct {
	CircleID   int64  `db:"circle_id"`
	CircleName string `db:"circle_name"`
	UserID     int64  `db:"user_id"`
	IsOwner    bool   `db:"is_owner"`

	// JoinedAt is the Unix timestamp when the user was added. It is nil on
	// the owner's own row, which is written when the circle is created.
	JoinedAt *int64 `db:"joined_at"`
}

// Member is a user as seen from inside a circle.
type Member struct {
	UserID    int64  `db:"user_id"`
	UID       string `db:"uid"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	IsOwner   bool   `db:"is_owner"`
	JoinedAt  *int64 `db:"joined_at"`
}
