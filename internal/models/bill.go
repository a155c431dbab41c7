package models

// Bill is an expense recorded by a member inside a circle.
type Bill struct {
	ID       int64 `db:"id"`
	CircleID int64 `db:"circle_id"`

	// UserID is the member who recorded the bill.
	UserID int64 `db:"user_id"`
	// UserUID is the recorder's external id, filled on reads.
	UserUID string `db:"user_uid"`

	Name       string  `db:"name"`
	Amount     float64 `db:"amount"`
	CategoryID int64   `db:"category_id"`

	// BillDate is the date the expense happened (DateLayout).
	BillDate string `db:"bill_date"`

	CreatedAt int64 `db:"created_at"`
}

// BillCategory is reference data shared by all circles.
type BillCategory struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}
