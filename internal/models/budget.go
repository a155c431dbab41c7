package models

// Budget is a spending target for a circle over a date window.
// StartDate and EndDate are inclusive and use DateLayout.
type Budget struct {
	ID        int64   `db:"id"`
	CircleID  int64   `db:"circle_id"`
	UserID    int64   `db:"user_id"`
	UserUID   string  `db:"user_uid"`
	Name      string  `db:"name"`
	Amount    float64 `db:"amount"`
	StartDate string  `db:"start_date"`
	EndDate   string  `db:"end_date"`
	CreatedAt int64   `db:"created_at"`
}

// Covers reports whether date (DateLayout) falls inside the budget window.
func (b *Budget) Covers(date string) bool {
	return date >= b.StartDate && date <= b.EndDate
}
