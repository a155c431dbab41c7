package calculator

import "github.com/mmynk/circles/internal/models"

// BudgetUsage reports how much of a budget the circle's bills have used.
type BudgetUsage struct {
	BudgetID  int64
	Name      string
	Amount    float64
	Spent     float64
	Remaining float64 // Negative when overspent
	Overspent bool
	BillCount int
}

// CalculateBudgetUsage sums, for each budget, the bills dated inside its
// window. Budgets may overlap; a bill counts toward every budget covering it.
// Output order follows budgets.
func CalculateBudgetUsage(budgets []*models.Budget, bills []*models.Bill) []BudgetUsage {
	usage := make([]BudgetUsage, 0, len(budgets))
	for _, budget := range budgets {
		u := BudgetUsage{
			BudgetID: budget.ID,
			Name:     budget.Name,
			Amount:   budget.Amount,
		}
		for _, bill := range bills {
			if bill.CircleID == budget.CircleID && budget.Covers(bill.BillDate) {
				u.Spent += bill.Amount
				u.BillCount++
			}
		}
		u.Spent = RoundCents(u.Spent)
		u.Remaining = RoundCents(budget.Amount - u.Spent)
		u.Overspent = u.Remaining < 0
		usage = append(usage, u)
	}
	return usage
}
