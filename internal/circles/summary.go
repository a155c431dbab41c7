package circles

import (
	"context"

	"github.com/mmynk/circles/internal/calculator"
)

// Summary is a circle-wide overview for one member.
type Summary struct {
	CircleID   int64
	TotalSpent float64
	Balances   []calculator.MemberBalance
	Settlement []calculator.DebtEdge
	Budgets    []calculator.BudgetUsage
}

// CircleSummary computes balances and budget usage for circleID from the
// caller's membership-scoped view of its bills and budgets.
func (s *Service) CircleSummary(ctx context.Context, userID, circleID int64) (*Summary, error) {
	members, err := s.ListMembers(ctx, userID, circleID)
	if err != nil {
		return nil, err
	}
	bills, err := s.store.ListBills(ctx, userID, circleID)
	if err != nil {
		return nil, err
	}
	budgets, err := s.store.ListBudgets(ctx, userID, circleID)
	if err != nil {
		return nil, err
	}

	uids := make([]string, len(members))
	for i, m := range members {
		uids[i] = m.UID
	}

	expenses := make([]calculator.Expense, len(bills))
	var total float64
	for i, b := range bills {
		expenses[i] = calculator.Expense{PaidBy: b.UserUID, Amount: b.Amount}
		total += b.Amount
	}

	balances, debts := calculator.CalculateBalances(uids, expenses)

	return &Summary{
		CircleID:   circleID,
		TotalSpent: calculator.RoundCents(total),
		Balances:   balances,
		Settlement: debts,
		Budgets:    calculator.CalculateBudgetUsage(budgets, bills),
	}, nil
}
