// Package calculator derives circle-level figures (member balances, settle-up
// suggestions, budget usage) from bills and budgets already read from storage.
package calculator

import (
	"math"
	"sort"
)

// settleEpsilon hides floating point noise below one cent.
const settleEpsilon = 0.01

// Expense is the minimal bill information needed for balance calculations.
type Expense struct {
	PaidBy string // member UID
	Amount float64
}

// MemberBalance represents the balance information for one circle member.
type MemberBalance struct {
	MemberUID  string
	TotalPaid  float64 // Sum of bills this member recorded
	FairShare  float64 // Equal share of all circle spending
	NetBalance float64 // Positive = owed money, Negative = owes money
	BillCount  int
}

// DebtEdge represents a suggested payment from one member to another.
type DebtEdge struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount float64
}

// CalculateBalances splits total circle spending equally among members and
// returns each member's balance plus a minimal set of settle-up payments.
//
// Algorithm:
//   - fair_share = total / len(members)
//   - net_balance = total_paid - fair_share
//   - Debts: greedy matching of largest debtor with largest creditor
//
// Expenses paid by someone outside members (a former member) still count
// toward the total and get their own balance row.
func CalculateBalances(members []string, expenses []Expense) ([]MemberBalance, []DebtEdge) {
	balances := make(map[string]*MemberBalance, len(members))
	order := make([]string, 0, len(members))
	track := func(uid string) *MemberBalance {
		if b, ok := balances[uid]; ok {
			return b
		}
		b := &MemberBalance{MemberUID: uid}
		balances[uid] = b
		order = append(order, uid)
		return b
	}

	for _, m := range members {
		track(m)
	}

	var total float64
	for _, e := range expenses {
		b := track(e.PaidBy)
		b.TotalPaid += e.Amount
		b.BillCount++
		total += e.Amount
	}

	if len(order) == 0 {
		return nil, nil
	}

	share := total / float64(len(order))
	result := make([]MemberBalance, 0, len(order))
	for _, uid := range order {
		b := balances[uid]
		b.FairShare = RoundCents(share)
		b.NetBalance = RoundCents(b.TotalPaid - share)
		b.TotalPaid = RoundCents(b.TotalPaid)
		result = append(result, *b)
	}

	return result, simplifyDebts(result)
}

// simplifyDebts matches debtors with creditors to minimize transactions.
func simplifyDebts(balances []MemberBalance) []DebtEdge {
	var creditors, debtors []MemberBalance
	for _, b := range balances {
		if b.NetBalance > settleEpsilon {
			creditors = append(creditors, b)
		} else if b.NetBalance < -settleEpsilon {
			debtors = append(debtors, b)
		}
	}

	// Largest amounts first; UID breaks ties so output is stable.
	sort.Slice(creditors, func(i, j int) bool {
		if creditors[i].NetBalance != creditors[j].NetBalance {
			return creditors[i].NetBalance > creditors[j].NetBalance
		}
		return creditors[i].MemberUID < creditors[j].MemberUID
	})
	sort.Slice(debtors, func(i, j int) bool {
		if debtors[i].NetBalance != debtors[j].NetBalance {
			return debtors[i].NetBalance < debtors[j].NetBalance
		}
		return debtors[i].MemberUID < debtors[j].MemberUID
	})

	owes := make([]float64, len(debtors))
	for i, d := range debtors {
		owes[i] = -d.NetBalance
	}
	owed := make([]float64, len(creditors))
	for j, c := range creditors {
		owed[j] = c.NetBalance
	}

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := math.Min(owes[i], owed[j])
		if amount > settleEpsilon {
			edges = append(edges, DebtEdge{
				From:   debtors[i].MemberUID,
				To:     creditors[j].MemberUID,
				Amount: RoundCents(amount),
			})
		}

		owes[i] -= amount
		owed[j] -= amount

		if owes[i] < settleEpsilon {
			i++
		}
		if owed[j] < settleEpsilon {
			j++
		}
	}

	return edges
}

// RoundCents rounds v to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
