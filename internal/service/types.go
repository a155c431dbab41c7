package service

import (
	"github.com/mmynk/circles/internal/calculator"
	"github.com/mmynk/circles/internal/circles"
	"github.com/mmynk/circles/internal/models"
)

// Wire types. Users appear only by their external uid; internal numeric user
// ids never leave the server.

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CreatedAt int64  `json:"createdAt"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type Circle struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IsOwner bool   `json:"isOwner"`
	// JoinedAt is null for the owner.
	JoinedAt *int64 `json:"joinedAt"`
}

type CreateCircleRequest struct {
	Name string `json:"name" validate:"min=3,max=56"`
}

type CreateCircleResponse struct {
	Circle *Circle `json:"circle"`
}

type ListCirclesResponse struct {
	Circles []*Circle `json:"circles"`
}

type Member struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsOwner   bool   `json:"isOwner"`
	JoinedAt  *int64 `json:"joinedAt"`
}

type AddMemberRequest struct {
	CircleID int64  `json:"circleId" validate:"gt=0"`
	Email    string `json:"email" validate:"required,email"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

// CircleRequest addresses a single circle.
type CircleRequest struct {
	CircleID int64 `json:"circleId" validate:"gt=0"`
}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type MemberBalance struct {
	UserID     string  `json:"userId"`
	TotalPaid  float64 `json:"totalPaid"`
	FairShare  float64 `json:"fairShare"`
	NetBalance float64 `json:"netBalance"`
	BillCount  int     `json:"billCount"`
}

type Settlement struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type BudgetUsage struct {
	BudgetID  int64   `json:"budgetId"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
	Overspent bool    `json:"overspent"`
	BillCount int     `json:"billCount"`
}

type CircleSummaryResponse struct {
	CircleID   int64            `json:"circleId"`
	TotalSpent float64          `json:"totalSpent"`
	Balances   []*MemberBalance `json:"balances"`
	Settlement []*Settlement    `json:"settlement"`
	Budgets    []*BudgetUsage   `json:"budgets"`
}

type Bill struct {
	ID         int64   `json:"id"`
	CircleID   int64   `json:"circleId"`
	RecordedBy string  `json:"recordedBy"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	CategoryID int64   `json:"categoryId"`
	BillDate   string  `json:"billDate"`
	CreatedAt  int64   `json:"createdAt"`
}

type ListBillsResponse struct {
	Bills []*Bill `json:"bills"`
}

type AddBillRequest struct {
	CircleID   int64   `json:"circleId" validate:"gt=0"`
	Name       string  `json:"name" validate:"min=1,max=100"`
	Amount     float64 `json:"amount" validate:"gt=0,lt=10000000"`
	CategoryID int64   `json:"categoryId" validate:"gt=0"`
	BillDate   string  `json:"billDate" validate:"required,datetime=2006-01-02"`
}

type AddBillResponse struct {
	Bill *Bill `json:"bill"`
}

type RemoveBillRequest struct {
	CircleID int64 `json:"circleId" validate:"gt=0"`
	BillID   int64 `json:"billId" validate:"gt=0"`
}

// RemoveResponse reports how many rows a remove call deleted (0 or 1).
type RemoveResponse struct {
	Removed int64 `json:"removed"`
}

type BillCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ListBillCategoriesResponse struct {
	// Categories is null, not [], when no category exists.
	Categories []*BillCategory `json:"categories"`
}

type Budget struct {
	ID        int64   `json:"id"`
	CircleID  int64   `json:"circleId"`
	CreatedBy string  `json:"createdBy"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	CreatedAt int64   `json:"createdAt"`
}

type ListBudgetsResponse struct {
	Budgets []*Budget `json:"budgets"`
}

type AddBudgetRequest struct {
	CircleID  int64   `json:"circleId" validate:"gt=0"`
	Name      string  `json:"name" validate:"min=1,max=100"`
	Amount    float64 `json:"amount" validate:"gt=0,lt=10000000"`
	StartDate string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"endDate" validate:"required,datetime=2006-01-02"`
}

type AddBudgetResponse struct {
	Budget *Budget `json:"budget"`
}

type RemoveBudgetRequest struct {
	CircleID int64 `json:"circleId" validate:"gt=0"`
	BudgetID int64 `json:"budgetId" validate:"gt=0"`
}

func toUser(u *models.User) *User {
	return &User{
		ID:        u.UID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

func toCircle(m *models.CircleMembership) *Circle {
	return &Circle{ID: m.CircleID, Name: m.CircleName, IsOwner: m.IsOwner, JoinedAt: m.JoinedAt}
}

func toMember(m *models.Member) *Member {
	return &Member{
		UserID:    m.UID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		IsOwner:   m.IsOwner,
		JoinedAt:  m.JoinedAt,
	}
}

func toBill(b *models.Bill) *Bill {
	return &Bill{
		ID:         b.ID,
		CircleID:   b.CircleID,
		RecordedBy: b.UserUID,
		Name:       b.Name,
		Amount:     b.Amount,
		CategoryID: b.CategoryID,
		BillDate:   b.BillDate,
		CreatedAt:  b.CreatedAt,
	}
}

func toBudget(b *models.Budget) *Budget {
	return &Budget{
		ID:        b.ID,
		CircleID:  b.CircleID,
		CreatedBy: b.UserUID,
		Name:      b.Name,
		Amount:    b.Amount,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		CreatedAt: b.CreatedAt,
	}
}

func toSummary(s *circles.Summary) *CircleSummaryResponse {
	resp := &CircleSummaryResponse{
		CircleID:   s.CircleID,
		TotalSpent: s.TotalSpent,
		Balances:   make([]*MemberBalance, len(s.Balances)),
		Settlement: make([]*Settlement, len(s.Settlement)),
		Budgets:    make([]*BudgetUsage, len(s.Budgets)),
	}
	for i, b := range s.Balances {
		resp.Balances[i] = &MemberBalance{
			UserID:     b.MemberUID,
			TotalPaid:  b.TotalPaid,
			FairShare:  b.FairShare,
			NetBalance: b.NetBalance,
			BillCount:  b.BillCount,
		}
	}
	for i, d := range s.Settlement {
		resp.Settlement[i] = &Settlement{From: d.From, To: d.To, Amount: d.Amount}
	}
	for i, u := range s.Budgets {
		resp.Budgets[i] = toBudgetUsage(u)
	}
	return resp
}

func toBudgetUsage(u calculator.BudgetUsage) *BudgetUsage {
	return &BudgetUsage{
		BudgetID:  u.BudgetID,
		Name:      u.Name,
		Amount:    u.Amount,
		Spent:     u.Spent,
		Remaining: u.Remaining,
		Overspent: u.Overspent,
		BillCount: u.BillCount,
	}
}
