package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircleQuotaAndMembershipScenario(t *testing.T) {
	s := setupTestServer(t, nil)
	ctx := context.Background()
	ownerUID, owner := s.register(t, "owner@example.com")
	memberUID, member := s.register(t, "member@example.com")

	_, err := s.client.ListCircles.CallUnary(ctx, empty(owner))
	assertCode(t, err, connect.CodeNotFound)

	teamA, err := s.client.CreateCircle.CallUnary(ctx, authed(&CreateCircleRequest{Name: "Team A"}, owner))
	require.NoError(t, err)
	assert.Equal(t, int64(1), teamA.Msg.Circle.ID)
	assert.True(t, teamA.Msg.Circle.IsOwner)

	teamB, err := s.client.CreateCircle.CallUnary(ctx, authed(&CreateCircleRequest{Name: "Team B"}, owner))
	require.NoError(t, err)
	assert.Equal(t, int64(2), teamB.Msg.Circle.ID)

	_, err = s.client.CreateCircle.CallUnary(ctx, authed(&CreateCircleRequest{Name: "Team C"}, owner))
	assertCode(t, err, connect.CodeFailedPrecondition)
	assert.Equal(t, "circle quota exceeded", errorMessage(err))

	added, err := s.client.AddMember.CallUnary(ctx, authed(&AddMemberRequest{CircleID: 1, Email: "Member@Example.com"}, owner))
	require.NoError(t, err)
	assert.Equal(t, memberUID, added.Msg.Member.UserID)
	assert.False(t, added.Msg.Member.IsOwner)
	assert.NotNil(t, added.Msg.Member.JoinedAt)

	bill, err := s.client.AddBill.CallUnary(ctx, authed(&AddBillRequest{
		CircleID: 1, Name: "Groceries", Amount: 42.5, CategoryID: 1, BillDate: "2024-05-01",
	}, owner))
	require.NoError(t, err)
	assert.Equal(t, ownerUID, bill.Msg.Bill.RecordedBy)

	bills, err := s.client.ListBills.CallUnary(ctx, authed(&CircleRequest{CircleID: 1}, member))
	require.NoError(t, err)
	require.Len(t, bills.Msg.Bills, 1)
	assert.Equal(t, bill.Msg.Bill.ID, bills.Msg.Bills[0].ID)
	assert.Equal(t, ownerUID, bills.Msg.Bills[0].RecordedBy)

	bills, err = s.client.ListBills.CallUnary(ctx, authed(&CircleRequest{CircleID: 2}, member))
	require.NoError(t, err)
	assert.Empty(t, bills.Msg.Bills)

	circles, err := s.client.ListCircles.CallUnary(ctx, empty(member))
	require.NoError(t, err)
	require.Len(t, circles.Msg.Circles, 1)
	assert.Equal(t, "Team A", circles.Msg.Circles[0].Name)
	assert.False(t, circles.Msg.Circles[0].IsOwner)

	circles, err = s.client.ListCircles.CallUnary(ctx, empty(owner))
	require.NoError(t, err)
	require.Len(t, circles.Msg.Circles, 2)
	assert.Equal(t, int64(1), circles.Msg.Circles[0].ID)
	assert.Nil(t, circles.Msg.Circles[0].JoinedAt)
}

func TestAddMember_Errors(t *testing.T) {
	s := setupTestServer(t, nil)
	ctx := context.Background()
	_, owner := s.register(t, "owner@example.com")
	_, member := s.register(t, "member@example.com")
	s.register(t, "other@example.com")

	_, err := s.client.CreateCircle.CallUnary(ctx, authed(&CreateCircleRequest{Name: "Flat"}, owner))
	require.NoError(t, err)
	_, err = s.client.AddMember.CallUnary(ctx, authed(&AddMemberRequest{CircleID: 1, Email: "member@example.com"}, owner))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		req   *AddMemberRequest
		code  connect.Code
	}{
		{"not owner", member, &AddMemberRequest{CircleID: 1, Email: "other@example.com"}, connect.CodePermissionDenied},
		{"unknown email", owner, &AddMemberRequest{CircleID: 1, Email: "ghost@example.com"}, connect.CodeNotFound},
		{"already member", owner, &AddMemberRequest{CircleID: 1, Email: "member@example.com"}, connect.CodeAlreadyExists},
		{"unknown circle", owner, &AddMemberRequest{CircleID: 99, Email: "other@example.com"}, connect.CodePermissionDenied},
		{"invalid circle id", owner, &AddMemberRequest{CircleID: 0, Email: "other@example.com"}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.client.AddMember.CallUnary(ctx, authed(tt.req, tt.token))
			assertCode(t, err, tt.code)
		})
	}
}

func TestAddMember_NonOwnerLearnsNothingAboutEmails(t *testing.T) {
	s := setupTestServer(t, nil)
	ctx := context.Background()
	_, owner := s.register(t, "owner@example.com")
	_, stranger := s.register(t, "stranger@example.com")
	s.register(t, "registered@example.com")

	_, err := s.client.CreateCircle.CallUnary(ctx, authed(&CreateCircleRequest{Name: "Flat"}, owner))
	require.NoError(t, err)

	_, knownErr := s.client.AddMember.CallUnary(ctx, authed(&AddMemberRequest{CircleID: 1, Email: "registered@example.com"}, stranger))
	_, unknownErr := s.client.AddMember.CallUnary(ctx, authed(&AddMemberRequest{CircleID: 1, Email: "nobody@example.com"}, stranger))

	assertCode(t, knownErr, connect.CodePermissionDenied)
	assertCode(t, unknownErr, connect.CodePermissionDenied)
	assert.Equal(t, errorMessage(knownErr), errorMessage(unknownErr))
}

func TestListMembers(t *testing.T) {
	s := setupTestServer(t, nil)
	ctx := context.Background()
	ownerUID, owner := s.register(t, "owner@example.com")
	memberUID, member := s.register(t, "member@example.com")
	_, outsider := s.register(t, "outsider@example.com")

	_, err := s.client.CreateCircle.CallUnary(ctx, authed(&CreateCircleRequest{Name: "Flat"}, owner))
	require.NoError(t, err)
	_, err = s.client.AddMember.CallUnary(ctx, authed(&AddMemberRequest{CircleID: 1, Email: "member@example.com"}, owner))
	require.NoError(t, err)

	resp, err := s.client.ListMembers.CallUnary(ctx, authed(&CircleRequest{CircleID: 1}, member))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Members, 2)
	assert.Equal(t, ownerUID, resp.Msg.Members[0].UserID)
	assert.True(t, resp.Msg.Members[0].IsOwner)
	assert.Equal(t, memberUID, resp.Msg.Members[1].UserID)

	_, err = s.client.ListMembers.CallUnary(ctx, authed(&CircleRequest{CircleID: 1}, outsider))
	assertCode(t, err, connect.CodePermissionDenied)
}

func TestGetCircleSummary(t *testing.T) {
	s := setupTestServer(t, nil)
	ctx := context.Background()
	ownerUID, owner := s.register(t, "owner@example.com")
	memberUID, member := s.register(t, "member@example.com")
	_, outsider := s.register(t, "outsider@example.com")

	_, err := s.client.CreateCircle.CallUnary(ctx, authed(&CreateCircleRequest{Name: "Trip"}, owner))
	require.NoError(t, err)
	_, err = s.client.AddMember.CallUnary(ctx, authed(&AddMemberRequest{CircleID: 1, Email: "member@example.com"}, owner))
	require.NoError(t, err)
	_, err = s.client.AddBill.CallUnary(ctx, authed(&AddBillRequest{
		CircleID: 1, Name: "Hotel", Amount: 100, CategoryID: 7, BillDate: "2024-07-02",
	}, owner))
	require.NoError(t, err)
	_, err = s.client.AddBudget.CallUnary(ctx, authed(&AddBudgetRequest{
		CircleID: 1, Name: "July", Amount: 80, StartDate: "2024-07-01", EndDate: "2024-07-31",
	}, member))
	require.NoError(t, err)

	resp, err := s.client.GetCircleSummary.CallUnary(ctx, authed(&CircleRequest{CircleID: 1}, member))
	require.NoError(t, err)
	summary := resp.Msg
	assert.Equal(t, 100.0, summary.TotalSpent)
	require.Len(t, summary.Balances, 2)
	assert.Equal(t, ownerUID, summary.Balances[0].UserID)
	assert.Equal(t, 50.0, summary.Balances[0].NetBalance)
	require.Len(t, summary.Settlement, 1)
	assert.Equal(t, memberUID, summary.Settlement[0].From)
	assert.Equal(t, ownerUID, summary.Settlement[0].To)
	require.Len(t, summary.Budgets, 1)
	assert.True(t, summary.Budgets[0].Overspent)
	assert.Equal(t, -20.0, summary.Budgets[0].Remaining)

	_, err = s.client.GetCircleSummary.CallUnary(ctx, authed(&CircleRequest{CircleID: 1}, outsider))
	assertCode(t, err, connect.CodePermissionDenied)
}
