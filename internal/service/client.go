package service

import (
	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Client calls every procedure over the JSON codec. Callers set the bearer
// token per request via Request.Header().
type Client struct {
	Register       *connect.Client[RegisterRequest, AuthResponse]
	Login          *connect.Client[LoginRequest, AuthResponse]
	GetCurrentUser *connect.Client[emptypb.Empty, GetCurrentUserResponse]

	CreateCircle     *connect.Client[CreateCircleRequest, CreateCircleResponse]
	ListCircles      *connect.Client[emptypb.Empty, ListCirclesResponse]
	AddMember        *connect.Client[AddMemberRequest, AddMemberResponse]
	ListMembers      *connect.Client[CircleRequest, ListMembersResponse]
	GetCircleSummary *connect.Client[CircleRequest, CircleSummaryResponse]

	ListBills          *connect.Client[CircleRequest, ListBillsResponse]
	AddBill            *connect.Client[AddBillRequest, AddBillResponse]
	RemoveBill         *connect.Client[RemoveBillRequest, RemoveResponse]
	ListBillCategories *connect.Client[emptypb.Empty, ListBillCategoriesResponse]

	ListBudgets  *connect.Client[CircleRequest, ListBudgetsResponse]
	AddBudget    *connect.Client[AddBudgetRequest, AddBudgetResponse]
	RemoveBudget *connect.Client[RemoveBudgetRequest, RemoveResponse]
}

// NewClient builds a Client for the server at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &Client{
		Register:       connect.NewClient[RegisterRequest, AuthResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		Login:          connect.NewClient[LoginRequest, AuthResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		GetCurrentUser: connect.NewClient[emptypb.Empty, GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),

		CreateCircle:     connect.NewClient[CreateCircleRequest, CreateCircleResponse](httpClient, baseURL+CircleServiceCreateCircleProcedure, opts...),
		ListCircles:      connect.NewClient[emptypb.Empty, ListCirclesResponse](httpClient, baseURL+CircleServiceListCirclesProcedure, opts...),
		AddMember:        connect.NewClient[AddMemberRequest, AddMemberResponse](httpClient, baseURL+CircleServiceAddMemberProcedure, opts...),
		ListMembers:      connect.NewClient[CircleRequest, ListMembersResponse](httpClient, baseURL+CircleServiceListMembersProcedure, opts...),
		GetCircleSummary: connect.NewClient[CircleRequest, CircleSummaryResponse](httpClient, baseURL+CircleServiceGetCircleSummaryProcedure, opts...),

		ListBills:          connect.NewClient[CircleRequest, ListBillsResponse](httpClient, baseURL+ExpenseServiceListBillsProcedure, opts...),
		AddBill:            connect.NewClient[AddBillRequest, AddBillResponse](httpClient, baseURL+ExpenseServiceAddBillProcedure, opts...),
		RemoveBill:         connect.NewClient[RemoveBillRequest, RemoveResponse](httpClient, baseURL+ExpenseServiceRemoveBillProcedure, opts...),
		ListBillCategories: connect.NewClient[emptypb.Empty, ListBillCategoriesResponse](httpClient, baseURL+ExpenseServiceListBillCategoriesProcedure, opts...),

		ListBudgets:  connect.NewClient[CircleRequest, ListBudgetsResponse](httpClient, baseURL+BudgetServiceListBudgetsProcedure, opts...),
		AddBudget:    connect.NewClient[AddBudgetRequest, AddBudgetResponse](httpClient, baseURL+BudgetServiceAddBudgetProcedure, opts...),
		RemoveBudget: connect.NewClient[RemoveBudgetRequest, RemoveResponse](httpClient, baseURL+BudgetServiceRemoveBudgetProcedure, opts...),
	}
}
