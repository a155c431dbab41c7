package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/circles/internal/circles"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ExpenseService implements the ExpenseService procedures.
type ExpenseService struct {
	rules  *circles.Service
	logger *slog.Logger
}

// NewExpenseService creates a new expense service.
func NewExpenseService(rules *circles.Service, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{rules: rules, logger: logger}
}

// ListBills lists a circle's bills, newest first. Non-members get an empty list.
func (s *ExpenseService) ListBills(ctx context.Context, req *connect.Request[CircleRequest]) (*connect.Response[ListBillsResponse], error) {
	who, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	bills, err := s.rules.ListBills(ctx, who.UserID, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError(s.logger, ExpenseServiceListBillsProcedure, err)
	}

	resp := &ListBillsResponse{Bills: make([]*Bill, len(bills))}
	for i, b := range bills {
		resp.Bills[i] = toBill(b)
	}
	return connect.NewResponse(resp), nil
}

// AddBill records a bill in a circle the caller belongs to.
func (s *ExpenseService) AddBill(ctx context.Context, req *connect.Request[AddBillRequest]) (*connect.Response[AddBillResponse], error) {
	who, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	msg.Name = strings.TrimSpace(msg.Name)
	if err := validateRequest(msg); err != nil {
		return nil, err
	}

	bill, err := s.rules.AddBill(ctx, who, circles.NewBill{
		CircleID:   msg.CircleID,
		Name:       msg.Name,
		Amount:     msg.Amount,
		CategoryID: msg.CategoryID,
		BillDate:   msg.BillDate,
	})
	if err != nil {
		return nil, toConnectError(s.logger, ExpenseServiceAddBillProcedure, err)
	}

	s.logger.Info("Bill added", "bill_id", bill.ID, "circle_id", bill.CircleID, "user_id", who.UID)
	return connect.NewResponse(&AddBillResponse{Bill: toBill(bill)}), nil
}

// RemoveBill deletes a bill. Removed is 0 when the bill does not exist, is in
// another circle, or the caller is not a member; these cases are not
// distinguished.
func (s *ExpenseService) RemoveBill(ctx context.Context, req *connect.Request[RemoveBillRequest]) (*connect.Response[RemoveResponse], error) {
	who, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	removed, err := s.rules.RemoveBill(ctx, who.UserID, req.Msg.BillID, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError(s.logger, ExpenseServiceRemoveBillProcedure, err)
	}
	return connect.NewResponse(&RemoveResponse{Removed: removed}), nil
}

// ListBillCategories returns the category reference list.
func (s *ExpenseService) ListBillCategories(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[ListBillCategoriesResponse], error) {
	categories, err := s.rules.ListBillCategories(ctx)
	if err != nil {
		return nil, toConnectError(s.logger, ExpenseServiceListBillCategoriesProcedure, err)
	}

	resp := &ListBillCategoriesResponse{}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, &BillCategory{ID: c.ID, Name: c.Name})
	}
	return connect.NewResponse(resp), nil
}
