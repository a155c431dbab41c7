package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/circles/internal/circles"
)

// BudgetService implements the BudgetService procedures.
type BudgetService struct {
	rules  *circles.Service
	logger *slog.Logger
}

// NewBudgetService creates a new budget service.
func NewBudgetService(rules *circles.Service, logger *slog.Logger) *BudgetService {
	return &BudgetService{rules: rules, logger: logger}
}

func (s *BudgetService) ListBudgets(ctx context.Context, req *connect.Request[CircleRequest]) (*connect.Response[ListBudgetsResponse], error) {
	who, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	budgets, err := s.rules.ListBudgets(ctx, who.UserID, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError(s.logger, BudgetServiceListBudgetsProcedure, err)
	}

	resp := &ListBudgetsResponse{Budgets: make([]*Budget, len(budgets))}
	for i, b := range budgets {
		resp.Budgets[i] = toBudget(b)
	}
	return connect.NewResponse(resp), nil
}

func (s *BudgetService) AddBudget(ctx context.Context, req *connect.Request[AddBudgetRequest]) (*connect.Response[AddBudgetResponse], error) {
	who, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	msg.Name = strings.TrimSpace(msg.Name)
	if err := validateRequest(msg); err != nil {
		return nil, err
	}

	budget, err := s.rules.AddBudget(ctx, who, circles.NewBudget{
		CircleID:  msg.CircleID,
		Name:      msg.Name,
		Amount:    msg.Amount,
		StartDate: msg.StartDate,
		EndDate:   msg.EndDate,
	})
	if err != nil {
		return nil, toConnectError(s.logger, BudgetServiceAddBudgetProcedure, err)
	}

	s.logger.Info("Budget added", "budget_id", budget.ID, "circle_id", budget.CircleID, "user_id", who.UID)
	return connect.NewResponse(&AddBudgetResponse{Budget: toBudget(budget)}), nil
}

func (s *BudgetService) RemoveBudget(ctx context.Context, req *connect.Request[RemoveBudgetRequest]) (*connect.Response[RemoveResponse], error) {
	who, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	removed, err := s.rules.RemoveBudget(ctx, who.UserID, req.Msg.BudgetID, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError(s.logger, BudgetServiceRemoveBudgetProcedure, err)
	}
	return connect.NewResponse(&RemoveResponse{Removed: removed}), nil
}
