package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/circles/internal/circles"
	"google.golang.org/protobuf/types/known/emptypb"
)

// CircleService implements the CircleService procedures.
type CircleService struct {
	rules  *circles.Service
	logger *slog.Logger
}

// NewCircleService creates a new circle service.
func NewCircleService(rules *circles.Service, logger *slog.Logger) *CircleService {
	return &CircleService{rules: rules, logger: logger}
}

// CreateCircle creates a circle owned by the caller, subject to the owner quota.
func (s *CircleService) CreateCircle(ctx context.Context, req *connect.Request[CreateCircleRequest]) (*connect.Response[CreateCircleResponse], error) {
	who, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	msg.Name = strings.TrimSpace(msg.Name)
	if err := validateRequest(msg); err != nil {
		return nil, err
	}

	circle, err := s.rules.CreateCircle(ctx, who, msg.Name)
	if err != nil {
		return nil, toConnectError(s.logger, CircleServiceCreateCircleProcedure, err)
	}

	s.logger.Info("Circle created", "circle_id", circle.ID, "owner", who.UID)
	return connect.NewResponse(&CreateCircleResponse{
		Circle: &Circle{ID: circle.ID, Name: circle.Name, IsOwner: true},
	}), nil
}

// ListCircles lists the circles the caller belongs to. A caller with no
// memberships gets CodeNotFound.
func (s *CircleService) ListCircles(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[ListCirclesResponse], error) {
	who, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	memberships, err := s.rules.ListCirclesForUser(ctx, who.UserID)
	if err != nil {
		return nil, toConnectError(s.logger, CircleServiceListCirclesProcedure, err)
	}

	resp := &ListCirclesResponse{Circles: make([]*Circle, len(memberships))}
	for i, m := range memberships {
		resp.Circles[i] = toCircle(m)
	}
	return connect.NewResponse(resp), nil
}

// AddMember adds a registered user to a circle the caller owns.
func (s *CircleService) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	who, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	msg.Email = normalizeEmail(msg.Email)
	if err := validateRequest(msg); err != nil {
		return nil, err
	}

	member, err := s.rules.AddMember(ctx, who, msg.CircleID, msg.Email)
	if err != nil {
		return nil, toConnectError(s.logger, CircleServiceAddMemberProcedure, err)
	}

	s.logger.Info("Member added", "circle_id", msg.CircleID, "member", member.UID)
	return connect.NewResponse(&AddMemberResponse{Member: toMember(member)}), nil
}

// ListMembers lists the members of a circle the caller belongs to.
func (s *CircleService) ListMembers(ctx context.Context, req *connect.Request[CircleRequest]) (*connect.Response[ListMembersResponse], error) {
	who, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	members, err := s.rules.ListMembers(ctx, who.UserID, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError(s.logger, CircleServiceListMembersProcedure, err)
	}

	resp := &ListMembersResponse{Members: make([]*Member, len(members))}
	for i, m := range members {
		resp.Members[i] = toMember(m)
	}
	return connect.NewResponse(resp), nil
}

// GetCircleSummary returns balances, settle-up suggestions and budget usage.
func (s *CircleService) GetCircleSummary(ctx context.Context, req *connect.Request[CircleRequest]) (*connect.Response[CircleSummaryResponse], error) {
	who, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	summary, err := s.rules.CircleSummary(ctx, who.UserID, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError(s.logger, CircleServiceGetCircleSummaryProcedure, err)
	}
	return connect.NewResponse(toSummary(summary)), nil
}
