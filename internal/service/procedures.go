package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// Fully-qualified service names. Procedures are served at
// "/<service>/<method>" following the Connect protocol.
const (
	AuthServiceName    = "circles.v1.AuthService"
	CircleServiceName  = "circles.v1.CircleService"
	ExpenseServiceName = "circles.v1.ExpenseService"
	BudgetServiceName  = "circles.v1.BudgetService"
)

const (
	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"

	CircleServiceCreateCircleProcedure     = "/" + CircleServiceName + "/CreateCircle"
	CircleServiceListCirclesProcedure      = "/" + CircleServiceName + "/ListCircles"
	CircleServiceAddMemberProcedure        = "/" + CircleServiceName + "/AddMember"
	CircleServiceListMembersProcedure      = "/" + CircleServiceName + "/ListMembers"
	CircleServiceGetCircleSummaryProcedure = "/" + CircleServiceName + "/GetCircleSummary"

	ExpenseServiceListBillsProcedure          = "/" + ExpenseServiceName + "/ListBills"
	ExpenseServiceAddBillProcedure            = "/" + ExpenseServiceName + "/AddBill"
	ExpenseServiceRemoveBillProcedure         = "/" + ExpenseServiceName + "/RemoveBill"
	ExpenseServiceListBillCategoriesProcedure = "/" + ExpenseServiceName + "/ListBillCategories"

	BudgetServiceListBudgetsProcedure  = "/" + BudgetServiceName + "/ListBudgets"
	BudgetServiceAddBudgetProcedure    = "/" + BudgetServiceName + "/AddBudget"
	BudgetServiceRemoveBudgetProcedure = "/" + BudgetServiceName + "/RemoveBudget"
)

// Interceptors are applied to every procedure in the order Metrics,
// RateLimit or Auth, Logging. RateLimit wraps only the unauthenticated
// procedures (Register, Login); Auth wraps all others. Nil entries are
// skipped.
type Interceptors struct {
	Metrics   connect.Interceptor
	RateLimit connect.Interceptor
	Auth      connect.Interceptor
	Logging   connect.Interceptor
}

func (ic Interceptors) public() connect.HandlerOption {
	return chain(ic.Metrics, ic.RateLimit, ic.Logging)
}

func (ic Interceptors) private() connect.HandlerOption {
	return chain(ic.Metrics, ic.Auth, ic.Logging)
}

func chain(interceptors ...connect.Interceptor) connect.HandlerOption {
	list := make([]connect.Interceptor, 0, len(interceptors))
	for _, i := range interceptors {
		if i != nil {
			list = append(list, i)
		}
	}
	return connect.WithInterceptors(list...)
}

func unary[Req, Res any](
	mux *http.ServeMux,
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts ...connect.HandlerOption,
) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// NewAuthServiceHandler returns the path prefix and handler for AuthService.
func NewAuthServiceHandler(svc *AuthService, ic Interceptors) (string, http.Handler) {
	mux := http.NewServeMux()
	unary(mux, AuthServiceRegisterProcedure, svc.Register, ic.public())
	unary(mux, AuthServiceLoginProcedure, svc.Login, ic.public())
	unary(mux, AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, ic.private())
	return "/" + AuthServiceName + "/", mux
}

// NewCircleServiceHandler returns the path prefix and handler for CircleService.
func NewCircleServiceHandler(svc *CircleService, ic Interceptors) (string, http.Handler) {
	mux := http.NewServeMux()
	unary(mux, CircleServiceCreateCircleProcedure, svc.CreateCircle, ic.private())
	unary(mux, CircleServiceListCirclesProcedure, svc.ListCircles, ic.private())
	unary(mux, CircleServiceAddMemberProcedure, svc.AddMember, ic.private())
	unary(mux, CircleServiceListMembersProcedure, svc.ListMembers, ic.private())
	unary(mux, CircleServiceGetCircleSummaryProcedure, svc.GetCircleSummary, ic.private())
	return "/" + CircleServiceName + "/", mux
}

// NewExpenseServiceHandler returns the path prefix and handler for ExpenseService.
func NewExpenseServiceHandler(svc *ExpenseService, ic Interceptors) (string, http.Handler) {
	mux := http.NewServeMux()
	unary(mux, ExpenseServiceListBillsProcedure, svc.ListBills, ic.private())
	unary(mux, ExpenseServiceAddBillProcedure, svc.AddBill, ic.private())
	unary(mux, ExpenseServiceRemoveBillProcedure, svc.RemoveBill, ic.private())
	unary(mux, ExpenseServiceListBillCategoriesProcedure, svc.ListBillCategories, ic.private())
	return "/" + ExpenseServiceName + "/", mux
}

// NewBudgetServiceHandler returns the path prefix and handler for BudgetService.
func NewBudgetServiceHandler(svc *BudgetService, ic Interceptors) (string, http.Handler) {
	mux := http.NewServeMux()
	unary(mux, BudgetServiceListBudgetsProcedure, svc.ListBudgets, ic.private())
	unary(mux, BudgetServiceAddBudgetProcedure, svc.AddBudget, ic.private())
	unary(mux, BudgetServiceRemoveBudgetProcedure, svc.RemoveBudget, ic.private())
	return "/" + BudgetServiceName + "/", mux
}

// Services bundles the service implementations served together.
type Services struct {
	Auth     *AuthService
	Circles  *CircleService
	Expenses *ExpenseService
	Budgets  *BudgetService
}

// Mount registers every service on mux.
func (s Services) Mount(mux *http.ServeMux, ic Interceptors) {
	mux.Handle(NewAuthServiceHandler(s.Auth, ic))
	mux.Handle(NewCircleServiceHandler(s.Circles, ic))
	mux.Handle(NewExpenseServiceHandler(s.Expenses, ic))
	mux.Handle(NewBudgetServiceHandler(s.Budgets, ic))
}
