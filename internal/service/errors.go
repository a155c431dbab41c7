package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/mmynk/circles/internal/auth"
	"github.com/mmynk/circles/internal/circles"
)

var errInternal = errors.New("internal error")

// toConnectError translates a domain error into a Connect error. Business
// denials keep their message; anything else is logged here with full detail
// and returned to the client as a bare "internal error".
func toConnectError(logger *slog.Logger, procedure string, err error) error {
	var code connect.Code
	switch {
	case errors.Is(err, circles.ErrQuotaExceeded):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, circles.ErrNotMember), errors.Is(err, circles.ErrNotOwner):
		code = connect.CodePermissionDenied
	case errors.Is(err, circles.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, circles.ErrAlreadyMember), errors.Is(err, auth.ErrEmailExists):
		code = connect.CodeAlreadyExists
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, circles.ErrUnknownCategory):
		code = connect.CodeInvalidArgument
	case errors.Is(err, auth.ErrInvalidCredentials):
		code = connect.CodeUnauthenticated
	default:
		logger.Error("Internal error", "procedure", procedure, "error", err)
		return connect.NewError(connect.CodeInternal, errInternal)
	}
	return connect.NewError(code, err)
}
