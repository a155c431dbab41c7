package circles

import "errors"

// Business denials. Anything else returned by Service is an infrastructure
// failure passed through from storage.
var (
	ErrQuotaExceeded   = errors.New("circle quota exceeded")
	ErrNotMember       = errors.New("not a member of this circle")
	ErrNotOwner        = errors.New("only the circle owner can add members")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyMember   = errors.New("user is already a member of this circle")
	ErrUnknownCategory = errors.New("unknown bill category")
)

// IsDenial reports whether err is a business-rule outcome rather than an
// infrastructure failure.
func IsDenial(err error) bool {
	switch {
	case errors.Is(err, ErrQuotaExceeded),
		errors.Is(err, ErrNotMember),
		errors.Is(err, ErrNotOwner),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAlreadyMember),
		errors.Is(err, ErrUnknownCategory):
		return true
	}
	return false
}
