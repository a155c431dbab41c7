package auth

import "context"

// Identity is the authenticated caller. It is resolved once per request by
// the auth interceptor and handed to the service layer explicitly.
type Identity struct {
	// UserID is the internal user id used for storage scoping.
	UserID int64
	// UID is the external id carried in the token.
	UID   string
	Email string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom extracts the identity placed by WithIdentity.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
