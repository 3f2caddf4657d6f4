package auth

import "context"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Context carries the authenticated caller's identity into every operation.
// It is built once by the HTTP middleware from verified token claims and
// passed explicitly; services never reach back into request state.
type Context struct {
	ActorID      string
	EmployeeID   string
	Role         Role
	DepartmentID string
}

// IsAdministrative reports whether the actor may invoke administrative
// operations (manual entries, absence marking, purges, summary generation).
func (c Context) IsAdministrative() bool {
	return c.Role == RoleAdmin || c.Role == RoleManager
}

type ctxKey struct{}

// WithContext attaches the actor identity to a request context.
func WithContext(ctx context.Context, actor Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

// FromContext extracts the actor identity stored by the auth middleware.
func FromContext(ctx context.Context) (Context, error) {
	actor, ok := ctx.Value(ctxKey{}).(Context)
	if !ok || actor.ActorID == "" {
		return Context{}, ErrMissingIdentity
	}
	return actor, nil
}
