package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// Identity verifies the token and translates its claims into an auth.Context
// on the request context. Services receive the actor explicitly and never
// look at token claims themselves.
func Identity(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			actorID, ok := claims["sub"].(string)
			if !ok || actorID == "" {
				response.HandleError(w, auth.ErrMissingIdentity)
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				response.HandleError(w, auth.ErrMissingIdentity)
				return
			}

			actor := auth.Context{
				ActorID: actorID,
				Role:    auth.Role(roleStr),
			}
			if employeeID, ok := claims["employee_id"].(string); ok {
				actor.EmployeeID = employeeID
			}
			if departmentID, ok := claims["department_id"].(string); ok {
				actor.DepartmentID = departmentID
			}

			next.ServeHTTP(w, r.WithContext(auth.WithContext(r.Context(), actor)))
		}
		return http.HandlerFunc(hfn)
	}
}

// RequireAdministrative gates admin/manager-only routes.
func RequireAdministrative(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if !actor.IsAdministrative() {
			response.HandleError(w, auth.ErrAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin gates admin-only routes such as purges.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if actor.Role != auth.RoleAdmin {
			response.HandleError(w, auth.ErrAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
