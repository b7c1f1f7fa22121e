package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sentryforce/guard-payroll/internal/domain/user"
	"github.com/sentryforce/guard-payroll/internal/handler/http/response"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, fmt.Errorf("%w: required '%s'", user.ErrInsufficientPermissions, permission))
				return
			}

			roleStr, _ := claims["role"].(string)
			role := user.Role(roleStr)
			if !user.HasPermission(role, permission) {
				response.HandleError(w, fmt.Errorf("%w: required '%s', but user role is '%s'", user.ErrInsufficientPermissions, permission, role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
