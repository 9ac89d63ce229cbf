package middleware

import (
	"net/http"
	"slices"
	"time"

	"river-transit/ticketdesk/internal/auth"
	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/constants"
)

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return requireRole("Forbidden. Need admin perms", constants.RoleAdmin)
}

// IsSellerMiddleware lets sellers and admins through.
func IsSellerMiddleware() func(http.Handler) http.Handler {
	return requireRole("Forbidden. Need seller perms", constants.RoleSeller, constants.RoleAdmin)
}

func requireRole(message string, roles ...constants.DeskRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				common.RespondError(w, time.Now(), nil, "Unauthorized. Missing credentials", http.StatusUnauthorized)
				return
			}

			if !slices.Contains(roles, claims.Role()) {
				common.RespondError(w, time.Now(), nil, message, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
