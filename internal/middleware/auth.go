package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"river-transit/ticketdesk/internal/auth"
	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/db/repositories"
	"river-transit/ticketdesk/internal/logging"
)

// AuthMiddleware accepts either a bearer JWT or a terminal X-API-Key and
// stores the resulting claims on the request context.
func AuthMiddleware(tokens *auth.TokenService, keysRepo *repositories.KeysRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			authHeader := r.Header.Get("Authorization")
			apiKey := r.Header.Get("X-API-Key")

			var claims auth.UserClaims

			switch {
			case strings.HasPrefix(authHeader, "Bearer "):
				jwtClaims, err := tokens.Validate(strings.TrimPrefix(authHeader, "Bearer "))
				if err != nil {
					logging.Debug("bearer token rejected", "error", err)
					common.RespondError(w, initTime, nil, "Unauthorized. Invalid token", http.StatusUnauthorized)
					return
				}
				claims = jwtClaims

			case apiKey != "":
				keyRes, err := keysRepo.GetStatus(r.Context(), apiKey)
				if errors.Is(err, repositories.ErrKeyNotFound) {
					common.RespondError(w, initTime, nil, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
					return
				}
				if err != nil {
					logging.Error("api key lookup failed", "error", err)
					common.RespondError(w, initTime, nil, "Unauthorized. Unknown Error", http.StatusUnauthorized)
					return
				}

				if !keyRes.Active() {
					common.RespondError(w, initTime, nil, "Unauthorized. Inactive API Key", http.StatusUnauthorized)
					return
				}
				if !keyRes.Role.Valid() {
					common.RespondError(w, initTime, nil, "Unauthorized. API Key has no role", http.StatusUnauthorized)
					return
				}

				claims = &auth.APIKeyClaims{Label: keyRes.Label, RoleValue: keyRes.Role}

			default:
				common.RespondError(w, initTime, nil, "Unauthorized. Missing credentials", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
