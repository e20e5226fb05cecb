package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	id "admissio/pkg/domain"
	"admissio/pkg/requestcontext"
)

// Staff roles accepted for application review operations.
const (
	RoleAdmin     = "admin"
	RoleHRManager = "hr_manager"
	RoleApplicant = "applicant"
)

// ActorClaims are the claims this service issues and validates.
type ActorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Actor parses an optional Bearer token and, when valid, records the acting
// account and role in the request context. Requests without a token pass
// through untouched; invalid tokens are rejected so a caller never proceeds
// believing it is authenticated.
func Actor(signingKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims := &ActorClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(signingKey), nil
			})
			if err != nil || !token.Valid {
				logger.WarnContext(r.Context(), "rejected invalid bearer token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid or expired token"}`))
				return
			}

			actorID, err := id.ParseAccountID(claims.Subject)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid token subject"}`))
				return
			}

			ctx := requestcontext.WithActor(r.Context(), actorID)
			ctx = requestcontext.WithActorRole(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff rejects requests whose context carries no staff actor.
// Must run after Actor in the chain.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := requestcontext.Actor(r.Context())
		role := requestcontext.ActorRole(r.Context())
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"authentication required"}`))
			return
		}
		if role != RoleAdmin && role != RoleHRManager {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"staff role required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose context carries no admin actor.
// Must run after Actor in the chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := requestcontext.Actor(r.Context())
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"authentication required"}`))
			return
		}
		if requestcontext.ActorRole(r.Context()) != RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"admin role required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
