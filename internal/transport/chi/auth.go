package chi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vidshare/internal/domain"
	logpkg "github.com/kailas-cloud/vidshare/internal/logger"
)

// TokenVerifier resolves a signed token to the caller it was issued for.
type TokenVerifier interface {
	Verify(raw string) (domain.Principal, error)
}

// UserLookup loads the account a token was issued for.
type UserLookup interface {
	Get(ctx context.Context, id string) (domain.User, error)
}

const bearerPrefix = "Bearer "

// Authenticate attaches the caller to the request context when the request carries
// a valid token in the Authorization header or in the auth cookie. The header wins
// over the cookie. The account is reloaded on every request: a token for a deleted
// user is treated as absent and the role always comes from the stored user.
// Requests without a valid token continue anonymously; routes that need a caller
// are wrapped in RequireAuth.
func Authenticate(tokens TokenVerifier, users UserLookup, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r, cookieName)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			claimed, err := tokens.Verify(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			u, err := users.Get(r.Context(), claimed.UserID)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				next.ServeHTTP(w, r)
				return
			case err != nil:
				logpkg.FromContext(r.Context(), nil).Error("load token owner",
					zap.String("user_id", claimed.UserID), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			p := domain.Principal{UserID: u.ID, Role: u.Role}
			if !p.Role.IsValid() {
				p.Role = domain.RoleUser
			}
			ctx := domain.ContextWithPrincipal(r.Context(), p)
			ctx = logpkg.With(ctx, zap.String("user_id", p.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := domain.PrincipalFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects anonymous requests with 401 and callers without one of roles with 403.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := domain.PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "user role "+string(p.Role)+" is not authorized to access this route")
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(h[len(bearerPrefix):])
	}
	if cookieName == "" {
		return ""
	}
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "none" {
		return ""
	}
	return c.Value
}

// principal returns the caller of r, or the zero principal for anonymous requests.
func principal(r *http.Request) domain.Principal {
	p, _ := domain.PrincipalFromContext(r.Context())
	return p
}
