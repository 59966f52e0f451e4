package auth

import (
	"context"
	"net/http"
	"strings"
)

// Identity is the verified caller of a request. A nil *Identity means
// anonymous; operations that need a role check it themselves.
type Identity struct {
	UserID    string
	FirstName string
	Email     string
	Role      string
}

func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == RoleAdmin
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type ctxKey string

const identityKey ctxKey = "identity"

func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Middleware extracts a bearer token and, when it verifies, attaches the
// caller's Identity to the request context. A missing, malformed, expired or
// forged token never blocks the request: the request simply proceeds
// anonymous and each operation enforces its own authorization.
func Middleware(signer *Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := signer.Verify(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			id := &Identity{
				UserID:    claims.Subject,
				FirstName: claims.FirstName,
				Email:     claims.Email,
				Role:      claims.Role,
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
		})
	}
}
