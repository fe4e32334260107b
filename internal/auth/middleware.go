package auth

import (
	"context"
	"net/http"

	"github.com/lgarzadev/dealercat/internal/models"
)

type contextKey int

const identityKey contextKey = iota

// Identity returns the account restored for this request, if any.
func Identity(ctx context.Context) (models.SafeAccount, bool) {
	account, ok := ctx.Value(identityKey).(models.SafeAccount)
	return account, ok
}

// WithIdentity is exported for handler tests that need a pre-authenticated
// request without running the middleware stack.
func WithIdentity(ctx context.Context, account models.SafeAccount) context.Context {
	return context.WithValue(ctx, identityKey, account)
}

// Gate enforces session restoration, login, and role checks in that order.
// Notify sets the one-shot notice shown after a redirect; Forbid renders the
// 403 denial page. Both are wired in by the handler layer.
type Gate struct {
	Tokens    *TokenService
	LoginPath string
	Notify    func(w http.ResponseWriter, r *http.Request, notice string)
	Forbid    http.HandlerFunc
}

// RestoreSession is best-effort: a verified cookie populates the request
// identity, any failure clears the cookie and proceeds anonymously. No error
// is ever surfaced here.
func (g *Gate) RestoreSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		account, err := g.Tokens.Verify(cookie.Value)
		if err != nil {
			g.Tokens.ClearCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), account)))
	})
}

// RequireLogin redirects anonymous requests to the login page with a notice.
func (g *Gate) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := Identity(r.Context()); !ok {
			g.Notify(w, r, "Please log in.")
			http.Redirect(w, r, g.LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole layers a role check on top of RequireLogin semantics. An
// authenticated account with the wrong role gets a 403 render, not a
// redirect; the two outcomes are never conflated.
func (g *Gate) RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := Identity(r.Context())
			if !ok {
				g.Notify(w, r, "Please log in.")
				http.Redirect(w, r, g.LoginPath, http.StatusSeeOther)
				return
			}
			for _, role := range allowed {
				if account.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			g.Forbid(w, r)
		})
	}
}
