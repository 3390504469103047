// =============================================================================
// Kebab Dashboard - Session Gate
// =============================================================================
//
// The gate decides whether a request may enter a protected view. It only
// inspects the credential; issuing and verifying signatures is the backend's
// job, so tokens are decoded without signature verification.
//
// STATES:
//   Unauthenticated - no credential, or one that cannot be decoded, or one
//                     without an expiry claim (fail closed)
//   Authenticated   - decodable credential whose exp is after now
//   Expired         - decodable credential whose exp is at or before now
//
// Anything other than Authenticated sends the visitor back to the entry page.
//
// =============================================================================

package session

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// =============================================================================
// STATE
// =============================================================================

// State is the outcome of a session check.
type State int

const (
	Unauthenticated State = iota
	Authenticated
	Expired
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Expired:
		return "expired"
	default:
		return "unauthenticated"
	}
}

// Profile is the user shown in the dashboard header.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credential is what the login flow stores: the raw token plus the profile
// the backend returned with it.
type Credential struct {
	Token string
	User  Profile
}

// =============================================================================
// GATE
// =============================================================================

// Logger is the logging surface the gate needs.
type Logger interface {
	Debug(msg string, args ...any)
}

// Gate checks credentials read through a Store.
type Gate struct {
	store  Store
	now    func() time.Time
	parser *jwt.Parser
	logger Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGate creates a Gate reading credentials from store.
func NewGate(store Store, opts ...Option) *Gate {
	g := &Gate{
		store:  store,
		now:    time.Now,
		parser: jwt.NewParser(),
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check classifies a raw credential.
func (g *Gate) Check(raw string) State {
	if raw == "" {
		return Unauthenticated
	}

	claims := jwt.MapClaims{}
	if _, _, err := g.parser.ParseUnverified(raw, claims); err != nil {
		g.logger.Debug("credential rejected", "reason", "decode", "error", err)
		return Unauthenticated
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		g.logger.Debug("credential rejected", "reason", "exp claim", "error", err)
		return Unauthenticated
	}
	if exp == nil {
		g.logger.Debug("credential rejected", "reason", "no exp claim")
		return Unauthenticated
	}

	if !exp.Time.After(g.now()) {
		g.logger.Debug("credential expired", "exp", exp.Time)
		return Expired
	}
	return Authenticated
}

// Request reads the credential of r from the store and checks it.
func (g *Gate) Request(r *http.Request) (State, Credential) {
	cred, ok := g.store.Load(r)
	if !ok {
		return Unauthenticated, Credential{}
	}
	return g.Check(cred.Token), cred
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

type contextKey struct{}

// Middleware lets Authenticated requests through with their profile in the
// context and redirects everything else to redirectTo. An expired
// credential is cleared from the store first.
func (g *Gate) Middleware(redirectTo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, cred := g.Request(r)
			if state != Authenticated {
				if state == Expired {
					g.store.Clear(w)
				}
				g.logger.Debug("session gate redirect", "path", r.URL.Path, "state", state.String())
				http.Redirect(w, r, redirectTo, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, cred.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProfileFrom returns the profile stored by Middleware.
func ProfileFrom(ctx context.Context) (Profile, bool) {
	p, ok := ctx.Value(contextKey{}).(Profile)
	return p, ok
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
