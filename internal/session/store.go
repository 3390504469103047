// =============================================================================
// Kebab Dashboard - Credential Store
// =============================================================================
//
// The login flow hands the backend's token and profile to a Store; the gate
// reads them back on every request. CookieStore keeps both in the browser:
//
//   authToken  - the raw credential
//   user       - the profile as base64url JSON
//
// Both cookies are HttpOnly, SameSite=Lax and scoped to "/".
//
// =============================================================================

package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

// Store persists credentials between requests.
type Store interface {
	Load(r *http.Request) (Credential, bool)
	Save(w http.ResponseWriter, cred Credential)
	Clear(w http.ResponseWriter)
}

// CookieStore keeps the token and the profile in two cookies.
type CookieStore struct {
	// TokenCookie holds the raw credential.
	TokenCookie string

	// UserCookie holds the profile as base64 JSON.
	UserCookie string

	MaxAge time.Duration
	Secure bool

	// Logger receives unreadable profile cookies at debug level.
	Logger Logger
}

// NewCookieStore creates a CookieStore with the given token cookie name.
func NewCookieStore(tokenCookie string, maxAge time.Duration, secure bool) *CookieStore {
	if tokenCookie == "" {
		tokenCookie = "authToken"
	}
	return &CookieStore{
		TokenCookie: tokenCookie,
		UserCookie:  "user",
		MaxAge:      maxAge,
		Secure:      secure,
		Logger:      nopLogger{},
	}
}

// Load reads the credential. A missing token cookie means no credential;
// an unreadable profile cookie only loses the profile.
func (s *CookieStore) Load(r *http.Request) (Credential, bool) {
	token, err := r.Cookie(s.TokenCookie)
	if err != nil || token.Value == "" {
		return Credential{}, false
	}

	cred := Credential{Token: token.Value}
	c, err := r.Cookie(s.UserCookie)
	if err != nil {
		return cred, true
	}

	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		s.logger().Debug("profile cookie ignored", "reason", "base64", "error", err)
		return cred, true
	}

	var user Profile
	if err := json.Unmarshal(data, &user); err != nil {
		s.logger().Debug("profile cookie ignored", "reason", "json", "error", err)
		return cred, true
	}
	cred.User = user
	return cred, true
}

// Save writes both cookies.
func (s *CookieStore) Save(w http.ResponseWriter, cred Credential) {
	user, _ := json.Marshal(cred.User)
	http.SetCookie(w, s.cookie(s.TokenCookie, cred.Token, int(s.MaxAge.Seconds())))
	http.SetCookie(w, s.cookie(s.UserCookie, base64.RawURLEncoding.EncodeToString(user), int(s.MaxAge.Seconds())))
}

// Clear expires both cookies.
func (s *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie(s.TokenCookie, "", -1))
	http.SetCookie(w, s.cookie(s.UserCookie, "", -1))
}

func (s *CookieStore) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *CookieStore) logger() Logger {
	if s.Logger == nil {
		return nopLogger{}
	}
	return s.Logger
}
