package auth

import (
	"crypto/sha256"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the name of the session cookie.
const SessionName = "farmledger-session"

// Session value keys.
const (
	sessionKeyUserID = "user_id"
	sessionKeyEmail  = "email"
)

// Identity is the signed-in user as seen by the rest of the
// application.
type Identity struct {
	UserID string
	Email  string
}

// Sessions manages the signed cookie that carries the current
// identity. It is constructed once at server start and injected
// wherever the identity is needed; there is no package-level store,
// so tests can run independent instances side by side.
type Sessions struct {
	store *sessions.CookieStore
}

// NewSessions creates a cookie-backed session manager. The secret can
// be any passphrase; it is SHA-256 hashed to derive the 32-byte
// signing key, so it only has to be consistent across restarts and
// replicas. Secure should be true whenever the app is served over
// HTTPS.
func NewSessions(secret string, secure bool) (*Sessions, error) {
	if secret == "" {
		return nil, errors.New("session secret cannot be empty")
	}

	key := sha256.Sum256([]byte(secret))
	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // one week
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Sessions{store: store}, nil
}

// Establish records the identity in the session cookie. Called after
// a successful sign-in or sign-up.
func (s *Sessions) Establish(w http.ResponseWriter, r *http.Request, id Identity) error {
	session, _ := s.store.Get(r, SessionName)
	session.Values[sessionKeyUserID] = id.UserID
	session.Values[sessionKeyEmail] = id.Email
	return session.Save(r, w)
}

// Clear discards the identity; the next request renders as
// unauthenticated.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	delete(session.Values, sessionKeyUserID)
	delete(session.Values, sessionKeyEmail)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// Current returns the identity carried by the request, if any.
func (s *Sessions) Current(r *http.Request) (Identity, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		// An undecodable cookie is treated as signed out.
		return Identity{}, false
	}

	userID, ok := session.Values[sessionKeyUserID].(string)
	if !ok || userID == "" {
		return Identity{}, false
	}
	email, _ := session.Values[sessionKeyEmail].(string)
	return Identity{UserID: userID, Email: email}, true
}

// AddFlash appends a one-line notification to the session. kind is
// "success" or "error".
func (s *Sessions) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	session, _ := s.store.Get(r, SessionName)
	session.AddFlash(kind + "|" + message)
	_ = session.Save(r, w)
}

// PopFlashes returns and clears the pending notifications.
func (s *Sessions) PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return nil
	}

	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = session.Save(r, w)

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		text, ok := v.(string)
		if !ok {
			continue
		}
		flash := Flash{Kind: "success", Message: text}
		for i := 0; i < len(text); i++ {
			if text[i] == '|' {
				flash.Kind = text[:i]
				flash.Message = text[i+1:]
				break
			}
		}
		flashes = append(flashes, flash)
	}
	return flashes
}

// Flash is a one-line user-visible notification.
type Flash struct {
	Kind    string
	Message string
}
