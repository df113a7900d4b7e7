package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	// AuthCookieName holds the signed session token.
	AuthCookieName   = "blog_token"
	flashSessionName = "blog_flash"
)

// SessionStore issues the auth cookie and keeps one-shot flash messages in a signed cookie.
type SessionStore struct {
	store  *sessions.CookieStore
	secure bool
}

// NewSessionStore creates a store signing flash cookies with secret.
// secure marks cookies HTTPS-only.
func NewSessionStore(secret string, secure bool) *SessionStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store, secure: secure}
}

// SetAuthCookie stores the session token for ttl.
func (s *SessionStore) SetAuthCookie(ctx *gin.Context, token string, ttl time.Duration) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie expires the session token cookie.
func (s *SessionStore) ClearAuthCookie(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// AuthToken returns the session token sent by the client, if any.
func (s *SessionStore) AuthToken(ctx *gin.Context) string {
	token, err := ctx.Cookie(AuthCookieName)
	if err != nil {
		return ""
	}
	return token
}

// Flash queues a message for the next rendered page.
func (s *SessionStore) Flash(ctx *gin.Context, message string) {
	session, _ := s.store.Get(ctx.Request, flashSessionName)
	session.AddFlash(message)
	if err := session.Save(ctx.Request, ctx.Writer); err != nil {
		Sugar.Warnf("flash save failed: %v", err)
	}
}

// Flashes pops every queued message.
func (s *SessionStore) Flashes(ctx *gin.Context) []string {
	// a tampered or stale cookie yields a fresh session and an error; treat as empty
	session, err := s.store.Get(ctx.Request, flashSessionName)
	if err != nil && session == nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(ctx.Request, ctx.Writer); err != nil {
		Sugar.Warnf("flash save failed: %v", err)
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}
