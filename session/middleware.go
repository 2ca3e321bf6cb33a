package session

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/hkdf"
)

const contextKey = "eventadmin.session"

// Options controls the session cookie.
type Options struct {
	MaxAge int
	Secure bool
}

// CookieStore derives a signing key and an encryption key from secret so
// the token is never readable from the cookie itself.
func CookieStore(secret string, opts Options) (cookie.Store, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret is empty")
	}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("go-event-admin session cookie"))
	authKey := make([]byte, 64)
	encKey := make([]byte, 32)
	if _, err := io.ReadFull(kdf, authKey); err != nil {
		return nil, fmt.Errorf("derive session auth key: %w", err)
	}
	if _, err := io.ReadFull(kdf, encKey); err != nil {
		return nil, fmt.Errorf("derive session encryption key: %w", err)
	}

	store := cookie.NewStore(authKey, encKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// Middleware installs the cookie session and a restored Store.
func Middleware(name string, store sessions.Store) gin.HandlersChain {
	return gin.HandlersChain{sessions.Sessions(name, store), restore}
}

func restore(c *gin.Context) {
	s := New(sessions.Default(c))
	s.Restore()
	Put(c, s)
	c.Next()
}

// Put attaches s to the request.
func Put(c *gin.Context, s *Store) {
	c.Set(contextKey, s)
}

// FromContext returns the request's Store. Without one the request is
// treated as still loading.
func FromContext(c *gin.Context) *Store {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Store); ok {
			return s
		}
	}
	return New(nil)
}
