// Package session keeps one browser's authentication state: the bearer
// token and the cached profile, persisted in the cookie session under
// fixed keys, plus the phase the browser is in.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/golang-jwt/jwt/v5"
	"go-event-admin/logger"
	"go-event-admin/models"
)

// Persisted keys. Other code must not write these directly.
const (
	KeyToken = "access_token"
	KeyUser  = "user_data"
)

// Phase is where a browser stands in the authentication flow.
type Phase int

const (
	// AnonymousLoading: persisted state not yet read.
	AnonymousLoading Phase = iota
	Anonymous
	// Authenticating: a login request is in flight.
	Authenticating
	Authenticated
)

func (p Phase) String() string {
	switch p {
	case AnonymousLoading:
		return "anonymous-loading"
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// Store is the per-request view of one browser's session.
type Store struct {
	mu        sync.Mutex
	persisted sessions.Session
	phase     Phase
	token     string
	user      *models.User
	expired   bool
}

// New wraps persisted, which may be nil for a purely in-memory store.
// The store starts in AnonymousLoading until Restore is called.
func New(persisted sessions.Session) *Store {
	return &Store{persisted: persisted, phase: AnonymousLoading}
}

// Restore reads the persisted token and profile. A present token is
// trusted without asking the server. A corrupt profile is dropped.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, s.user = "", nil
	if s.persisted != nil {
		if v, ok := s.persisted.Get(KeyToken).(string); ok {
			s.token = v
		}
		if raw, ok := s.persisted.Get(KeyUser).(string); ok && raw != "" {
			var u models.User
			if err := json.Unmarshal([]byte(raw), &u); err != nil {
				logger.Warn.Printf("[session] dropping unreadable %s: %v", KeyUser, err)
				s.persisted.Delete(KeyUser)
				s.save()
			} else {
				s.user = &u
			}
		}
	}

	if s.token != "" {
		s.phase = Authenticated
	} else {
		s.phase = Anonymous
	}
}

// BeginAuthenticating marks a login as in flight.
func (s *Store) BeginAuthenticating() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = Authenticating
}

// AbortAuthenticating returns a failed login to Anonymous.
func (s *Store) AbortAuthenticating() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Authenticating {
		s.phase = Anonymous
	}
}

// SetToken persists token and authenticates. An empty token is ignored.
func (s *Store) SetToken(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.phase = Authenticated
	s.expired = false
	if s.persisted != nil {
		s.persisted.Set(KeyToken, token)
		s.save()
	}
	return true
}

// SetUser caches the serialized profile.
func (s *Store) SetUser(u models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &u
	if s.persisted != nil {
		s.persisted.Set(KeyUser, string(raw))
		s.save()
	}
	return nil
}

// Clear removes the token and profile and returns to Anonymous.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Store) clearLocked() {
	s.token, s.user = "", nil
	s.phase = Anonymous
	if s.persisted != nil {
		s.persisted.Delete(KeyToken)
		s.persisted.Delete(KeyUser)
		s.save()
	}
}

// HandleUnauthorized is called by the gateway on any 401 response.
func (s *Store) HandleUnauthorized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	logger.Info.Println("[session] unauthorized response, clearing session")
	s.clearLocked()
	s.expired = true
}

// Expired reports whether this request's session was cleared by a 401.
func (s *Store) Expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expired
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the cached profile, or nil.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Store) Loading() bool {
	p := s.Phase()
	return p == AnonymousLoading || p == Authenticating
}

func (s *Store) Authenticated() bool {
	return s.Phase() == Authenticated
}

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// AddFlash queues a one-shot message for the next rendered page.
func (s *Store) AddFlash(kind, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persisted == nil {
		return
	}
	s.persisted.AddFlash(msg, kind)
	s.save()
}

// Flashes pops the queued messages of kind.
func (s *Store) Flashes(kind string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persisted == nil {
		return nil
	}
	raw := s.persisted.Flashes(kind)
	if len(raw) == 0 {
		return nil
	}
	s.save()
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(string); ok {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) save() {
	if err := s.persisted.Save(); err != nil {
		logger.Error.Printf("[session] save failed: %v", err)
	}
}

// Claims is what the profile page shows about the bearer token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenClaims decodes the token without verifying it. Opaque tokens
// yield ok == false.
func (s *Store) TokenClaims() (Claims, bool) {
	token := s.Token()
	if token == "" {
		return Claims{}, false
	}
	rc := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, rc); err != nil {
		logger.Debug.Printf("[session] token is not a readable JWT: %v", err)
		return Claims{}, false
	}
	c := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, true
}
