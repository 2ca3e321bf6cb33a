// file: services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go-event-admin/apperr"
	"go-event-admin/gateway"
	"go-event-admin/logger"
	"go-event-admin/models"
	"go-event-admin/session"
)

// ErrMissingToken is returned when login succeeds without a token.
var ErrMissingToken = errors.New("the server did not return an access token")

// ErrTokenRejected is returned when the token from a successful login is
// refused by the first authenticated call. The session is already cleared.
var ErrTokenRejected = errors.New("the new access token was rejected")

// MsgEmailTaken is the field message for a duplicate registration.
const MsgEmailTaken = "This email is already registered."

// AuthService drives the session through login, logout and registration.
type AuthService struct {
	gw *gateway.Client
}

func NewAuthService(gw *gateway.Client) *AuthService {
	return &AuthService{gw: gw}
}

// Login exchanges credentials for a token. It is attempted once; on any
// failure the session is back to anonymous.
func (a *AuthService) Login(ctx context.Context, store *session.Store, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return &apperr.ValidationError{General: "Email and password are required."}
	}

	store.BeginAuthenticating()
	conn := a.gw.With(store)

	var tok models.Token
	form := url.Values{"username": {email}, "password": {password}}
	err := conn.PostForm(ctx, "auth/login", form, &tok)
	if err == nil && tok.AccessToken == "" {
		err = ErrMissingToken
	}
	if err != nil {
		store.AbortAuthenticating()
		logger.Warn.Printf("[AuthService.Login] login failed for %s: %v", email, err)
		return err
	}

	store.SetToken(tok.AccessToken)
	logger.Info.Printf("[AuthService.Login] %s signed in", email)

	var me models.User
	if err := conn.Get(ctx, "auth/me", nil, &me); err != nil {
		if apperr.IsAuth(err) {
			logger.Warn.Printf("[AuthService.Login] token rejected for %s: %v", email, err)
			return fmt.Errorf("%w: %w", ErrTokenRejected, err)
		}
		logger.Warn.Printf("[AuthService.Login] could not load profile: %v", err)
		return nil
	}
	if err := store.SetUser(me); err != nil {
		logger.Warn.Printf("[AuthService.Login] could not cache profile: %v", err)
	}
	return nil
}

// Logout never fails.
func (a *AuthService) Logout(store *session.Store) {
	store.Clear()
	logger.Info.Println("[AuthService.Logout] session cleared")
}

// Register creates an account without signing the caller in. A rejected
// duplicate email comes back as a field error on "email".
func (a *AuthService) Register(ctx context.Context, store *session.Store, in models.UserInput) (models.User, error) {
	var created models.User
	err := a.gw.With(store).Post(ctx, "auth/register", in, &created)
	if err == nil {
		logger.Info.Printf("[AuthService.Register] registered %s (id %d)", created.Email, created.ID)
		return created, nil
	}
	if se, ok := apperr.AsServer(err); ok && se.Status == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(se.Detail), "email") {
		return models.User{}, apperr.NewValidation("email", MsgEmailTaken)
	}
	logger.Warn.Printf("[AuthService.Register] failed for %s: %v", in.Email, err)
	return models.User{}, err
}

// Profile fetches the current user and refreshes the cached copy.
func (a *AuthService) Profile(ctx context.Context, store *session.Store) (models.User, error) {
	var me models.User
	if err := a.gw.With(store).Get(ctx, "auth/me", nil, &me); err != nil {
		return models.User{}, err
	}
	if err := store.SetUser(me); err != nil {
		logger.Warn.Printf("[AuthService.Profile] could not cache profile: %v", err)
	}
	return me, nil
}
