// Package auth implements the Google OAuth2 login flow and the session
// middleware. A successful login stores the user (with their refresh token)
// in the session store and sets the session cookie; the middleware resolves
// that cookie back to a user on every API request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauthapi "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ledgersheet/ledgersheet/internal/config"
	"github.com/ledgersheet/ledgersheet/internal/session"
)

type contextKey string

const userKey contextKey = "user"

const stateCookie = "oauth_state"

// Handler owns the login endpoints and the session middleware.
type Handler struct {
	oauth    *oauth2.Config
	sessions *session.Store
	cookie   config.SessionConfig
	log      zerolog.Logger
}

// NewHandler builds the auth handler from the application configuration.
func NewHandler(cfg *config.Config, sessions *session.Store, log zerolog.Logger) *Handler {
	return &Handler{
		oauth: &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes: []string{
				"openid",
				"email",
				"profile",
				sheets.SpreadsheetsScope,
			},
			Endpoint: google.Endpoint,
		},
		sessions: sessions,
		cookie:   cfg.Session,
		log:      log,
	}
}

// Login handles GET /auth/login: sets the state cookie and redirects to the
// Google consent screen.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	url := h.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusFound)
}

// Callback handles GET /auth/callback: verifies state, exchanges the code,
// upserts the user and opens a session.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stateC, err := r.Cookie(stateCookie)
	if err != nil || stateC.Value == "" || stateC.Value != r.URL.Query().Get("state") {
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		h.log.Error().Err(err).Msg("OAuth code exchange failed")
		http.Error(w, "authentication failed", http.StatusBadGateway)
		return
	}

	info, err := h.userinfo(ctx, token)
	if err != nil {
		h.log.Error().Err(err).Msg("Fetching user info failed")
		http.Error(w, "authentication failed", http.StatusBadGateway)
		return
	}

	user, err := h.sessions.UpsertUser(ctx, &session.User{
		GoogleID:     info.Id,
		Email:        info.Email,
		Name:         info.Name,
		RefreshToken: token.RefreshToken,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Storing user failed")
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	sess, err := h.sessions.CreateSession(ctx, user.ID, h.cookie.TTL)
	if err != nil {
		h.log.Error().Err(err).Msg("Creating session failed")
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	h.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User logged in")
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.cookie.CookieName); err == nil {
		if err := h.sessions.DeleteSession(r.Context(), c.Value); err != nil {
			h.log.Error().Err(err).Msg("Deleting session failed")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// RequireSession resolves the session cookie to a user and stores it in the
// request context, rejecting unauthenticated requests.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(h.cookie.CookieName)
		if err != nil {
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}

		user, err := h.sessions.UserBySession(r.Context(), c.Value)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				h.log.Error().Err(err).Msg("Session lookup failed")
			}
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFrom returns the authenticated user stored by RequireSession.
func UserFrom(ctx context.Context) (*session.User, bool) {
	u, ok := ctx.Value(userKey).(*session.User)
	return u, ok
}

// HTTPClient builds an HTTP client carrying the user's refreshed OAuth2
// token, suitable for the sheets client.
func (h *Handler) HTTPClient(ctx context.Context, user *session.User) (*http.Client, error) {
	if user.RefreshToken == "" {
		return nil, fmt.Errorf("user %s has no refresh token", user.ID)
	}
	ts := h.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: user.RefreshToken})
	return oauth2.NewClient(ctx, ts), nil
}

func (h *Handler) userinfo(ctx context.Context, token *oauth2.Token) (*oauthapi.Userinfo, error) {
	svc, err := oauthapi.NewService(ctx, option.WithTokenSource(h.oauth.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("creating userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetching userinfo: %w", err)
	}
	return info, nil
}
