package session

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// refreshMargin renews the token this long before it expires.
const refreshMargin = time.Minute

// GoTrue is a Supabase auth session using the password grant. It keeps
// the access token fresh and doubles as the remote client's token
// source.
type GoTrue struct {
	baseURL    string
	anonKey    string
	email      string
	password   string
	httpClient *http.Client
	logger     *slog.Logger

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	userID       string
	userEmail    string
	expiresAt    time.Time
}

// NewGoTrue creates a GoTrue session. No network call happens until
// SignIn or the first identity lookup.
func NewGoTrue(baseURL, anonKey, email, password string, logger *slog.Logger) *GoTrue {
	if baseURL != "" && !strings.HasPrefix(baseURL, "http") {
		baseURL = "https://" + baseURL
	}
	return &GoTrue{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		anonKey:  anonKey,
		email:    email,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn performs the password grant and stores the session.
func (g *GoTrue) SignIn(ctx context.Context) error {
	if g.email == "" || g.password == "" {
		return ErrNotSignedIn
	}

	payload := map[string]string{"email": g.email, "password": g.password}
	tok, err := g.tokenRequest(ctx, "grant_type=password", payload)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	g.storeToken(tok)
	if g.logger != nil {
		g.logger.Info("signed in", "user", tok.User.ID)
	}
	return nil
}

// SignOut forgets the session.
func (g *GoTrue) SignOut() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.accessToken = ""
	g.refreshToken = ""
	g.userID = ""
	g.userEmail = ""
	g.expiresAt = time.Time{}
}

// CurrentUserID returns the signed-in user's id, refreshing the token
// when it is about to expire. Returns "" when signed out.
func (g *GoTrue) CurrentUserID(ctx context.Context) (string, error) {
	if err := g.ensureFresh(ctx); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.userID, nil
}

// CurrentUserEmail returns the signed-in user's email, or "".
func (g *GoTrue) CurrentUserEmail(ctx context.Context) (string, error) {
	if err := g.ensureFresh(ctx); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.userEmail, nil
}

// AccessToken returns the current access token, or "" when signed out.
// Implements the remote client's TokenSource.
func (g *GoTrue) AccessToken() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.accessToken
}

// ensureFresh refreshes the access token when close to expiry. A
// signed-out session is left alone; callers see an empty user id.
func (g *GoTrue) ensureFresh(ctx context.Context) error {
	g.mu.Lock()
	needsRefresh := g.refreshToken != "" && time.Until(g.expiresAt) < refreshMargin
	refreshToken := g.refreshToken
	g.mu.Unlock()

	if !needsRefresh {
		return nil
	}

	tok, err := g.tokenRequest(ctx, "grant_type=refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("token refresh failed", "error", err)
		}
		return fmt.Errorf("refresh token: %w", err)
	}

	g.storeToken(tok)
	return nil
}

func (g *GoTrue) storeToken(tok *tokenResponse) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.accessToken = tok.AccessToken
	g.refreshToken = tok.RefreshToken
	g.userID = tok.User.ID
	g.userEmail = tok.User.Email
	g.expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
}

func (g *GoTrue) tokenRequest(ctx context.Context, grant string, payload map[string]string) (*tokenResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := g.baseURL + "/auth/v1/token?" + grant
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", g.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("auth request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var tok tokenResponse
	if err := json.Unmarshal(respBody, &tok); err != nil {
		return nil, fmt.Errorf("parse token response: %w", err)
	}
	return &tok, nil
}
