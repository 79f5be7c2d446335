package services

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"notevault/apperr"
	"notevault/utils"

	"github.com/golang-jwt/jwt/v5"
)

// SessionBundle is what the identity provider hands back after a successful
// sign-in: the access token for Authorization: Bearer plus metadata.
type SessionBundle struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Email        string
	ExpiresIn    int64
}

// IdentityGateway wraps the external identity provider. Token verification is
// local (RS256 against the provider's published keys from the credentials
// file); account creation and password sign-in go through the provider's REST
// API and need the API key.
type IdentityGateway struct {
	apiKey    string
	baseURL   string
	projectID string
	keys      map[string]*rsa.PublicKey

	httpClient *http.Client
}

// credentialsFile is the on-disk shape of the provider credentials: the
// project id plus the PEM public keys tokens are signed with, keyed by kid.
type credentialsFile struct {
	ProjectID string            `json:"project_id"`
	Keys      map[string]string `json:"keys"`
}

// NewIdentityGateway loads the provider credentials file and builds the
// gateway. An unreadable or empty credentials file is an error; the caller
// decides whether that is fatal. An empty apiKey is allowed and only disables
// the register/login endpoints.
func NewIdentityGateway(credentialsPath, apiKey, baseURL string) (*IdentityGateway, error) {
	raw, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read identity credentials: %w", err)
	}

	var creds credentialsFile
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("parse identity credentials: %w", err)
	}
	if len(creds.Keys) == 0 {
		return nil, fmt.Errorf("identity credentials at %s contain no verification keys", credentialsPath)
	}

	keys := make(map[string]*rsa.PublicKey, len(creds.Keys))
	for kid, pemKey := range creds.Keys {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
		if err != nil {
			return nil, fmt.Errorf("parse verification key %q: %w", kid, err)
		}
		keys[kid] = key
	}

	return &IdentityGateway{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		projectID:  creds.ProjectID,
		keys:       keys,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// VerifyToken checks a bearer token and returns the stable user identifier it
// carries. Any parse, signature, audience or expiry failure comes back as
// Unauthenticated; so does a valid token with no subject.
func (g *IdentityGateway) VerifyToken(tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256"})}
	if g.projectID != "" {
		opts = append(opts, jwt.WithAudience(g.projectID))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		key, ok := g.keys[kid]
		if !ok {
			return nil, fmt.Errorf("unknown key id %q", kid)
		}
		return key, nil
	}, opts...)
	if err != nil || !token.Valid {
		utils.TrackAuthAttempt("failure", "verify")
		return "", apperr.With(apperr.ErrUnauthenticated, "invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.With(apperr.ErrUnauthenticated, "invalid token claims")
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		userID, _ = claims["user_id"].(string)
	}
	if userID == "" {
		utils.TrackAuthAttempt("failure", "verify")
		return "", apperr.With(apperr.ErrUnauthenticated, "token carries no user identifier")
	}

	utils.TrackAuthAttempt("success", "verify")
	return userID, nil
}

// Register creates the account at the provider and immediately signs in, so
// the caller can use the notes API without a separate login.
func (g *IdentityGateway) Register(ctx context.Context, email, password, displayName string) (*SessionBundle, error) {
	signUp := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	if displayName != "" {
		signUp["displayName"] = displayName
	}

	if _, err := g.call(ctx, "accounts:signUp", signUp); err != nil {
		utils.TrackAuthAttempt("failure", "register")
		return nil, err
	}

	bundle, err := g.signInWithPassword(ctx, email, password)
	if err != nil {
		utils.TrackAuthAttempt("failure", "register")
		return nil, err
	}
	utils.TrackAuthAttempt("success", "register")
	return bundle, nil
}

// Login signs in with email and password.
func (g *IdentityGateway) Login(ctx context.Context, email, password string) (*SessionBundle, error) {
	bundle, err := g.signInWithPassword(ctx, email, password)
	if err != nil {
		utils.TrackAuthAttempt("failure", "login")
		return nil, err
	}
	utils.TrackAuthAttempt("success", "login")
	return bundle, nil
}

func (g *IdentityGateway) signInWithPassword(ctx context.Context, email, password string) (*SessionBundle, error) {
	resp, err := g.call(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	if resp.IDToken == "" {
		return nil, fmt.Errorf("%w: provider returned no token", apperr.ErrTransient)
	}

	expiresIn := int64(3600)
	if resp.ExpiresIn != "" {
		if parsed, err := strconv.ParseInt(resp.ExpiresIn, 10, 64); err == nil {
			expiresIn = parsed
		}
	}

	bundle := &SessionBundle{
		AccessToken:  resp.IDToken,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.LocalID,
		Email:        resp.Email,
		ExpiresIn:    expiresIn,
	}
	if bundle.Email == "" {
		bundle.Email = email
	}
	return bundle, nil
}

type providerResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	ExpiresIn    string `json:"expiresIn"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// call posts to one provider endpoint and decodes the response. Provider
// error payloads are parsed only to classify them; the raw message is never
// passed on to API callers.
func (g *IdentityGateway) call(ctx context.Context, endpoint string, payload interface{}) (*providerResponse, error) {
	if g.apiKey == "" {
		return nil, apperr.With(apperr.ErrUnconfigured, "auth is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/%s?key=%s", g.baseURL, endpoint, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrTransient, endpoint)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response", apperr.ErrTransient, endpoint)
	}

	if resp.StatusCode >= 400 {
		var perr providerError
		_ = json.Unmarshal(raw, &perr)
		return nil, classifyProviderError(perr.Error.Message, resp.StatusCode)
	}

	var out providerResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode %s response", apperr.ErrTransient, endpoint)
	}
	return &out, nil
}

// classifyProviderError maps the provider's error codes onto the service
// taxonomy. Unknown codes become a transient upstream failure carrying the
// code for the logs only.
func classifyProviderError(message string, status int) error {
	switch {
	case strings.Contains(message, "EMAIL_EXISTS"):
		return apperr.With(apperr.ErrConflict, "email already registered")
	case strings.Contains(message, "INVALID_LOGIN_CREDENTIALS"),
		strings.Contains(message, "INVALID_PASSWORD"),
		strings.Contains(message, "EMAIL_NOT_FOUND"),
		strings.Contains(message, "INVALID_EMAIL"):
		return apperr.With(apperr.ErrUnauthenticated, "invalid email or password")
	case strings.Contains(message, "WEAK_PASSWORD"):
		return apperr.With(apperr.ErrBadRequest, "password is too weak")
	case strings.Contains(message, "CONFIGURATION_NOT_FOUND"),
		strings.Contains(message, "OPERATION_NOT_ALLOWED"):
		return apperr.With(apperr.ErrUnconfigured, "auth is not configured")
	default:
		return fmt.Errorf("%w: provider status %d: %s", apperr.ErrTransient, status, message)
	}
}
