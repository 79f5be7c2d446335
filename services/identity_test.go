package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"notevault/apperr"

	"github.com/golang-jwt/jwt/v5"
)

const testProject = "test-project"

type testIdentity struct {
	gateway *IdentityGateway
	key     *rsa.PrivateKey
}

// newTestIdentity generates a signing key, writes a credentials file carrying
// its public half, and builds a gateway pointed at baseURL.
func newTestIdentity(t *testing.T, apiKey, baseURL string) *testIdentity {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal("generate key:", err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal("marshal public key:", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	creds, err := json.Marshal(map[string]interface{}{
		"project_id": testProject,
		"keys":       map[string]string{"test-kid": string(pubPEM)},
	})
	if err != nil {
		t.Fatal("marshal credentials:", err)
	}

	path := filepath.Join(t.TempDir(), "identity-credentials.json")
	if err := os.WriteFile(path, creds, 0o600); err != nil {
		t.Fatal("write credentials:", err)
	}

	gateway, err := NewIdentityGateway(path, apiKey, baseURL)
	if err != nil {
		t.Fatal("new identity gateway:", err)
	}
	return &testIdentity{gateway: gateway, key: key}
}

func (ti *testIdentity) signToken(t *testing.T, claims jwt.MapClaims, kid string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(ti.key)
	if err != nil {
		t.Fatal("sign token:", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub": "user-1",
		"aud": testProject,
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
}

func TestVerifyToken(t *testing.T) {
	ti := newTestIdentity(t, "", "http://identity.invalid")

	t.Run("Valid", func(t *testing.T) {
		userID, err := ti.gateway.VerifyToken(ti.signToken(t, validClaims(), "test-kid"))
		if err != nil {
			t.Fatal("verify failed", err)
		}
		if userID != "user-1" {
			t.Errorf("expected user-1, got %q", userID)
		}
	})

	t.Run("UserIDClaimFallback", func(t *testing.T) {
		claims := validClaims()
		delete(claims, "sub")
		claims["user_id"] = "user-2"

		userID, err := ti.gateway.VerifyToken(ti.signToken(t, claims, "test-kid"))
		if err != nil {
			t.Fatal("verify failed", err)
		}
		if userID != "user-2" {
			t.Errorf("expected user-2, got %q", userID)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		claims := validClaims()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()

		_, err := ti.gateway.VerifyToken(ti.signToken(t, claims, "test-kid"))
		if !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("UnknownKeyID", func(t *testing.T) {
		_, err := ti.gateway.VerifyToken(ti.signToken(t, validClaims(), "other-kid"))
		if !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("WrongAudience", func(t *testing.T) {
		claims := validClaims()
		claims["aud"] = "someone-else"

		_, err := ti.gateway.VerifyToken(ti.signToken(t, claims, "test-kid"))
		if !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("WrongAlgorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
		token.Header["kid"] = "test-kid"
		signed, err := token.SignedString([]byte("hmac-secret"))
		if err != nil {
			t.Fatal("sign token:", err)
		}

		_, err = ti.gateway.VerifyToken(signed)
		if !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("NoIdentifier", func(t *testing.T) {
		claims := validClaims()
		delete(claims, "sub")

		_, err := ti.gateway.VerifyToken(ti.signToken(t, claims, "test-kid"))
		if !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := ti.gateway.VerifyToken("not-a-token")
		if !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
	})
}

func TestNewIdentityGatewayErrors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := NewIdentityGateway(filepath.Join(t.TempDir(), "absent.json"), "", "")
		if err == nil {
			t.Fatal("expected error for missing credentials file")
		}
	})

	t.Run("NoKeys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")
		os.WriteFile(path, []byte(`{"project_id":"p","keys":{}}`), 0o600)
		if _, err := NewIdentityGateway(path, "", ""); err == nil {
			t.Fatal("expected error for credentials without keys")
		}
	})

	t.Run("BadPEM", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")
		os.WriteFile(path, []byte(`{"project_id":"p","keys":{"k":"not pem"}}`), 0o600)
		if _, err := NewIdentityGateway(path, "", ""); err == nil {
			t.Fatal("expected error for malformed key")
		}
	})
}

// fakeProvider emulates the provider's signUp and signInWithPassword REST
// endpoints.
func fakeProvider(t *testing.T, signUpStatus int, signUpBody string, signInStatus int, signInBody string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "" {
			t.Error("provider called without api key")
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/accounts:signUp":
			w.WriteHeader(signUpStatus)
			w.Write([]byte(signUpBody))
		case "/accounts:signInWithPassword":
			w.WriteHeader(signInStatus)
			w.Write([]byte(signInBody))
		default:
			t.Errorf("unexpected provider path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

const sessionBody = `{
	"idToken": "access-123",
	"refreshToken": "refresh-456",
	"localId": "user-1",
	"email": "a@x.com",
	"expiresIn": "3600"
}`

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := fakeProvider(t, http.StatusOK, `{"localId":"user-1"}`, http.StatusOK, sessionBody)
		defer srv.Close()

		ti := newTestIdentity(t, "api-key", srv.URL)
		bundle, err := ti.gateway.Register(context.Background(), "a@x.com", "secret1", "Alice")
		if err != nil {
			t.Fatal("register failed", err)
		}

		if bundle.AccessToken != "access-123" {
			t.Errorf("access token: got %q", bundle.AccessToken)
		}
		if bundle.RefreshToken != "refresh-456" {
			t.Errorf("refresh token: got %q", bundle.RefreshToken)
		}
		if bundle.UserID != "user-1" || bundle.Email != "a@x.com" {
			t.Errorf("identity: got %q / %q", bundle.UserID, bundle.Email)
		}
		if bundle.ExpiresIn != 3600 {
			t.Errorf("expires_in: got %d", bundle.ExpiresIn)
		}
	})

	t.Run("EmailExists", func(t *testing.T) {
		srv := fakeProvider(t, http.StatusBadRequest,
			`{"error":{"message":"EMAIL_EXISTS"}}`, http.StatusOK, sessionBody)
		defer srv.Close()

		ti := newTestIdentity(t, "api-key", srv.URL)
		_, err := ti.gateway.Register(context.Background(), "a@x.com", "secret1", "")
		if !errors.Is(err, apperr.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("Unconfigured", func(t *testing.T) {
		ti := newTestIdentity(t, "", "http://identity.invalid")
		_, err := ti.gateway.Register(context.Background(), "a@x.com", "secret1", "")
		if !errors.Is(err, apperr.ErrUnconfigured) {
			t.Errorf("expected ErrUnconfigured, got %v", err)
		}
	})

	t.Run("ProviderNotEnabled", func(t *testing.T) {
		srv := fakeProvider(t, http.StatusBadRequest,
			`{"error":{"message":"CONFIGURATION_NOT_FOUND"}}`, http.StatusOK, sessionBody)
		defer srv.Close()

		ti := newTestIdentity(t, "api-key", srv.URL)
		_, err := ti.gateway.Register(context.Background(), "a@x.com", "secret1", "")
		if !errors.Is(err, apperr.ErrUnconfigured) {
			t.Errorf("expected ErrUnconfigured, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := fakeProvider(t, http.StatusOK, `{}`, http.StatusOK, sessionBody)
		defer srv.Close()

		ti := newTestIdentity(t, "api-key", srv.URL)
		bundle, err := ti.gateway.Login(context.Background(), "a@x.com", "secret1")
		if err != nil {
			t.Fatal("login failed", err)
		}
		if bundle.AccessToken != "access-123" || bundle.UserID != "user-1" {
			t.Errorf("unexpected bundle: %+v", bundle)
		}
	})

	t.Run("BadCredentials", func(t *testing.T) {
		srv := fakeProvider(t, http.StatusOK, `{}`, http.StatusBadRequest,
			`{"error":{"message":"INVALID_LOGIN_CREDENTIALS"}}`)
		defer srv.Close()

		ti := newTestIdentity(t, "api-key", srv.URL)
		_, err := ti.gateway.Login(context.Background(), "a@x.com", "wrong")
		if !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("Unconfigured", func(t *testing.T) {
		ti := newTestIdentity(t, "", "http://identity.invalid")
		_, err := ti.gateway.Login(context.Background(), "a@x.com", "secret1")
		if !errors.Is(err, apperr.ErrUnconfigured) {
			t.Errorf("expected ErrUnconfigured, got %v", err)
		}
	})

	t.Run("ProviderDown", func(t *testing.T) {
		srv := fakeProvider(t, http.StatusOK, `{}`, http.StatusOK, sessionBody)
		srv.Close() // refuse connections

		ti := newTestIdentity(t, "api-key", srv.URL)
		_, err := ti.gateway.Login(context.Background(), "a@x.com", "secret1")
		if !errors.Is(err, apperr.ErrTransient) {
			t.Errorf("expected ErrTransient, got %v", err)
		}
	})

	t.Run("UnknownProviderError", func(t *testing.T) {
		srv := fakeProvider(t, http.StatusOK, `{}`, http.StatusInternalServerError,
			`{"error":{"message":"SOMETHING_ODD"}}`)
		defer srv.Close()

		ti := newTestIdentity(t, "api-key", srv.URL)
		_, err := ti.gateway.Login(context.Background(), "a@x.com", "secret1")
		if !errors.Is(err, apperr.ErrTransient) {
			t.Errorf("expected ErrTransient, got %v", err)
		}
	})
}
