package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/diet-planner/internal/config"
	"github.com/fdg312/diet-planner/internal/userctx"
	"github.com/golang-jwt/jwt/v5"
)

func testConfig(mode string, required bool) *config.Config {
	return &config.Config{
		AuthMode:      mode,
		AuthEnabled:   mode != "none",
		AuthRequired:  required,
		JWTSecret:     "test-secret-key-for-testing-only",
		JWTIssuer:     "diet-planner-test",
		JWTTTLMinutes: 60,
	}
}

func issueToken(t *testing.T, svc *Service, userID string) string {
	t.Helper()
	body, _ := json.Marshal(DevAuthRequest{UserID: userID})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev", bytes.NewReader(body))
	w := httptest.NewRecorder()
	NewHandlers(svc).HandleDevAuth(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}
	var resp DevAuthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.AccessToken
}

func TestHandleDevAuth(t *testing.T) {
	svc := NewService(testConfig("dev", false))

	t.Run("DefaultUser", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev", nil)
		w := httptest.NewRecorder()
		NewHandlers(svc).HandleDevAuth(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}
		var resp DevAuthResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.UserID != "dev-user" || resp.TokenType != "Bearer" || resp.ExpiresIn != 3600 {
			t.Errorf("unexpected response: %+v", resp)
		}
		sub, err := svc.VerifyJWT(resp.AccessToken)
		if err != nil || sub != "dev-user" {
			t.Errorf("expected dev-user token, got %q, %v", sub, err)
		}
	})

	t.Run("ExplicitUser", func(t *testing.T) {
		token := issueToken(t, svc, "coach-7")
		if sub, _ := svc.VerifyJWT(token); sub != "coach-7" {
			t.Errorf("expected coach-7, got %q", sub)
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev", nil)
		w := httptest.NewRecorder()
		NewHandlers(NewService(testConfig("none", false))).HandleDevAuth(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", w.Code)
		}
	})
}

func TestVerifyJWTRejects(t *testing.T) {
	cfg := testConfig("dev", true)
	svc := NewService(cfg)

	sign := func(claims jwt.RegisteredClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	now := time.Now()
	valid := jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    cfg.JWTIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	foreign := valid
	foreign.Issuer = "someone-else"
	noSubject := valid
	noSubject.Subject = ""

	tests := map[string]string{
		"garbage":      "not-a-jwt",
		"wrong secret": sign(valid, "other-secret"),
		"expired":      sign(expired, cfg.JWTSecret),
		"wrong issuer": sign(foreign, cfg.JWTSecret),
		"no subject":   sign(noSubject, cfg.JWTSecret),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.VerifyJWT(token); err != ErrInvalidToken {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	if sub, err := svc.VerifyJWT(sign(valid, cfg.JWTSecret)); err != nil || sub != "u1" {
		t.Errorf("expected valid token, got %q, %v", sub, err)
	}
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := userctx.GetUserID(r.Context())
		w.Write([]byte(userID))
	})
}

func TestRequireAuth(t *testing.T) {
	cfg := testConfig("dev", true)
	svc := NewService(cfg)
	handler := NewMiddleware(cfg, svc).Wrap(echoUser())
	token := issueToken(t, svc, "coach-1")

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantBody string
	}{
		{"no token", "/v1/clients", "", http.StatusUnauthorized, ""},
		{"bad scheme", "/v1/clients", "Basic " + token, http.StatusUnauthorized, ""},
		{"valid token", "/v1/clients", "Bearer " + token, http.StatusOK, "coach-1"},
		{"public health", "/healthz", "", http.StatusOK, ""},
		{"public calculator", "/v1/nutrition/calculate", "", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
			if tt.wantCode == http.StatusOK && w.Body.String() != tt.wantBody {
				t.Errorf("expected user %q, got %q", tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	cfg := testConfig("dev", false)
	svc := NewService(cfg)
	handler := NewMiddleware(cfg, svc).Wrap(echoUser())

	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "" {
		t.Fatalf("anonymous request should pass, got %d %q", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	req.Header.Set("Authorization", "Bearer broken")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token should be rejected, got %d", w.Code)
	}
}

func TestWrapWithAuthDisabled(t *testing.T) {
	cfg := testConfig("none", false)
	handler := NewMiddleware(cfg, NewService(cfg)).Wrap(echoUser())

	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", w.Code)
	}
}
