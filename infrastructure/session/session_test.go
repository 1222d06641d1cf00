package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestTokenFromRequestPrefersCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
	if got := TokenFromRequest(req); got != "cookie-token" {
		t.Fatalf("expected cookie token, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer header-token")
	if got := TokenFromRequest(req); got != "header-token" {
		t.Fatalf("expected header token, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := TokenFromRequest(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}

func TestParseCredentialVerifiesSignature(t *testing.T) {
	tok := sign(t, jwt.MapClaims{
		"sub":      "u-1",
		"name":     "Dr Vet",
		"clinicId": "c-9",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	cred, err := ParseCredential(tok, testSecret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cred.Subject != "u-1" || cred.ClinicID != "c-9" || cred.Name != "Dr Vet" || cred.Token != tok || !cred.Verified {
		t.Fatalf("unexpected credential %+v", cred)
	}

	unverified, err := ParseCredential(tok, "")
	if err != nil {
		t.Fatalf("parse without secret: %v", err)
	}
	if unverified.ClinicID != "c-9" || unverified.Verified {
		t.Fatalf("claims read without a secret must not be verified: %+v", unverified)
	}

	if _, err := ParseCredential(tok, strings.Repeat("x", 32)); err == nil {
		t.Fatal("expected signature failure with wrong secret")
	}
}

func TestParseCredentialExpired(t *testing.T) {
	tok := sign(t, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()}, testSecret)
	if _, err := ParseCredential(tok, testSecret); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired with secret, got %v", err)
	}
	if _, err := ParseCredential(tok, ""); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired without secret, got %v", err)
	}
}

func TestParseCredentialOpaqueTokenWithoutSecret(t *testing.T) {
	cred, err := ParseCredential("opaque-token", "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cred.Token != "opaque-token" || cred.Actor() != "anonymous" || cred.Verified {
		t.Fatalf("unexpected credential %+v", cred)
	}
}

func TestClearCookieExpires(t *testing.T) {
	c := ClearCookie(true)
	if c.Name != CookieName || c.MaxAge >= 0 || !c.Secure || !c.HttpOnly {
		t.Fatalf("unexpected cookie %+v", c)
	}
}
