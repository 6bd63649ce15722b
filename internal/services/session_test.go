package services_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/RiskyMH/Forms/internal/services"
)

const testSecret = "test-secret"

// signTestToken builds a signed token with arbitrary claims, for expiry and
// tamper cases CreateUserToken never produces
func signTestToken(t *testing.T, secret string, claims map[string]interface{}) string {
	header, _ := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("Failed to marshal claims: %v", err)
	}

	signingInput := base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signingInput))
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// TestTokenRoundtrip verifies a fresh token resolves back to its user
func TestTokenRoundtrip(t *testing.T) {
	token, err := services.CreateUserToken(testSecret, "user-123")
	if err != nil {
		t.Fatalf("CreateUserToken failed: %v", err)
	}

	userID, err := services.UserFromToken(testSecret, token)
	if err != nil {
		t.Fatalf("UserFromToken failed: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("Expected user-123, got %q", userID)
	}
}

// TestTokenExpired verifies tokens past their exp are rejected
func TestTokenExpired(t *testing.T) {
	token := signTestToken(t, testSecret, map[string]interface{}{
		"sub": "user-123",
		"iat": time.Now().Add(-8 * 24 * time.Hour).Unix(),
		"nbf": time.Now().Add(-8 * 24 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := services.UserFromToken(testSecret, token); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}

// TestTokenTampered verifies signature and payload tampering both fail
func TestTokenTampered(t *testing.T) {
	token, _ := services.CreateUserToken(testSecret, "user-123")

	// wrong secret
	if _, err := services.UserFromToken("other-secret", token); err == nil {
		t.Error("Expected token signed with another secret to be rejected")
	}

	// swapped payload, original signature
	parts := strings.Split(token, ".")
	forged, _ := json.Marshal(map[string]interface{}{
		"sub": "admin-999",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)
	if _, err := services.UserFromToken(testSecret, strings.Join(parts, ".")); err == nil {
		t.Error("Expected payload-swapped token to be rejected")
	}
}

// TestTokenMalformed verifies junk input fails closed
func TestTokenMalformed(t *testing.T) {
	for _, token := range []string{
		"",
		"not-a-token",
		"a.b",
		"a.b.c.d",
		"!!!.###.$$$",
	} {
		if _, err := services.UserFromToken(testSecret, token); err == nil {
			t.Errorf("Expected malformed token %q to be rejected", token)
		}
	}
}

// TestTokenEmptySubject verifies a valid signature with no subject is rejected
func TestTokenEmptySubject(t *testing.T) {
	token := signTestToken(t, testSecret, map[string]interface{}{
		"sub": "",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := services.UserFromToken(testSecret, token); err == nil {
		t.Error("Expected subject-less token to be rejected")
	}
}

// TestCreateUserTokenEmptySecret verifies tokens are never signed with an empty key
func TestCreateUserTokenEmptySecret(t *testing.T) {
	if _, err := services.CreateUserToken("", "user-123"); err == nil {
		t.Error("Expected empty secret to be rejected")
	}
}
