package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SessionDuration is how long an issued session token stays valid.
// Expiry simply ends the session, there is no refresh or rotation.
const SessionDuration = 7 * 24 * time.Hour

// SessionCookie is the name of the session cookie.
const SessionCookie = "token"

// sessionClaims is the JWT payload. The token only carries the user id as
// subject, everything else about the user is looked up per request.
type sessionClaims struct {
	Subject   string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	NotBefore int64  `json:"nbf"`
	ExpiresAt int64  `json:"exp"`
}

// CreateUserToken signs a new HS256 session token for the given user id.
func CreateUserToken(secret, userID string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("session secret is empty")
	}

	now := time.Now()
	claims := sessionClaims{
		Subject:   userID,
		IssuedAt:  now.Unix(),
		NotBefore: now.Add(-1 * time.Minute).Unix(),
		ExpiresAt: now.Add(SessionDuration).Unix(),
	}

	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	headerJSON, _ := json.Marshal(header)
	claimsJSON, _ := json.Marshal(claims)

	headerB64 := base64.RawURLEncoding.EncodeToString(headerJSON)
	claimsB64 := base64.RawURLEncoding.EncodeToString(claimsJSON)

	signingInput := headerB64 + "." + claimsB64
	return signingInput + "." + signHS256(signingInput, secret), nil
}

// UserFromToken verifies a session token and returns the user id it carries.
// Verification fails closed: malformed, expired, or wrong-signature tokens
// return an error and the caller treats the request as anonymous.
func UserFromToken(secret, tokenStr string) (string, error) {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid token format")
	}

	signingInput := parts[0] + "." + parts[1]
	expectedSig := signHS256(signingInput, secret)
	if !hmac.Equal([]byte(parts[2]), []byte(expectedSig)) {
		return "", fmt.Errorf("invalid token signature")
	}

	claimsJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid token encoding")
	}

	var claims sessionClaims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return "", fmt.Errorf("invalid token claims")
	}

	now := time.Now().Unix()
	if now > claims.ExpiresAt {
		return "", fmt.Errorf("token expired")
	}
	if claims.NotBefore != 0 && now < claims.NotBefore {
		return "", fmt.Errorf("token not yet valid")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}

	return claims.Subject, nil
}

func signHS256(input, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
