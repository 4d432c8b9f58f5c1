package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("abc123", "a@x.com", "admin", testSecret)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := ParseJWT(token, testSecret)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.UserID != "abc123" || claims.Email != "a@x.com" || claims.Role != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < SessionTTL-time.Minute || remaining > SessionTTL {
		t.Errorf("expected ~%v TTL, got %v", SessionTTL, remaining)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("abc123", "a@x.com", "user", testSecret)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Error("expected parse to fail with the wrong secret")
	}
}

func TestParseJWTGarbage(t *testing.T) {
	if _, err := ParseJWT("not.a.token", testSecret); err == nil {
		t.Error("expected parse to fail on garbage input")
	}
}

func TestParseJWTExpired(t *testing.T) {
	claims := Claims{
		UserID: "abc123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := ParseJWT(token, testSecret); err == nil {
		t.Error("expected parse to fail on an expired token")
	}
}
