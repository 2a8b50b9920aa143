package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func TestInspectToken(t *testing.T) {
	tokenStr := signTestToken(t, Claims{
		UserId: "u-1",
		Email:  "ada@example.com",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := InspectToken(tokenStr)
	if err != nil {
		t.Fatalf("InspectToken returned error: %v", err)
	}
	if claims.UserId != "u-1" || claims.Email != "ada@example.com" || claims.Role != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestInspectTokenExpired(t *testing.T) {
	tokenStr := signTestToken(t, Claims{
		UserId: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	claims, err := InspectToken(tokenStr)
	if !errors.Is(err, ErrorJwtTokenExpired) {
		t.Fatalf("expected %v, got %v", ErrorJwtTokenExpired, err)
	}
	if claims == nil || claims.UserId != "u-1" {
		t.Errorf("expired tokens should still expose their claims for display")
	}
}

func TestInspectTokenGarbage(t *testing.T) {
	if _, err := InspectToken("not.a.jwt"); !errors.Is(err, ErrorJwtClaimsInvalid) {
		t.Fatalf("expected %v, got %v", ErrorJwtClaimsInvalid, err)
	}
}
