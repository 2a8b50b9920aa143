package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the structure of the portal's session token payload.
type Claims struct {
	UserId string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// InspectToken decodes the session token's claims without verifying the
// signature - the signing secret lives on the portal, the client only
// inspects its own token for display (`whoami --offline`). Expiry is
// still checked so a stale token isn't presented as live.
func InspectToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrorJwtClaimsInvalid, err)
	}
	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return claims, ErrorJwtTokenExpired
	}
	return claims, nil
}
