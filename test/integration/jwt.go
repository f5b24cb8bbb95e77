package integration

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSigningKey = []byte("trustidity-integration-test-key")

// TestClaims holds the configurable claims for generating test session tokens.
type TestClaims struct {
	SubjectID string
	Email     string
	Role      string
	ExpiresIn time.Duration
}

// GenerateToken creates a signed HS256 JWT for the session store. The client
// never verifies signatures, it only reads the exp claim.
func GenerateToken(t *testing.T, claims TestClaims) string {
	t.Helper()

	if claims.ExpiresIn == 0 {
		claims.ExpiresIn = time.Hour
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":   "https://auth.test.trustidity.dev",
		"sub":   claims.SubjectID,
		"email": claims.Email,
		"role":  claims.Role,
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(now.Add(claims.ExpiresIn)),
	})
	signed, err := token.SignedString(testSigningKey)
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}
