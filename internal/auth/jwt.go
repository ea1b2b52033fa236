package auth

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wicaksana/garda/domain/entities"
)

// TokenTTL is the fixed lifetime of issued credentials.
const TokenTTL = 24 * time.Hour

// Claims represents the claims in our JWT token
type Claims struct {
	OperatorID string        `json:"operator_id"`
	Role       entities.Role `json:"role"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("garda-dev-secret") // Default for development
}

// GenerateOperatorToken generates a JWT token for an operator. The second
// return value is the token's expiry.
func GenerateOperatorToken(operator *entities.Operator) (string, time.Time, error) {
	expiresAt := time.Now().Add(TokenTTL)
	claims := &Claims{
		OperatorID: operator.ID,
		Role:       operator.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrInvalidKey
	}
	if !claims.Role.Valid() {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
