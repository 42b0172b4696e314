package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID     string `json:"uid"`
	RoleName   string `json:"role"`
	EmployeeID string `json:"eid,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

var ErrMissingEmployee = errors.New("employee token carries no employee id")

// UserFromClaims resolves the caller identity. Unknown roles are rejected, and
// so are employee tokens that do not name the employee they act for.
func UserFromClaims(claims *Claims) (UserContext, error) {
	role, ok := ParseRole(claims.RoleName)
	if !ok {
		return UserContext{}, errors.New("unknown role")
	}
	if role == RoleEmployee && strings.TrimSpace(claims.EmployeeID) == "" {
		return UserContext{}, ErrMissingEmployee
	}
	return UserContext{UserID: claims.UserID, Role: role, EmployeeID: claims.EmployeeID}, nil
}
