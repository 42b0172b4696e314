package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1", RoleName: "empleado", EmployeeID: "e1"}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	user, err := UserFromClaims(claims)
	if err != nil {
		t.Fatalf("user from claims: %v", err)
	}
	if user.Role != RoleEmployee || user.EmployeeID != "e1" || user.UserID != "u1" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1", RoleName: "admin"}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1", RoleName: "admin"}, -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestUserFromClaimsEmployeeNeedsEmployeeID(t *testing.T) {
	for _, eid := range []string{"", "   "} {
		_, err := UserFromClaims(&Claims{UserID: "u1", RoleName: "employee", EmployeeID: eid})
		if !errors.Is(err, ErrMissingEmployee) {
			t.Fatalf("eid %q: expected ErrMissingEmployee, got %v", eid, err)
		}
	}
	user, err := UserFromClaims(&Claims{UserID: "u2", RoleName: "admin"})
	if err != nil || user.Role != RoleAdmin {
		t.Fatalf("admin without eid should resolve, got %+v %v", user, err)
	}
}
