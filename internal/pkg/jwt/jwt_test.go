package jwt

import (
	"errors"
	"testing"
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateAccessToken("u-1", "demo@josenian.edu", "Demo User", "IT", "secret", 15)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateAccessToken(token, "secret")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != "demo@josenian.edu" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Department != "IT" {
		t.Errorf("department = %q, want IT", claims.Department)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("u-1", "demo@josenian.edu", "Demo User", "IT", "secret", 15)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	token, err := GenerateAccessToken("u-1", "demo@josenian.edu", "Demo User", "IT", "secret", -1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ValidateAccessToken(token, "secret"); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	if _, err := ValidateAccessToken("not-a-token", "secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}
