package utils

import (
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	token, exp, err := SignSession("secret", 42, "front@hotel.local", "Receptionist", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("SignSession: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry should be in the future, got %s", exp)
	}

	claims, err := ParseSession("secret", token)
	if err != nil {
		t.Fatalf("ParseSession: %v", err)
	}
	if claims.StaffID != 42 || claims.Username != "front@hotel.local" || claims.Role != "Receptionist" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestSessionRejectsWrongSecretAndExpiry(t *testing.T) {
	token, _, err := SignSession("secret", 1, "a", "Manager", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("SignSession: %v", err)
	}
	if _, err := ParseSession("other", token); err == nil {
		t.Fatalf("expected wrong secret to fail")
	}

	expired, _, err := SignSession("secret", 1, "a", "Manager", time.Hour, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("SignSession: %v", err)
	}
	if _, err := ParseSession("secret", expired); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "admin123") {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword(hash, "admin124") {
		t.Fatalf("expected wrong password to fail")
	}
}
