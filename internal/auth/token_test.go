package auth

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 5)

	token, expiresAt, err := tm.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatal("empty token or expiry")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Role != RoleOperator {
		t.Errorf("role = %q, want %q", claims.Role, RoleOperator)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", 5)
	token, _, err := tm.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other := NewTokenManager("secret-b", 5)
	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("ParseToken accepted token signed with a different secret")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hash, "hunter2"); err != nil {
		t.Errorf("ComparePassword rejected correct password: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Error("ComparePassword accepted wrong password")
	}
}

func TestPasswordHashDefaultCost(t *testing.T) {
	hash, err := HashPassword("hunter2", 0)
	if err != nil {
		t.Fatalf("HashPassword with zero cost: %v", err)
	}
	if err := ComparePassword(hash, "hunter2"); err != nil {
		t.Errorf("ComparePassword rejected correct password: %v", err)
	}
}
