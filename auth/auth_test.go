// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	id1 := GenerateID()
	id2 := GenerateID()

	if !ValidID(id1) {
		t.Errorf("GenerateID() = %q, not a valid UUID", id1)
	}
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"0b6f8c4e-3c1d-4a5e-9d7a-2f1e8b9c0d11", true},
		{"", false},
		{"not-a-uuid", false},
		{"1; DROP TABLE ballot", false},
	}

	for _, tt := range tests {
		if got := ValidID(tt.id); got != tt.want {
			t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "correct horse" {
		t.Error("HashPassword() returned the plaintext")
	}
	if err := CheckPassword(hash, "correct horse"); err != nil {
		t.Errorf("CheckPassword() with right password: %v", err)
	}
	if err := CheckPassword(hash, "wrong horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() with wrong password = %v, want ErrInvalidCredentials", err)
	}

	// Salted: same password hashes differently
	hash2, _ := HashPassword("correct horse")
	if hash == hash2 {
		t.Error("HashPassword() is not salted")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"standard", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"extra spaces", "  Bearer   abc  ", "abc"},
		{"empty", "", ""},
		{"basic auth", "Basic dXNlcjpwYXNz", ""},
		{"no token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BearerToken(tt.header); got != tt.want {
				t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "ballotbox", time.Hour)

	token, err := issuer.NewToken("acc-1", "admin")
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}

	claims, err := issuer.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.AccountID != "acc-1" {
		t.Errorf("AccountID = %q, want acc-1", claims.AccountID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
	if claims.Issuer != "ballotbox" {
		t.Errorf("Issuer = %q, want ballotbox", claims.Issuer)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "ballotbox", time.Hour)
	valid, _ := issuer.NewToken("acc-1", "voter")

	otherSecret := NewTokenIssuer("other-secret", "ballotbox", time.Hour)
	forged, _ := otherSecret.NewToken("acc-1", "admin")

	otherIssuer := NewTokenIssuer("test-secret", "someone-else", time.Hour)
	foreign, _ := otherIssuer.NewToken("acc-1", "voter")

	expiredIssuer := NewTokenIssuer("test-secret", "ballotbox", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredIssuer.NewToken("acc-1", "voter")

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", forged},
		{"wrong issuer", foreign},
		{"expired", expired},
		{"tampered", valid[:len(valid)-2] + "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.ParseToken(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ParseToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestParseToken_RejectsNoneAlgorithm(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "ballotbox", time.Hour)

	// {"alg":"none","typ":"JWT"}.{"account_id":"acc-1","role":"admin","iss":"ballotbox"}.
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
		"eyJhY2NvdW50X2lkIjoiYWNjLTEiLCJyb2xlIjoiYWRtaW4iLCJpc3MiOiJiYWxsb3Rib3gifQ."

	if _, err := issuer.ParseToken(unsigned); err == nil {
		t.Error("ParseToken() accepted an unsigned token")
	}
}
