package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	at, err := NewAccessToken(secret, 42, "ADMIN", 15)
	if err != nil {
		t.Fatal(err)
	}
	if at.Exp.Before(time.Now()) {
		t.Fatal("token already expired")
	}

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse failed: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["sub"].(float64) != 42 || claims["role"].(string) != "ADMIN" {
		t.Fatalf("claims wrong: %+v", claims)
	}

	if _, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	}); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	r1, err := NewRefreshToken(7)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := NewRefreshToken(7)
	if err != nil {
		t.Fatal(err)
	}
	if r1.Raw == r2.Raw {
		t.Fatal("refresh tokens must be unique")
	}
	if len(r1.Raw) != 96 {
		t.Fatalf("raw token should be 96 hex chars, got %d", len(r1.Raw))
	}
	if HashRefreshRaw(r1.Raw) != HashRefreshRaw(r1.Raw) {
		t.Fatal("hash must be deterministic")
	}
	if HashRefreshRaw(r1.Raw) == HashRefreshRaw(r2.Raw) {
		t.Fatal("distinct tokens must hash differently")
	}
}

func TestPasswordVerify(t *testing.T) {
	hash, err := HashPassword("s3cret", 4) // minimum cost keeps the test fast
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}
