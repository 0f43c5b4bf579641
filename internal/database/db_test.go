package database

import (
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	got := dsn("app", "s3cret", "db.internal", "3306", "guarantor")
	if !strings.HasPrefix(got, "app:s3cret@tcp(db.internal:3306)/guarantor?") {
		t.Fatalf("unexpected dsn prefix: %s", got)
	}
	// Matched-rows reporting keeps no-op keyed updates from reading as
	// not-found; time handling must stay UTC end to end.
	for _, param := range []string{"parseTime=true", "loc=UTC", "clientFoundRows=true", "charset=utf8mb4"} {
		if !strings.Contains(got, param) {
			t.Fatalf("dsn missing %s: %s", param, got)
		}
	}
}

func TestDSNWithoutPassword(t *testing.T) {
	got := dsn("app", "", "localhost", "3306", "guarantor")
	if !strings.HasPrefix(got, "app@tcp(localhost:3306)/guarantor?") {
		t.Fatalf("password-less dsn wrong: %s", got)
	}
}
