package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"
)

func Test_bodyHash(t *testing.T) {
	data := []byte("hello world")
	got := bodyHash(data)

	sum := sha256.Sum256(data)
	want := hex.EncodeToString(sum[:])

	if got != want {
		t.Fatalf("bodyHash mismatch: got %s want %s", got, want)
	}
}

func Test_buildKey(t *testing.T) {
	k := buildKey("POST", "/applications", strings.Repeat("b", 32), strings.Repeat("a", 32))
	wantPrefix := "idemp:app:post:/applications:"
	if !strings.HasPrefix(k, wantPrefix) {
		t.Fatalf("buildKey prefix mismatch: got %q want prefix %q", k, wantPrefix)
	}
}

func Test_validReqID(t *testing.T) {
	if !validReqID(strings.Repeat("a", 32)) {
		t.Fatal("32-hex should be valid")
	}
	if !validReqID("018f7b4e-0000-4000-8000-0123456789ab") {
		t.Fatal("uuid should be valid")
	}
	if validReqID("short") || validReqID("") {
		t.Fatal("garbage should be invalid")
	}
}

func Test_parseRequestAt(t *testing.T) {
	// epoch seconds
	if got, err := parseRequestAt("1736123456"); err != nil || got.Unix() != 1736123456 {
		t.Fatalf("epoch seconds: got %v err %v", got, err)
	}
	// epoch ms
	if got, err := parseRequestAt("1736123456789"); err != nil || got.UnixMilli() != 1736123456789 {
		t.Fatalf("epoch ms: got %v err %v", got, err)
	}
	// RFC3339 with zone
	if _, err := parseRequestAt("2026-08-31T10:00:00+05:00"); err != nil {
		t.Fatalf("rfc3339 with zone: %v", err)
	}
	// naive timestamp without zone rejected
	if _, err := parseRequestAt("2026-08-31T10:00:00"); err == nil {
		t.Fatal("naive timestamp should be rejected")
	}
	if _, err := parseRequestAt(""); err == nil {
		t.Fatal("empty should be rejected")
	}
	// result is UTC
	got, err := parseRequestAt(time.Now().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("now: %v", err)
	}
	if got.Location() != time.UTC {
		t.Fatalf("want UTC, got %v", got.Location())
	}
}
