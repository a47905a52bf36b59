package id

import (
	"encoding/hex"
	"testing"
)

func TestNewID32_FormatAndDecode(t *testing.T) {
	got := NewID32()

	if !Valid(got) {
		t.Fatalf("generated id fails its own validation: %q", got)
	}
	// decodes to exactly 16 bytes
	b, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("hex.DecodeString error: %v", err)
	}
	if len(b) != 16 {
		t.Fatalf("decoded bytes = %d, want 16", len(b))
	}
}

func TestNewID32_Uniqueness(t *testing.T) {
	const n = 200
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewID32()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id after %d iterations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"0123456789abcdef0123456789abcdef", true},
		{"ffffffffffffffffffffffffffffffff", true},
		{"", false},
		{"0123456789abcdef0123456789abcde", false},   // 31 chars
		{"0123456789abcdef0123456789abcdef0", false}, // 33 chars
		{"0123456789ABCDEF0123456789ABCDEF", false},  // uppercase
		{"0123456789abcdef-123456789abcdef", false},  // separator
		{"0123456789abcdeg0123456789abcdef", false},  // non-hex
	}
	for _, tc := range cases {
		if got := Valid(tc.in); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
