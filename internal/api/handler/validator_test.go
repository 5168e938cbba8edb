package handler

import (
	"strings"
	"testing"
)

type passwordForm struct {
	Password string `validate:"notblank,maxbytes=72"`
}

func TestValidator_MaxBytesCountsBytes(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"ascii at limit", strings.Repeat("a", 72), true},
		{"ascii over limit", strings.Repeat("a", 73), false},
		{"multibyte at limit", strings.Repeat("é", 36), true},
		{"multibyte over limit under rune count", strings.Repeat("é", 40), false},
		{"blank", "   ", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(&passwordForm{Password: tc.password})
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestValidator_MaxBytesMessage(t *testing.T) {
	err := NewValidator().Validate(&passwordForm{Password: strings.Repeat("ü", 50)})
	if err == nil || err.Error() != "password must be at most 72 bytes" {
		t.Fatalf("unexpected error %v", err)
	}
}
