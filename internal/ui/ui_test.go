package ui

import (
	"bytes"
	"testing"
)

func TestNormalizeColorMode(t *testing.T) {
	cases := map[string]ColorMode{
		"":          ColorAuto,
		"ALWAYS":    ColorAlways,
		" never ":   ColorNever,
		"sometimes": ColorAuto,
	}
	for input, want := range cases {
		if got := NormalizeColorMode(input); got != want {
			t.Fatalf("NormalizeColorMode(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMessagesRouteToStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	u := New(&out, &errOut, ColorNever, false)

	u.Infof("logged in as %s", "ana@example.com")
	u.Successf("applied\n")
	u.Errorf("login failed: %s", "Invalid credentials")
	u.Hintf("run jobseek signup")

	if got := out.String(); got != "logged in as ana@example.com\napplied\n" {
		t.Fatalf("stdout = %q", got)
	}
	if got := errOut.String(); got != "login failed: Invalid credentials\nrun jobseek signup\n" {
		t.Fatalf("stderr = %q", got)
	}
}

func TestDisableColorWins(t *testing.T) {
	var out bytes.Buffer
	u := New(&out, &out, ColorAlways, true)
	if u.ColorEnabled {
		t.Fatalf("expected colors disabled")
	}
}
