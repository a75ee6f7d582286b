package identity

import "testing"

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"Peter@Example.COM":    "peter@example.com",
		"  spaced@mail.de  ":   "spaced@mail.de",
		"already@lower.io":     "already@lower.io",
		"":                     "",
		"  MIXED@Case.Org\t\n": "mixed@case.org",
	}

	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}
