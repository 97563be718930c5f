package utils

import "testing"

func TestSanitizeInput(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  hello  ", "hello"},
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"plain text", "plain text"},
		{"line\x00break\x07", "linebreak"},
	}
	for _, tc := range cases {
		if got := SanitizeInput(tc.in); got != tc.want {
			t.Errorf("SanitizeInput(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeEmail(t *testing.T) {
	got, err := SanitizeEmail("  Creator@Example.COM ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "creator@example.com" {
		t.Errorf("got %q, want creator@example.com", got)
	}

	for _, bad := range []string{"", "not-an-email", "a@b", "@example.com", "user@.com"} {
		if _, err := SanitizeEmail(bad); err == nil {
			t.Errorf("SanitizeEmail(%q) should fail", bad)
		}
	}
}

func TestSanitizeStringArray(t *testing.T) {
	got := SanitizeStringArray([]string{" a ", "<b>"})
	if len(got) != 2 || got[0] != "a" || got[1] != "&lt;b&gt;" {
		t.Errorf("got %v", got)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if err := CheckPassword("s3cretpass", hash); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := CheckPassword("wrongpass", hash); err == nil {
		t.Error("wrong password accepted")
	}
}
