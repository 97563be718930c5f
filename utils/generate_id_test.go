package utils

import (
	"regexp"
	"strings"
	"testing"
)

var idPattern = regexp.MustCompile(`^[a-z]+-[0-9a-z]+-[0-9a-f]{8}$`)

func TestGenerateIDFormat(t *testing.T) {
	for _, prefix := range []string{"user", "camp", "clip", "pay"} {
		id := GenerateID(prefix)
		if !strings.HasPrefix(id, prefix+"-") {
			t.Errorf("GenerateID(%q) = %q, missing prefix", prefix, id)
		}
		if !idPattern.MatchString(id) {
			t.Errorf("GenerateID(%q) = %q, unexpected shape", prefix, id)
		}
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateID("pay")
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}
