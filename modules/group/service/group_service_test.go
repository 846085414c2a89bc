package service

import (
	"strings"
	"testing"
)

func TestNewJoinKey_SlugsTheGroupName(t *testing.T) {
	key := newJoinKey("Study Group 2026!")
	if !strings.HasPrefix(key, "study-group-2026-") {
		t.Fatalf("key = %q, want slug prefix", key)
	}

	suffix := key[strings.LastIndex(key, "-")+1:]
	if len(suffix) != joinKeySuffixLength {
		t.Fatalf("suffix %q has length %d, want %d", suffix, len(suffix), joinKeySuffixLength)
	}
}

func TestNewJoinKey_FallsBackForUnsluggableNames(t *testing.T) {
	key := newJoinKey("!!!")
	if !strings.HasPrefix(key, "group-") {
		t.Fatalf("key = %q, want group- prefix", key)
	}
}

func TestNewJoinKey_KeysDiffer(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		key := newJoinKey("weekend crew")
		if seen[key] {
			t.Fatalf("duplicate key %q", key)
		}
		seen[key] = true
	}
}
