package random

import (
	"strings"
	"testing"
)

func TestStrings(t *testing.T) {
	s := String(16)
	sec, err := StringSecure(32)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []string{s, sec} {
		for _, r := range v {
			if !strings.ContainsRune(charset, r) {
				t.Fatalf("%q contains %q", v, r)
			}
		}
	}
	if len(s) != 16 || len(sec) != 32 {
		t.Fatalf("wrong lengths: %d %d", len(s), len(sec))
	}
	if other, _ := StringSecure(32); other == sec {
		t.Fatal("secure strings repeat")
	}
}
