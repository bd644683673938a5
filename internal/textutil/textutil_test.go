package textutil

import "testing"

func TestContainsCJK(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"こんにちは", true},
		{"カタカナ", true},
		{"漢字", true},
		{"안녕하세요", true},
		{"Hello world", false},
		{"", false},
		{"mixed こんにちは text", true},
	}
	for _, tt := range tests {
		if got := ContainsCJK(tt.text); got != tt.want {
			t.Errorf("ContainsCJK(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestHash(t *testing.T) {
	if Hash("hello") != Hash("hello") {
		t.Error("Hash is not deterministic")
	}
	if Hash("hello") == Hash("hello ") {
		t.Error("Hash collides on different input")
	}
	if len(Hash("x")) != 64 {
		t.Errorf("Hash length = %d, want 64", len(Hash("x")))
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("abc", 5); got != "abc" {
		t.Errorf("Truncate() = %q", got)
	}
}
