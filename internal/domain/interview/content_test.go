package interview

import (
	"strings"
	"testing"
)

func TestMessageContentValidation(t *testing.T) {
	if _, err := NewMessageContent(""); err == nil {
		t.Fatalf("empty content should fail")
	}
	if _, err := NewMessageContent("   \n\t "); err == nil {
		t.Fatalf("whitespace-only content should fail")
	}
	if _, err := NewMessageContent(strings.Repeat("a", 10001)); err == nil {
		t.Fatalf("content over 10000 chars should fail")
	}
	c, err := NewMessageContent(strings.Repeat("a", 10000))
	if err != nil {
		t.Fatalf("content of exactly 10000 chars: %v", err)
	}
	if c.Length() != 10000 {
		t.Fatalf("want length 10000 got %d", c.Length())
	}
}

func TestMessageContentTrimming(t *testing.T) {
	c, err := NewMessageContent("  hello world  ")
	if err != nil {
		t.Fatalf("NewMessageContent: %v", err)
	}
	if c.String() != "hello world" {
		t.Fatalf("want trimmed value, got %q", c.String())
	}
	if c.Length() != 11 {
		t.Fatalf("length over trimmed value: want 11 got %d", c.Length())
	}
	if c.WordCount() != 2 {
		t.Fatalf("want 2 words got %d", c.WordCount())
	}
}

func TestMessageContentEquality(t *testing.T) {
	a, _ := NewMessageContent("Hello")
	b, _ := NewMessageContent("hello")
	c, _ := NewMessageContent(" Hello ")
	if a.Equals(b) {
		t.Fatalf("equality must be case-sensitive")
	}
	if !a.Equals(c) {
		t.Fatalf("trimmed values should compare equal")
	}
}
