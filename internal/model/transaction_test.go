package model

import "testing"

func TestAppendIDCopies(t *testing.T) {
	original := []string{"a", "b"}
	out := AppendID(original, "c")

	if len(out) != 3 || out[2] != "c" {
		t.Fatalf("appended = %v", out)
	}
	out[0] = "mutated"
	if original[0] != "a" {
		t.Fatal("append aliased the input slice")
	}
}

func TestReplaceLastID(t *testing.T) {
	original := []string{"a", "b"}
	out := ReplaceLastID(original, "c")

	if len(out) != 2 || out[1] != "c" {
		t.Fatalf("replaced = %v", out)
	}
	if original[1] != "b" {
		t.Fatal("replace mutated the input slice")
	}

	if out := ReplaceLastID(nil, "x"); len(out) != 1 || out[0] != "x" {
		t.Fatalf("replace on empty = %v, want [x]", out)
	}
}

func TestPopLastID(t *testing.T) {
	original := []string{"a", "b"}
	out := PopLastID(original)

	if len(out) != 1 || out[0] != "a" {
		t.Fatalf("popped = %v", out)
	}
	if len(original) != 2 {
		t.Fatal("pop mutated the input slice")
	}

	if out := PopLastID(nil); out != nil {
		t.Fatalf("pop on empty = %v, want nil", out)
	}
}

func TestLastID(t *testing.T) {
	if _, ok := LastID(nil); ok {
		t.Fatal("empty slice should report no last id")
	}
	id, ok := LastID([]string{"a", "b"})
	if !ok || id != "b" {
		t.Fatalf("last id = %q, %v", id, ok)
	}
}
