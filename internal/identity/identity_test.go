package identity

import (
	"strings"
	"testing"
)

func TestIsValidID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"123e4567-e89b-12d3-a456-426614174000", true},
		{"123E4567-E89B-12D3-A456-426614174000", true},
		{"not-a-uuid", false},
		{"", false},
		{"123e4567e89b12d3a456426614174000", false},
		{"{123e4567-e89b-12d3-a456-426614174000}", false},
		{"urn:uuid:123e4567-e89b-12d3-a456-426614174000", false},
		{"123e4567-e89b-12d3-a456-42661417400g", false},
		{"1700000000000", false},
	}

	for _, c := range cases {
		if got := IsValidID(c.in); got != c.want {
			t.Errorf("IsValidID(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestGenerateID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if !IsValidID(id) {
			t.Fatalf("generated id %q is not valid", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestShareLinkRoundTrip(t *testing.T) {
	id := GenerateID()

	link, err := ShareLink("taskmaster.app", id)
	if err != nil {
		t.Fatalf("ShareLink: %v", err)
	}
	if !strings.HasPrefix(link, "https://taskmaster.app/shared/task/") {
		t.Errorf("unexpected link %s", link)
	}

	got, err := ParseShareLink(link)
	if err != nil {
		t.Fatalf("ParseShareLink: %v", err)
	}
	if got != id {
		t.Errorf("expected %s, got %s", id, got)
	}
}

func TestShareLinkRejectsInvalid(t *testing.T) {
	if _, err := ShareLink("taskmaster.app", "1700000000000"); err != ErrInvalidShareLink {
		t.Errorf("expected ErrInvalidShareLink, got %v", err)
	}

	for _, link := range []string{
		"",
		"   ",
		"https://taskmaster.app/shared/task/",
		"https://taskmaster.app/shared/task/abc",
		"https://taskmaster.app/tasks/123e4567-e89b-12d3-a456-426614174000",
	} {
		if _, err := ParseShareLink(link); err != ErrInvalidShareLink {
			t.Errorf("ParseShareLink(%q): expected ErrInvalidShareLink, got %v", link, err)
		}
	}
}
