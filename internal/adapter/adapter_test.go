package adapter

import (
	"errors"
	"testing"
)

func TestParseRepoRef(t *testing.T) {
	cases := []struct {
		ref   string
		owner string
		repo  string
	}{
		{"user/campaign", "user", "campaign"},
		{" user/campaign ", "user", "campaign"},
		{"user/campaign/", "user", "campaign"},
	}
	for _, tc := range cases {
		owner, repo, err := ParseRepoRef(tc.ref)
		if err != nil {
			t.Errorf("ParseRepoRef(%q) failed: %v", tc.ref, err)
			continue
		}
		if owner != tc.owner || repo != tc.repo {
			t.Errorf("ParseRepoRef(%q) = %q/%q, want %q/%q", tc.ref, owner, repo, tc.owner, tc.repo)
		}
	}
}

func TestParseRepoRefInvalid(t *testing.T) {
	for _, ref := range []string{"", "noslash", "a/b/c", "/repo", "owner/"} {
		if _, _, err := ParseRepoRef(ref); !errors.Is(err, ErrInvalidRepoRef) {
			t.Errorf("ParseRepoRef(%q) should fail with ErrInvalidRepoRef, got %v", ref, err)
		}
	}
}
