package logfields

import (
	"errors"
	"testing"
)

func TestHelpersProduceCanonicalKeys(t *testing.T) {
	cases := []struct {
		name string
		key  string
		got  string
	}{
		{"Entity", KeyEntity, Entity("My Post").Key},
		{"Slug", KeySlug, Slug("my-post").Key},
		{"Feed", KeyFeed, Feed("articles").Key},
		{"Page", KeyPage, Page(2).Key},
		{"Path", KeyPath, Path("/tmp/out").Key},
	}
	for _, tc := range cases {
		if tc.got != tc.key {
			t.Errorf("%s: expected key %q, got %q", tc.name, tc.key, tc.got)
		}
	}
}

func TestErrorNilSafe(t *testing.T) {
	if attr := Error(nil); attr.Value.String() != "" {
		t.Errorf("Error(nil) should produce empty value, got %q", attr.Value.String())
	}
	if attr := Error(errors.New("boom")); attr.Value.String() != "boom" {
		t.Errorf("Error should carry message, got %q", attr.Value.String())
	}
}
