// SPDX-License-Identifier: MPL-2.0

package cmd

import "testing"

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestRootCommand_Tree(t *testing.T) {
	t.Parallel()

	root := newRootCommand(NewApp(Dependencies{}), &rootFlagValues{})

	for _, name := range []string{"recipe", "list", "shopping-list", "check", "watch", "config"} {
		sub, _, err := root.Find([]string{name})
		if err != nil || sub == root {
			t.Errorf("command %q is not registered", name)
		}
	}
	for _, flag := range []string{"config", "verbose", "collection"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s is missing", flag)
		}
	}
	if sub, _, err := root.Find([]string{"sl"}); err != nil || sub.Name() != "shopping-list" {
		t.Errorf("alias sl does not resolve to shopping-list")
	}
}
