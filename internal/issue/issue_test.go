// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	t.Parallel()

	if RecipeNotFoundId != 1 {
		t.Errorf("RecipeNotFoundId = %d, want 1", RecipeNotFoundId)
	}

	seen := make(map[Id]bool)
	for _, i := range Values() {
		if seen[i.Id()] {
			t.Errorf("duplicate ID: %d", i.Id())
		}
		seen[i.Id()] = true
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       Id
		contains string
	}{
		{RecipeNotFoundId, "Recipe not found"},
		{CollectionNotFoundId, "collection not found"},
		{RecipeParseErrorId, "Failed to parse recipe"},
		{ConfigLoadFailedId, "max_workers"},
		{UnitFileInvalidId, "[[units]]"},
		{InvalidServingsId, "--scale"},
		{ImageReferenceId, "missing step"},
		{PermissionDeniedId, "Permission denied"},
	}

	for _, tt := range tests {
		issue := Get(tt.id)
		if issue == nil {
			t.Errorf("Get(%d) returned nil", tt.id)
			continue
		}
		if issue.Id() != tt.id {
			t.Errorf("Get(%d).Id() = %d", tt.id, issue.Id())
		}
		if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
			t.Errorf("issue %d should contain %q", tt.id, tt.contains)
		}
	}

	if Get(0) != nil {
		t.Error("Get(0) should return nil")
	}
	if len(Values()) != len(tests) {
		t.Errorf("Values() has %d issues, want %d", len(Values()), len(tests))
	}
}

func TestValues_Ordered(t *testing.T) {
	t.Parallel()

	values := Values()
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Fatalf("Values() not ordered at %d: %d >= %d", i, values[i-1].Id(), values[i].Id())
		}
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	t.Parallel()

	issue := Get(RecipeNotFoundId)
	links := issue.DocLinks()
	if len(links) == 0 {
		t.Fatal("DocLinks() is empty")
	}
	links[0] = "changed"
	if issue.DocLinks()[0] == "changed" {
		t.Error("DocLinks() should return a copy")
	}
	if len(Get(ConfigLoadFailedId).ExtLinks()) != 1 {
		t.Error("config issue should have one external link")
	}
}

// Tests below replace the package renderer and cannot run in parallel.

func TestIssue_Render_WithLinks(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	rendered, err := Get(RecipeNotFoundId).Render("dark")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q, want dark", gotStyle)
	}
	if !strings.Contains(rendered, "## See also") || !strings.Contains(rendered, "cooklang.org") {
		t.Errorf("Render() should list links, got %q", rendered)
	}
}

func TestIssue_Render_NoLinks(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in, _ string) (string, error) { return in, nil }

	rendered, err := Get(PermissionDeniedId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("issue without links should not have a See also section")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	for _, issue := range Values() {
		rendered, err := issue.Render("notty")
		if err != nil {
			t.Errorf("Issue %d failed to render: %v", issue.Id(), err)
		}
		if strings.TrimSpace(rendered) == "" {
			t.Errorf("Issue %d rendered to empty string", issue.Id())
		}
	}
}
