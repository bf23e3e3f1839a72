// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

var allIds = []Id{
	SpecNotFoundId,
	SpecParseErrorId,
	SpecInvalidId,
	ProfileNotFoundId,
	ProviderLoadFailedId,
	SecretsCLINotFoundId,
	BuildErrorsId,
	CommandNotFoundId,
	PermissionDeniedId,
	StreamOpenFailedId,
	ConfigLoadFailedId,
}

// stubRender replaces the glamour renderer with the identity function for
// the duration of the test. Tests using it must not run in parallel.
func stubRender(t *testing.T) {
	t.Helper()
	original := render
	t.Cleanup(func() { render = original })
	render = func(in string, _ string) (string, error) {
		return in, nil
	}
}

func TestId_Constants(t *testing.T) {
	t.Parallel()

	seen := make(map[Id]bool)
	for _, id := range allIds {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	if SpecNotFoundId != 1 {
		t.Errorf("SpecNotFoundId = %d, want 1", SpecNotFoundId)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       Id
		contains string
	}{
		{SpecNotFoundId, "Spec file not found"},
		{SpecParseErrorId, "could not be parsed"},
		{SpecInvalidId, "not valid"},
		{ProfileNotFoundId, "Profile not found"},
		{ProviderLoadFailedId, "provider failed to load"},
		{SecretsCLINotFoundId, "CLI not found"},
		{BuildErrorsId, "could not be built"},
		{CommandNotFoundId, "Target command not found"},
		{PermissionDeniedId, "Permission denied"},
		{StreamOpenFailedId, "could not be opened"},
		{ConfigLoadFailedId, "Failed to load the cfgwrap configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			t.Parallel()

			issue := Get(tt.id)
			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", issue.Id(), tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if Get(Id(9999)) != nil {
		t.Error("Get(9999) should return nil")
	}
}

func TestValues(t *testing.T) {
	t.Parallel()

	issues := Values()
	if len(issues) != len(allIds) {
		t.Fatalf("Values() returned %d issues, want %d", len(issues), len(allIds))
	}
	for i, issue := range issues {
		if issue.Id() != allIds[i] {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, issue.Id(), allIds[i])
		}
		if issue.MarkdownMsg() == "" {
			t.Errorf("issue %d has empty MarkdownMsg", issue.Id())
		}
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	t.Parallel()

	issue := Get(SecretsCLINotFoundId)
	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("ExtLinks() returned no links")
	}
	original := links[0]
	links[0] = "modified"
	if issue.ExtLinks()[0] != original {
		t.Error("ExtLinks() should return a clone")
	}
	if issue.DocLinks() != nil {
		t.Errorf("DocLinks() = %v, want nil", issue.DocLinks())
	}
}

func TestIssue_Render(t *testing.T) {
	stubRender(t)

	rendered, err := Get(BuildErrorsId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "cfgwrap run ./cfgwrap.yaml --dry-run") {
		t.Errorf("Render() output missing suggestion:\n%s", rendered)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}
}

func TestIssue_Render_WithLinks(t *testing.T) {
	stubRender(t)

	testIssue := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test Issue\n\nThis is a test.",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	for _, want := range []string{"## See also", "- <https://docs.example.com>", "- <https://external.example.com>"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Render() output missing %q:\n%s", want, rendered)
		}
	}
}

func TestAllIssuesRenderWithGlamour(t *testing.T) {
	t.Parallel()

	for _, issue := range Values() {
		rendered, err := issue.Render("notty")
		if err != nil {
			t.Errorf("issue %d failed to render: %v", issue.Id(), err)
		}
		if strings.TrimSpace(rendered) == "" {
			t.Errorf("issue %d rendered to empty string", issue.Id())
		}
	}
}
