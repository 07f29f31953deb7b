// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chefkit/chef/internal/issue"
	"github.com/chefkit/chef/internal/testutil"
	"github.com/chefkit/chef/pkg/cooklang"
	"github.com/chefkit/chef/pkg/recipefs"
	"github.com/chefkit/chef/pkg/types"
)

func TestRunCheck_Collection(t *testing.T) {
	t.Parallel()

	root := testutil.NewCollection(t)
	report, err := runCheck(context.Background(), newTestSession(t, root), nil)
	if err != nil {
		t.Fatalf("runCheck() error: %v", err)
	}

	if report.Checked != 3 {
		t.Errorf("Checked = %d, want 3", report.Checked)
	}
	if len(report.Problems) != 1 {
		t.Fatalf("Problems = %v, want exactly one", report.Problems)
	}

	p := report.Problems[0]
	if want := filepath.Join(root, "dinner", "Stew.cook"); p.Path != want {
		t.Errorf("problem path = %q, want %q", p.Path, want)
	}
	var stepErr *recipefs.MissingStepError
	if !errors.As(p.Err, &stepErr) {
		t.Fatalf("problem error = %v, want *MissingStepError", p.Err)
	}
	if stepErr.Section != 0 || stepErr.Step != 4 {
		t.Errorf("missing step = %d.%d, want 0.4", stepErr.Section, stepErr.Step)
	}
}

func TestRunCheck_SingleWorker(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, testutil.NewCollection(t))
	s.cfg.Check.MaxWorkers = 1

	report, err := runCheck(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("runCheck() error: %v", err)
	}
	if report.Checked != 3 || len(report.Problems) != 1 {
		t.Errorf("report = %+v, want 3 checked and 1 problem", report)
	}
}

func TestRunCheck_Names(t *testing.T) {
	t.Parallel()

	root := testutil.NewCollection(t)
	report, err := runCheck(context.Background(), newTestSession(t, root), []string{"Omelette", "Waffles"})
	if err != nil {
		t.Fatalf("runCheck() error: %v", err)
	}

	if report.Checked != 1 {
		t.Errorf("Checked = %d, want 1", report.Checked)
	}
	if len(report.Problems) != 1 || !errors.Is(report.Problems[0].Err, recipefs.ErrNotFound) {
		t.Fatalf("Problems = %v, want one not found error", report.Problems)
	}
	if got := relPath(root, report.Problems[0].Path); got != "Waffles" {
		t.Errorf("problem shown as %q, want Waffles", got)
	}
}

func TestRunCheck_ParseError(t *testing.T) {
	t.Parallel()

	root := testutil.NewCollection(t)
	testutil.MustWriteFile(t, filepath.Join(root, "Bad.cook"), "Mix @flour{200%g and stir.\n")

	report, err := runCheck(context.Background(), newTestSession(t, root), nil)
	if err != nil {
		t.Fatalf("runCheck() error: %v", err)
	}

	if report.Checked != 4 {
		t.Errorf("Checked = %d, want 4", report.Checked)
	}
	var parseErrs int
	for _, p := range report.Problems {
		if errors.Is(p.Err, cooklang.ErrSyntax) {
			parseErrs++
		}
	}
	if parseErrs != 1 {
		t.Errorf("Problems = %v, want one syntax error", report.Problems)
	}
}

func TestRunCheck_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runCheck(ctx, newTestSession(t, testutil.NewCollection(t)), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("runCheck() error = %v, want context.Canceled", err)
	}
}

func TestPrintCheckReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := printCheckReport(&buf, "recipes", checkReport{Checked: 2}); err != nil {
		t.Fatalf("printCheckReport() error: %v", err)
	}
	if !strings.Contains(buf.String(), "2 recipes OK") {
		t.Errorf("output = %q, want a success line", buf.String())
	}

	buf.Reset()
	report := checkReport{
		Checked: 2,
		Problems: []recipeProblem{
			{Path: filepath.Join("recipes", "Soup.cook"), Err: &recipefs.MissingSectionError{Image: "Soup.3.0.png", Section: 3}},
			{Err: &recipefs.WalkError{Path: "recipes/locked", Err: errors.New("permission denied")}},
		},
	}
	err := printCheckReport(&buf, "recipes", report)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitCheckFailed {
		t.Fatalf("printCheckReport() error = %v, want ExitError with ExitCheckFailed", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Issue != issue.ImageReferenceId {
		t.Errorf("error %v does not carry the image reference guide", err)
	}
	if !strings.Contains(err.Error(), "2 problems in 2 recipes") {
		t.Errorf("error = %q, want the problem count", err.Error())
	}

	out := buf.String()
	for _, want := range []string{"Soup.cook: image Soup.3.0.png: recipe has no section 3", "read recipes/locked: permission denied"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}
