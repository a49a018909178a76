package main

import (
	"bytes"
	"strings"
	"testing"
)

// runCLI executes the command tree with the given arguments and
// returns captured stdout, stderr, and the command error.
func runCLI(t *testing.T, args []string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
