package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

func TestRootRejectsArgs(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"extra"})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestRootHelpDoesNotReportDone(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("help: %v", err)
	}
	if !strings.Contains(out.String(), "courier") {
		t.Errorf("expected usage, got %q", out.String())
	}
	if strings.Contains(out.String(), "Done") {
		t.Errorf("help output reports Done: %q", out.String())
	}
}

func TestRootMissingConfig(t *testing.T) {
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
	t.Setenv("COURIER_ENV", "")
	t.Setenv("COURIER_SERVICE_BASE_URI", "")

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	err = cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "base_uri required") {
		t.Errorf("error = %v, want missing base_uri", err)
	}
	if strings.Contains(out.String(), "Done") {
		t.Errorf("failed run reports Done: %q", out.String())
	}
}
