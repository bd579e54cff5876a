package sample

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestInput(t *testing.T) {
	t.Setenv(ResourceDirEnv, "")
	if got, want := Input("sample.pdf"), filepath.Join("../../Resources", "Sample_Input", "sample.pdf"); got != want {
		t.Errorf("Input() = %q, want %q", got, want)
	}

	t.Setenv(ResourceDirEnv, "/data/res")
	if got, want := Input("ducky.pdf"), "/data/res/Sample_Input/ducky.pdf"; got != want {
		t.Errorf("Input() = %q, want %q", got, want)
	}
}

func TestArgs(t *testing.T) {
	tests := []struct {
		argv    []string
		first   string
		second  string
		verbose bool
	}{
		{nil, "in.pdf", "out.pdf", false},
		{[]string{"a.pdf"}, "a.pdf", "out.pdf", false},
		{[]string{"-v", "a.pdf", "b.pdf"}, "a.pdf", "b.pdf", true},
		{[]string{"", "b.pdf"}, "in.pdf", "b.pdf", false},
	}

	for _, tt := range tests {
		args, err := parseArgs("test", tt.argv, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("parseArgs(%q) failed: %v", tt.argv, err)
		}
		if got := args.Get(0, "in.pdf"); got != tt.first {
			t.Errorf("%q: Get(0) = %q, want %q", tt.argv, got, tt.first)
		}
		if got := args.Get(1, "out.pdf"); got != tt.second {
			t.Errorf("%q: Get(1) = %q, want %q", tt.argv, got, tt.second)
		}
		if args.Verbose() != tt.verbose {
			t.Errorf("%q: Verbose() = %v, want %v", tt.argv, args.Verbose(), tt.verbose)
		}
	}
}

func TestRun(t *testing.T) {
	var stdout, stderr bytes.Buffer
	failure := errors.New("boom")

	err := run("Demo", []string{"-v", "x"}, &stdout, &stderr, func(a *Args) error {
		a.Logf("working on %s", a.Get(0, ""))
		return failure
	})
	if !errors.Is(err, failure) {
		t.Errorf("Expected the body's error, got %v", err)
	}
	if stdout.String() != "Demo sample:\n" {
		t.Errorf("Unexpected banner %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "working on x") {
		t.Errorf("Expected verbose log output, got %q", stderr.String())
	}

	stderr.Reset()
	if err := run("Demo", []string{"-unknown"}, &stdout, &stderr, func(*Args) error { return nil }); err == nil {
		t.Error("Expected an error for an unknown flag")
	}
}
