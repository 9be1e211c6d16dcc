package cmd

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/menulister/internal/platform"
	"github.com/mj1618/menulister/internal/platform/platformtest"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func useFake(t *testing.T, ax *platformtest.Accessibility) {
	t.Helper()
	orig := platform.NewProviderFunc
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{Accessibility: ax}, nil
	}
	t.Cleanup(func() { platform.NewProviderFunc = orig })
}

// execute runs the root command with flags reset to their defaults.
func execute(ctx context.Context, out *syncBuffer, args ...string) error {
	defaults := []string{"--format=text", "--flat=false", "--max-depth=64", "--no-prompt=false", "--log-level=warn"}
	rootCmd.SilenceUsage = false
	rootCmd.SetOut(out)
	rootCmd.SetErr(&syncBuffer{})
	rootCmd.SetArgs(append(defaults, args...))
	return rootCmd.ExecuteContext(ctx)
}

func editorApp() *platformtest.Node {
	return &platformtest.Node{
		MenuBar: &platformtest.Node{NoTitle: true, Children: []*platformtest.Node{
			{Title: "File", Children: []*platformtest.Node{{Title: "New"}, {Title: "Close"}}},
			{Title: "Edit", Children: []*platformtest.Node{{Title: "Copy"}}},
			{Title: "Window"},
		}},
	}
}

func TestRootCommand_Flags(t *testing.T) {
	flags := rootCmd.Flags()

	tests := []struct {
		name     string
		flagType string
	}{
		{"format", "string"},
		{"flat", "bool"},
		{"max-depth", "int"},
		{"no-prompt", "bool"},
		{"log-level", "string"},
	}

	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		if f == nil {
			t.Errorf("expected flag %q not found", tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("flag %q: expected type %q, got %q", tt.name, tt.flagType, f.Value.Type())
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestRootCommand_InvalidArgs(t *testing.T) {
	tests := [][]string{
		{"abc"},
		{"0"},
		{"12x"},
		{"--", "-5"},
		{"1", "2"},
	}
	for _, args := range tests {
		ax := platformtest.New()
		useFake(t, ax)
		var out syncBuffer

		if err := execute(context.Background(), &out, args...); err == nil {
			t.Errorf("args %q: expected error", args)
		}
		if ax.Calls() != 0 {
			t.Errorf("args %q: made %d accessibility calls, want 0", args, ax.Calls())
		}
		if !strings.Contains(out.String(), "Usage:") {
			t.Errorf("args %q: expected usage message, got:\n%s", args, out.String())
		}
	}
}

func TestRootCommand_ListPID(t *testing.T) {
	ax := platformtest.New()
	ax.Apps[501] = editorApp()
	useFake(t, ax)
	var out syncBuffer

	if err := execute(context.Background(), &out, "501"); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	want := "\n=======================================\n" +
		" Menus for process 501\n" +
		"=======================================\n" +
		"- (no title)\n" +
		"  - File\n" +
		"    - New\n" +
		"    - Close\n" +
		"  - Edit\n" +
		"    - Copy\n" +
		"  - Window\n"
	if got != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
	if !ax.Prompted() {
		t.Error("permission check should prompt by default")
	}
	if ax.Outstanding() != 0 {
		t.Errorf("%d references left unreleased", ax.Outstanding())
	}
}

func TestRootCommand_ListPIDFailureStillSucceeds(t *testing.T) {
	ax := platformtest.New()
	useFake(t, ax)
	var out syncBuffer

	if err := execute(context.Background(), &out, "4040"); err != nil {
		t.Fatalf("an attempted listing should exit 0, got %v", err)
	}
	if !strings.Contains(out.String(), "[!] Could not get menu bar.") {
		t.Errorf("expected menu bar failure line, got:\n%s", out.String())
	}
}

func TestRootCommand_PermissionDenied(t *testing.T) {
	ax := platformtest.New()
	ax.Trusted = false
	ax.Apps[501] = editorApp()
	useFake(t, ax)
	var out syncBuffer

	err := execute(context.Background(), &out, "--no-prompt", "501")
	if err != errNotTrusted {
		t.Fatalf("expected errNotTrusted, got %v", err)
	}
	if ax.Prompted() {
		t.Error("--no-prompt should suppress the permission prompt")
	}
	if !strings.Contains(out.String(), "System Settings > Privacy & Security > Accessibility") {
		t.Errorf("expected guidance, got:\n%s", out.String())
	}
	if ax.Calls() != 1 {
		t.Errorf("only the trust query should run, got %d calls", ax.Calls())
	}
}

func TestRootCommand_YAMLFormat(t *testing.T) {
	ax := platformtest.New()
	ax.Apps[501] = editorApp()
	useFake(t, ax)
	var out syncBuffer

	if err := execute(context.Background(), &out, "--format", "yaml", "501"); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "pid: 501") || !strings.Contains(got, "title: File") {
		t.Errorf("unexpected YAML output:\n%s", got)
	}
}

func TestRootCommand_FlatRequiresStructuredFormat(t *testing.T) {
	ax := platformtest.New()
	useFake(t, ax)
	var out syncBuffer

	if err := execute(context.Background(), &out, "--flat", "501"); err == nil {
		t.Fatal("--flat with text format should fail")
	}
	if ax.Calls() != 0 {
		t.Errorf("made %d accessibility calls, want 0", ax.Calls())
	}
}

func TestRootCommand_Unsupported(t *testing.T) {
	orig := platform.NewProviderFunc
	platform.NewProviderFunc = nil
	defer func() { platform.NewProviderFunc = orig }()
	var out syncBuffer

	if err := execute(context.Background(), &out, "501"); err != platform.ErrUnsupported {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRootCommand_Watch(t *testing.T) {
	ax := platformtest.New()
	ax.Apps[300] = editorApp()
	ax.Frontmost = 300
	obs := platformtest.NewObserver()
	ax.Observer = obs
	useFake(t, ax)
	var out syncBuffer

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- execute(ctx, &out) }()

	waitFor(t, "monitoring banner", func() bool {
		return strings.Contains(out.String(), "Monitoring focus changes.")
	})
	if !obs.Fire(platform.NotifyFocusedWindowChanged) {
		t.Fatal("notification not delivered")
	}
	waitFor(t, "second listing", func() bool {
		return strings.Count(out.String(), " Menus for frontmost application") == 2
	})

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch should exit cleanly, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}

	got := out.String()
	for _, line := range []string{
		"Checking accessibility permissions...",
		"Creating accessibility objects...",
		"Initializing menu listing...",
		"Focus change detected: AXFocusedWindowChanged",
		"Shutdown complete.",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("missing %q in output:\n%s", line, got)
		}
	}
	if len(obs.Unsubscribed()) != 2 || !obs.Released() {
		t.Error("watch should unsubscribe and release the observer")
	}
	if ax.Outstanding() != 0 {
		t.Errorf("%d references left unreleased", ax.Outstanding())
	}
}

func TestRootCommand_WatchSetupFailure(t *testing.T) {
	ax := platformtest.New()
	ax.ObserverErr = platform.AXErrorFailure
	useFake(t, ax)
	var out syncBuffer

	if err := execute(context.Background(), &out); err == nil {
		t.Fatal("observer failure should fail the command")
	}
	if !strings.Contains(out.String(), "[!] Unable to create AXObserver. Error code: -25200\n") {
		t.Errorf("expected setup failure line, got:\n%s", out.String())
	}
}
