package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robalobadob/colormemory/internal/config"
)

func run(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	cfg = config.FromEnv()
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(in))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMigrateCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.db")
	out, err := run(t, "", "migrate", "--db", path)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("output %q does not name %s", out, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database not created: %v", err)
	}
}

func TestBadLogLevel(t *testing.T) {
	if _, err := run(t, "", "--log-level", "loud", "migrate", "--db", filepath.Join(t.TempDir(), "x.db")); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestPlayMutedQuits(t *testing.T) {
	home := t.TempDir()
	out, err := run(t, "quit\n", "play", "--home", home, "--mute")
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out, "Color Memory") || !strings.Contains(out, "Best: 0") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
