package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lhm-tools/lhm/pkg/atomicfile"
	"github.com/lhm-tools/lhm/pkg/session"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// seedHostsFile writes a hosts file into dir and returns its path.
func seedHostsFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "hosts")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to seed hosts file: %v", err)
	}
	return path
}

// readFile returns the file's content as a string.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// newSession creates a Controller over the real filesystem for path. The
// pkexec fallback is wired but never reached: temp dirs are writable.
func newSession(t *testing.T, path string) *session.Controller {
	t.Helper()
	priv := atomicfile.NewPkexecWriter("/usr/bin/pkexec", zap.NewNop())
	ctrl, err := session.NewController(afero.NewOsFs(), path, priv, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return ctrl
}
