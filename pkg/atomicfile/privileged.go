package atomicfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrHelperUnavailable indicates the privilege-escalation helper binary
// could not be located.
var ErrHelperUnavailable = errors.New("privilege escalation helper not found")

// HelperError indicates the helper ran but exited nonzero. Stderr carries
// any diagnostic text the helper produced.
type HelperError struct {
	Err    error
	Stderr string
}

// Error returns a user-facing description including captured diagnostics.
func (e *HelperError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("privileged write failed: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("privileged write failed: %v", e.Err)
}

// Unwrap exposes the underlying exec error.
func (e *HelperError) Unwrap() error {
	return e.Err
}

// PrivilegedWriter installs file content with elevated privileges. It is an
// interface so tests can swap the real pkexec pipeline for a fake without
// spawning subprocesses.
type PrivilegedWriter interface {
	Write(ctx context.Context, path string, content []byte) error
}

// PkexecWriter escalates through pkexec, running a shell pipeline that reads
// the new content from stdin into a temp file next to the target, fixes
// ownership and mode, and moves it into place.
type PkexecWriter struct {
	helper string
	logger *zap.Logger
}

// NewPkexecWriter creates a PkexecWriter using the given pkexec binary path.
func NewPkexecWriter(helper string, logger *zap.Logger) *PkexecWriter {
	return &PkexecWriter{helper: helper, logger: logger}
}

// Write streams content into a root-owned replacement of path.
// Returns ErrHelperUnavailable when the helper binary is missing and
// *HelperError when the helper exits nonzero.
func (w *PkexecWriter) Write(ctx context.Context, path string, content []byte) error {
	if _, err := exec.LookPath(w.helper); err != nil {
		return fmt.Errorf("%w: %s", ErrHelperUnavailable, w.helper)
	}

	script := fmt.Sprintf(
		`tmp="$(mktemp %s/.%s_XXXXXX)" && cat > "$tmp" && chown root:root "$tmp" && chmod 0644 "$tmp" && mv -f "$tmp" %s`,
		filepath.Dir(path), filepath.Base(path), path,
	)

	cmd := exec.CommandContext(ctx, w.helper, "/bin/sh", "-c", script)
	cmd.Stdin = bytes.NewReader(content)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	w.logger.Info("escalating write through helper",
		zap.String("helper", w.helper),
		zap.String("path", path),
	)

	if err := cmd.Run(); err != nil {
		return &HelperError{Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}
	return nil
}
