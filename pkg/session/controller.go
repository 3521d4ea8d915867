// Package session orchestrates the lifecycle of one edited hosts file:
// load at startup, dirty tracking while the list is edited, apply with a
// privileged fallback, and revert to the last applied state.
package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/lhm-tools/lhm/pkg/atomicfile"
	"github.com/lhm-tools/lhm/pkg/hosts"
	"github.com/lhm-tools/lhm/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Controller owns the live entry list and the persistence pipeline for one
// target hosts file. It is a per-process singleton driven from a single
// goroutine; no two applies run concurrently.
type Controller struct {
	file   *hosts.File
	list   *model.List
	writer *atomicfile.Writer
	priv   atomicfile.PrivilegedWriter
	logger *zap.Logger

	snapshot hosts.Snapshot
	baseline []hosts.Entry
	dirty    bool

	onDirty func(bool)
	errCh   chan error
}

// NewController loads the target file and returns a Clean controller whose
// revert baseline is the managed block as parsed from disk.
func NewController(fsys afero.Fs, path string, priv atomicfile.PrivilegedWriter, logger *zap.Logger) (*Controller, error) {
	c := &Controller{
		file:   hosts.NewFile(fsys, path),
		writer: atomicfile.NewWriter(fsys, logger.Named("writer")),
		priv:   priv,
		logger: logger,
		errCh:  make(chan error, 1),
	}

	entries, snap, err := c.file.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	c.snapshot = snap
	c.list = model.NewList(entries)
	c.baseline = c.list.Export()
	c.list.OnChanged(func() {
		c.setDirty(true)
	})

	logger.Info("loaded hosts file",
		zap.String("path", path),
		zap.Int("entries", len(c.baseline)),
	)
	return c, nil
}

// List exposes the editable entry list for a presentation layer to bind to.
func (c *Controller) List() *model.List {
	return c.list
}

// Path returns the managed file's path.
func (c *Controller) Path() string {
	return c.file.Path()
}

// Dirty reports whether the live list differs from the last applied state.
func (c *Controller) Dirty() bool {
	return c.dirty
}

// OnDirtyChanged registers an observer for dirty transitions.
func (c *Controller) OnDirtyChanged(fn func(bool)) {
	c.onDirty = fn
}

// Errors returns the channel apply-time failures are reported on. Sends are
// non-blocking: an error is dropped if the previous one was not consumed.
func (c *Controller) Errors() <-chan error {
	return c.errCh
}

// Apply renders the managed block into the surrounding snapshot and installs
// it atomically. A permission denial on the direct write falls back to the
// privileged writer. On success the current export becomes the new revert
// baseline and the session is Clean again; on any failure the session stays
// Dirty and nothing is considered applied.
func (c *Controller) Apply(ctx context.Context) error {
	content := []byte(hosts.Render(c.snapshot, c.list.Export()))

	if err := c.writer.Write(c.file.Path(), content); err != nil {
		if !errors.Is(err, fs.ErrPermission) {
			c.reportError(err)
			return err
		}

		c.logger.Info("direct write denied, escalating",
			zap.String("path", c.file.Path()),
		)
		if privErr := c.priv.Write(ctx, c.file.Path(), content); privErr != nil {
			c.reportError(privErr)
			return privErr
		}
	}

	c.baseline = c.list.Export()
	c.setDirty(false)
	c.logger.Info("applied hosts file",
		zap.String("path", c.file.Path()),
		zap.Int("entries", len(c.baseline)),
	)
	return nil
}

// Revert discards edits by reseeding the list from the last applied state.
// The bulk replace raises the list's own change notification, so Clean is
// forced afterwards rather than suppressing the notification.
func (c *Controller) Revert() {
	c.list.Replace(c.baseline)
	c.setDirty(false)
	c.logger.Info("reverted to last applied state",
		zap.Int("entries", len(c.baseline)),
	)
}

func (c *Controller) setDirty(v bool) {
	if c.dirty == v {
		return
	}
	c.dirty = v
	if c.onDirty != nil {
		c.onDirty(v)
	}
}

func (c *Controller) reportError(err error) {
	select {
	case c.errCh <- err:
	default:
	}
}
