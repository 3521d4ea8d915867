package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/lhm-tools/lhm/pkg/atomicfile"
	"github.com/lhm-tools/lhm/pkg/config"
	"github.com/lhm-tools/lhm/pkg/session"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// setup loads configuration and builds the final logger at the configured level.
func setup() (*zap.Logger, *config.Config, error) {
	bootstrap := newLogger(zapcore.InfoLevel)
	defer bootstrap.Sync()

	configMgr, err := config.NewManager(configPath, bootstrap.Named("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config manager: %w", err)
	}
	cfg := configMgr.GetConfig()

	return newLogger(parseLevel(cfg.Global.LogLevel)), cfg, nil
}

// newSession creates a Controller over the real filesystem with the pkexec
// fallback wired in.
func newSession(cfg *config.Config, logger *zap.Logger) (*session.Controller, error) {
	priv := atomicfile.NewPkexecWriter(cfg.PkexecPath, logger.Named("pkexec"))
	return session.NewController(afero.NewOsFs(), cfg.HostsPath, priv, logger.Named("session"))
}

// applyChanges persists the session's live state, surfacing apply failures.
func applyChanges(ctrl *session.Controller, logger *zap.Logger) error {
	if !ctrl.Dirty() {
		logger.Info("no changes to apply")
		return nil
	}
	if err := ctrl.Apply(context.Background()); err != nil {
		return fmt.Errorf("failed to apply changes: %w", err)
	}
	return nil
}

// parseRow converts a 1-based row argument into a list index.
func parseRow(arg string, rows int) (int, error) {
	row, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid row %q: %w", arg, err)
	}
	if row < 1 || row > rows {
		return 0, fmt.Errorf("row %d out of range (1-%d)", row, rows)
	}
	return row - 1, nil
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the managed entries",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	logger, cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctrl, err := newSession(cfg, logger)
	if err != nil {
		return err
	}

	entries := ctrl.List().Export()
	for i, e := range entries {
		state := "x"
		if !e.Enabled {
			state = " "
		}
		fmt.Printf("%3d [%s] %-40s %s\n", i+1, state, e.IP, e.Hosts)
	}
	if len(entries) == 0 {
		fmt.Println("no managed entries")
	}
	return nil
}

func newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add IP HOSTNAME...",
		Short: "Add a managed entry and apply",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runAdd,
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	logger, cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctrl, err := newSession(cfg, logger)
	if err != nil {
		return err
	}

	// The trailing blank row accepts new input.
	list := ctrl.List()
	row := list.Len() - 1
	list.SetIP(row, args[0])
	list.SetHosts(row, strings.Join(args[1:], " "))

	return applyChanges(ctrl, logger)
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set ROW IP HOSTNAME...",
		Short: "Rewrite the entry at ROW and apply",
		Args:  cobra.MinimumNArgs(3),
		RunE:  runSet,
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	logger, cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctrl, err := newSession(cfg, logger)
	if err != nil {
		return err
	}

	list := ctrl.List()
	row, err := parseRow(args[0], len(list.Export()))
	if err != nil {
		return err
	}
	list.SetIP(row, args[1])
	list.SetHosts(row, strings.Join(args[2:], " "))

	return applyChanges(ctrl, logger)
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ROW",
		Short: "Remove the entry at ROW and apply",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	logger, cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctrl, err := newSession(cfg, logger)
	if err != nil {
		return err
	}

	list := ctrl.List()
	row, err := parseRow(args[0], len(list.Export()))
	if err != nil {
		return err
	}

	// Blanking both fields makes the row eligible for pruning.
	list.SetIP(row, "")
	list.SetHosts(row, "")

	return applyChanges(ctrl, logger)
}

func newEnableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "enable ROW",
		Short: "Enable the entry at ROW and apply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetEnabled(args[0], true)
		},
	}
}

func newDisableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disable ROW",
		Short: "Disable the entry at ROW and apply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetEnabled(args[0], false)
		},
	}
}

func runSetEnabled(rowArg string, enabled bool) error {
	logger, cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctrl, err := newSession(cfg, logger)
	if err != nil {
		return err
	}

	list := ctrl.List()
	row, err := parseRow(rowArg, len(list.Export()))
	if err != nil {
		return err
	}
	list.SetEnabled(row, enabled)

	return applyChanges(ctrl, logger)
}

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the hosts file and report external changes",
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting watch",
		zap.String("version", version),
		zap.String("path", cfg.HostsPath),
	)

	watcher, err := session.NewWatcher(cfg.HostsPath, logger.Named("watcher"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle OS signals for graceful shutdown
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-signalChan
		logger.Info("received signal", zap.String("signal", sig.String()))
		cancel()
	}()

	go watcher.Run(ctx)

	fsys := afero.NewOsFs()
	for {
		select {
		case <-watcher.Changes():
			ctrl, err := session.NewController(fsys,
				cfg.HostsPath,
				atomicfile.NewPkexecWriter(cfg.PkexecPath, logger.Named("pkexec")),
				logger.Named("session"),
			)
			if err != nil {
				logger.Error("failed to reload hosts file", zap.Error(err))
				continue
			}
			logger.Info("reloaded after external change",
				zap.Int("entries", len(ctrl.List().Export())),
			)

		case <-ctx.Done():
			logger.Info("shutdown signal received, stopping watch")
			return nil
		}
	}
}
