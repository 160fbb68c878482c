package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/tilewm/internal/command"
	"github.com/mj1618/tilewm/internal/config"
	"github.com/mj1618/tilewm/internal/ipc"
	"github.com/mj1618/tilewm/internal/logging"
	"github.com/mj1618/tilewm/internal/platform"
	"github.com/mj1618/tilewm/internal/platform/memory"
	"github.com/mj1618/tilewm/internal/wm"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the window manager",
	Long: `Start the window manager in the foreground. It manages the windows of
every connected monitor and serves IPC clients until wm-exit runs or it is
interrupted.

Without a native backend for the current OS, use --dry-run to run against an
in-memory desktop:

  tilewm start --dry-run --monitor 0,0,1920,1080 --monitor 1920,0,1280,1024`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
	addStartFlags(startCmd)
}

func addStartFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Path to the config file (default: $XDG_CONFIG_HOME/tilewm/config.yaml)")
	cmd.Flags().BoolP("verbose", "v", false, "Log debug output")
	cmd.Flags().BoolP("quiet", "q", false, "Log nothing")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	cmd.Flags().Bool("dry-run", false, "Run against an in-memory desktop instead of the native one")
	cmd.Flags().StringArray("monitor", nil, "Monitor rect x,y,w,h for --dry-run (repeatable; first is primary)")
}

// startOptions collects the start flags.
type startOptions struct {
	configPath string
	verbosity  logging.Verbosity
	dryRun     bool
	monitors   []platform.MonitorInfo
}

func readStartOptions(cmd *cobra.Command) (startOptions, error) {
	var opts startOptions
	opts.configPath, _ = cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	opts.verbosity = logging.VerbosityFromFlags(verbose, quiet)
	opts.dryRun, _ = cmd.Flags().GetBool("dry-run")

	rects, _ := cmd.Flags().GetStringArray("monitor")
	if len(rects) > 0 && !opts.dryRun {
		return opts, fmt.Errorf("--monitor requires --dry-run")
	}
	if opts.dryRun && len(rects) == 0 {
		rects = []string{"0,0,1920,1080"}
	}
	for i, s := range rects {
		r, err := platform.ParseRect(s)
		if err != nil {
			return opts, fmt.Errorf("--monitor: %w", err)
		}
		if r.Width <= 0 || r.Height <= 0 {
			return opts, fmt.Errorf("--monitor %q: width and height must be positive", s)
		}
		opts.monitors = append(opts.monitors, platform.MonitorInfo{
			DeviceName: fmt.Sprintf("DISPLAY%d", i+1),
			Rect:       r,
			Primary:    i == 0,
		})
	}
	return opts, nil
}

func runStart(cmd *cobra.Command, args []string) error {
	opts, err := readStartOptions(cmd)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, opts.verbosity)

	cfg, path, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	logger.Info("loaded config", "path", path)

	var provider *platform.Provider
	if opts.dryRun {
		provider = memory.New(opts.monitors...).Provider()
	} else if provider, err = platform.NewProvider(); err != nil {
		return err
	}

	hub := ipc.NewHub(logger.WithPrefix("ipc"))
	w, err := wm.New(wm.Options{
		Provider:   provider,
		Config:     cfg,
		ConfigPath: path,
		Logger:     logger,
		Publisher:  hub,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The WM stopping, for any reason, stops everything else.
		defer cancel()
		return w.Run(gctx)
	})
	g.Go(func() error {
		return ipc.NewServer(w, hub, logger.WithPrefix("ipc")).ListenAndServe(gctx, cfg.General.IPCAddress)
	})
	if cfg.General.ConfigReloadOnChange {
		g.Go(func() error {
			return config.Watch(gctx, path, logger.WithPrefix("config"), func() {
				w.Post(gctx, command.WmReloadConfig{})
			})
		})
	}
	return g.Wait()
}
