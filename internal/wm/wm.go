// Package wm is the window manager core: it owns the container tree, turns
// native events and invoke commands into tree mutations, and flushes the
// resulting effects to the platform once per processing cycle.
//
// A WM is not safe for concurrent use. Run serializes every event, command
// and query onto one goroutine; the exported handler methods exist for that
// goroutine and for tests.
package wm

import (
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mj1618/tilewm/internal/config"
	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/layout"
	"github.com/mj1618/tilewm/internal/logging"
	"github.com/mj1618/tilewm/internal/pendingsync"
	"github.com/mj1618/tilewm/internal/platform"
)

var (
	// ErrUnknownEvent is returned for an event kind no handler exists for.
	// It is fatal to the processing loop.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrExit is returned by wm-exit to stop the processing loop.
	ErrExit = errors.New("window manager exiting")

	// ErrUnknownBindingMode is returned when enabling a mode missing from
	// the config.
	ErrUnknownBindingMode = errors.New("unknown binding mode")
)

// focusOverrideWindow is how long after an unmanage or minimize a foreign
// focus event is overridden with the WM's own focus target.
const focusOverrideWindow = 100 * time.Millisecond

// Options configures a WM.
type Options struct {
	Provider   *platform.Provider
	Config     *config.Config
	ConfigPath string
	Logger     *log.Logger
	// Publisher receives events at the end of every flush. May be nil.
	Publisher Publisher
	// Now defaults to time.Now.
	Now func() time.Time
	// Exec starts a shell-exec program without waiting for it.
	Exec func(args []string, hideWindow bool) error
}

// WM holds the process-wide window manager state.
type WM struct {
	tree       *container.Tree
	cfg        *config.Config
	configPath string
	gaps       layout.Gaps

	reader platform.WindowReader
	native platform.WindowManager
	source platform.EventSource

	pending pendingsync.PendingSync
	paused  bool
	// bindingModes holds the active binding modes, most recent first.
	bindingModes []config.BindingModeConfig

	recentWorkspace        string
	unmanagedOrMinimizedAt time.Time
	ignored                map[platform.Handle]bool
	// nativeState is the last show state applied to each window.
	nativeState map[platform.Handle]platform.WindowState

	lastFocused     container.ID
	lastFocusedMon  container.ID
	effectWindow    container.ID
	lastLayout      layout.Layout
	outbox          []Event
	shutdownStarted bool

	queue     chan item
	logger    *log.Logger
	publisher Publisher
	now       func() time.Time
	exec      func(args []string, hideWindow bool) error
}

// New creates a WM. Start must be called before events are handled.
func New(opts Options) (*WM, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("no platform provider")
	}
	if err := opts.Provider.Validate(); err != nil {
		return nil, err
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Exec == nil {
		opts.Exec = startProcess
	}
	if opts.Publisher == nil {
		opts.Publisher = discardPublisher{}
	}

	w := &WM{
		tree:        container.NewTree(),
		configPath:  opts.ConfigPath,
		reader:      opts.Provider.Reader,
		native:      opts.Provider.WindowManager,
		source:      opts.Provider.Events,
		ignored:     make(map[platform.Handle]bool),
		nativeState: make(map[platform.Handle]platform.WindowState),
		queue:       make(chan item, 64),
		logger:      opts.Logger.WithPrefix("wm"),
		publisher:   opts.Publisher,
		now:         opts.Now,
		exec:        opts.Exec,
	}
	w.setConfig(opts.Config)
	return w, nil
}

func (w *WM) setConfig(cfg *config.Config) {
	w.cfg = cfg
	w.gaps = layout.Gaps{Inner: cfg.Gaps.InnerGap, Outer: cfg.Gaps.OuterGap}
}

// Tree exposes the container tree. Callers must be on the processing
// goroutine.
func (w *WM) Tree() *container.Tree { return w.tree }

// Config returns the active config.
func (w *WM) Config() *config.Config { return w.cfg }

// Paused reports whether the WM ignores events and commands.
func (w *WM) Paused() bool { return w.paused }

// Pending exposes the queued effects of the current cycle.
func (w *WM) Pending() *pendingsync.PendingSync { return &w.pending }

// Start builds the initial tree from the connected monitors and existing
// windows, runs the startup commands and flushes.
func (w *WM) Start() error {
	monitors, err := w.reader.Monitors()
	if err != nil {
		return platform.NativeError("monitors", 0, err)
	}
	if len(monitors) == 0 {
		return fmt.Errorf("no monitors detected")
	}
	for _, m := range monitors {
		w.addMonitor(m)
	}
	// The primary monitor starts focused.
	for _, mon := range w.tree.Monitors() {
		if mon.Monitor.Primary {
			if err := w.tree.SetFocusedDescendant(w.tree.FocusedDescendant(mon)); err != nil {
				return err
			}
			break
		}
	}

	windows, err := w.reader.ListWindows()
	if err != nil {
		return platform.NativeError("list windows", 0, err)
	}
	for _, info := range windows {
		if _, err := w.manageWindow(info, true); err != nil {
			w.logger.Warn("failed to manage window", "window", info.Handle, "err", err)
		}
	}
	if fg, err := w.reader.ForegroundWindow(); err == nil {
		if win := w.tree.WindowByHandle(fg); win != nil {
			_ = w.tree.SetFocusedDescendant(win)
		}
	}

	w.pending.QueueFullRedraw()
	w.pending.QueueFocusChange()
	w.pending.QueueAllEffectsUpdate()

	if err := w.runCommandStrings(w.cfg.General.StartupCommands, nil); err != nil {
		w.logger.Warn("startup command failed", "err", err)
	}
	w.logger.Info("started", "monitors", len(monitors), "windows", len(w.tree.Windows()))
	w.Flush()
	return nil
}

// Shutdown runs the shutdown commands, restores every window and announces
// the exit to subscribers. It is idempotent.
func (w *WM) Shutdown() {
	if w.shutdownStarted {
		return
	}
	w.shutdownStarted = true

	if err := w.runCommandStrings(w.cfg.General.ShutdownCommands, nil); err != nil {
		w.logger.Warn("shutdown command failed", "err", err)
	}
	for _, win := range w.tree.Windows() {
		h := win.Window.Handle
		w.nativeCall("show", h, w.native.SetWindowState(h, platform.StateShow))
		w.nativeCall("focus effect", h, w.native.SetFocusEffect(h, platform.FocusEffect{}))
		if win.Window.Opacity != 1 {
			w.nativeCall("opacity", h, w.native.SetOpacity(h, 1))
		}
	}
	w.emit(Event{Type: EventApplicationExiting})
	w.publishOutbox()
	w.logger.Info("shut down")
}

// nativeCall logs a failed platform call. The failure only affects the one
// container; processing continues.
func (w *WM) nativeCall(op string, h platform.Handle, err error) bool {
	if err == nil {
		return true
	}
	w.logger.Warn("native call failed", "op", op, "window", h, "err", platform.NativeError(op, h, err))
	return false
}

func startProcess(args []string, _ bool) error {
	if len(args) == 0 {
		return fmt.Errorf("no program given")
	}
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
