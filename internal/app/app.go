// Package app wires the editor together: configuration, logging, the
// session, the renderer, the key map, the file watcher and the script
// host. It owns the event loop.
package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/exedit/internal/config"
	"github.com/dshills/exedit/internal/input"
	"github.com/dshills/exedit/internal/plugin/lua"
	"github.com/dshills/exedit/internal/renderer"
	"github.com/dshills/exedit/internal/renderer/backend"
	"github.com/dshills/exedit/internal/session"
	"github.com/dshills/exedit/internal/vfs"
	"github.com/dshills/exedit/internal/watcher"
)

// Application is the central coordinator for one editing session.
type Application struct {
	mu sync.Mutex

	opts Options

	fs        vfs.VFS
	config    *config.Config
	logger    *Logger
	logCloser io.Closer

	backend  backend.Backend
	renderer *renderer.Renderer
	keymap   *input.Keymap
	session  *session.Session
	plugins  *lua.Host
	watcher  watcher.Watcher
	metrics  *Metrics

	absPath string

	// diskContent is the file content last read or written by the editor.
	diskContent string

	running atomic.Bool
	cancel  context.CancelFunc
}

// Options configures the application. Flag values override config.
type Options struct {
	// Path is the file to edit.
	Path string

	// ConfigPath is an explicit configuration file.
	ConfigPath string

	// Debug enables strict cursor contracts and debug logging.
	Debug bool

	// LogFile overrides logging.file.
	LogFile string

	// LogLevel overrides logging.level.
	LogLevel string
}

// Option customizes construction, mostly for tests.
type Option func(*Application)

// WithFileSystem sets the file system the edited file lives on.
func WithFileSystem(fsys vfs.VFS) Option {
	return func(a *Application) { a.fs = fsys }
}

// WithBackend sets the terminal backend.
func WithBackend(b backend.Backend) Option {
	return func(a *Application) { a.backend = b }
}

// WithConfig uses a loaded configuration instead of reading one.
func WithConfig(cfg *config.Config) Option {
	return func(a *Application) { a.config = cfg }
}

// WithLogger sets the logger instead of opening logging.file.
func WithLogger(l *Logger) Option {
	return func(a *Application) { a.logger = l }
}

// New loads configuration and the file and prepares the session.
func New(ctx context.Context, opts Options, options ...Option) (*Application, error) {
	if opts.Path == "" {
		return nil, &FileError{Op: "open", Err: ErrNoFile}
	}

	a := &Application{
		opts:    opts,
		metrics: NewMetrics(),
	}
	for _, opt := range options {
		opt(a)
	}
	if a.fs == nil {
		a.fs = vfs.NewOSFS()
	}

	if err := a.bootstrap(ctx); err != nil {
		a.closeLog()
		return nil, err
	}
	return a, nil
}

// bootstrap initializes components in dependency order.
func (a *Application) bootstrap(ctx context.Context) error {
	// 1. Config
	if a.config == nil {
		var cfgOpts []config.Option
		if a.opts.ConfigPath != "" {
			cfgOpts = append(cfgOpts, config.WithConfigFile(a.opts.ConfigPath))
		}
		a.config = config.New(cfgOpts...)
		if err := a.config.Load(ctx); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	if err := a.applyFlags(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	// 2. Logger
	if err := a.setupLogger(); err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	if f := a.config.ConfigFile(); f != "" {
		a.logger.Info("config loaded from %s", f)
	}
	for path, err := range a.config.ConfigErrors() {
		a.logger.Warn("config %s: %v, using default", path, err)
	}

	// 3. Document
	abs, err := a.fs.Abs(a.opts.Path)
	if err != nil {
		return &FileError{Op: "open", Path: a.opts.Path, Err: err}
	}
	doc, text, err := loadDocument(a.fs, abs)
	if err != nil {
		return err
	}
	a.absPath = abs
	a.diskContent = text

	// 4. Key map
	a.keymap = input.DefaultKeymap()
	for action, specs := range a.config.Keys() {
		if err := a.keymap.Rebind(action, specs...); err != nil {
			a.logger.Warn("keys.%s: %v", action, err)
		}
	}

	// 5. Session
	a.session = session.New(a.opts.Path, doc,
		session.WithStrict(a.config.Editor().Strict),
		session.WithModifiedMarker(a.config.UI().ModifiedMarker),
		session.WithLogger(a.logger.WithComponent("session")),
	)
	a.logger.Info("opened %s (%d lines)", abs, doc.LineCount())

	// 6. Scripts
	a.loadPlugins(ctx)
	return nil
}

// applyFlags layers command-line values over the loaded configuration.
func (a *Application) applyFlags() error {
	if a.opts.Debug {
		if err := a.config.Set("editor.strict", true); err != nil {
			return err
		}
		if err := a.config.Set("logging.level", "debug"); err != nil {
			return err
		}
	}
	if a.opts.LogLevel != "" {
		if err := a.config.Set("logging.level", a.opts.LogLevel); err != nil {
			return err
		}
	}
	if a.opts.LogFile != "" {
		if err := a.config.Set("logging.file", a.opts.LogFile); err != nil {
			return err
		}
	}
	return nil
}

// setupLogger opens logging.file. Without one, logging is disabled since
// the terminal belongs to the renderer.
func (a *Application) setupLogger() error {
	if a.logger == nil {
		cfg := a.config.Logging()
		if cfg.File == "" {
			a.logger = NullLogger
			return nil
		}
		l, closer, err := OpenLogFile(cfg.File, ParseLogLevel(cfg.Level))
		if err != nil {
			return err
		}
		a.logger, a.logCloser = l, closer
	}
	a.logger = a.logger.WithField("session", uuid.NewString())
	return nil
}

// loadPlugins runs the init script and the open hooks. Script failures are
// logged and never stop the editor.
func (a *Application) loadPlugins(ctx context.Context) {
	cfg := a.config.Plugins()
	if !cfg.Enabled || !a.fs.Exists(cfg.Init) {
		return
	}
	src, err := a.fs.ReadFile(cfg.Init)
	if err != nil {
		a.logger.Error("reading %s: %v", cfg.Init, err)
		return
	}

	log := a.logger.WithComponent("lua")
	a.plugins = lua.NewHost(a.keymap, log, lua.WithExecutionTimeout(cfg.Timeout))
	if err := a.plugins.Run(ctx, cfg.Init, string(src)); err != nil {
		log.Error("%v", err)
	}
	save, open := a.plugins.HookCount()
	log.Debug("loaded %s (%d save hooks, %d open hooks)", cfg.Init, save, open)

	_ = a.plugins.OnOpen(ctx, a.opts.Path, a.session.Document().LineCount())
}

// Run initializes the backend and processes events until quit, context
// cancellation or Shutdown. ErrQuit reports a user-requested exit.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if a.backend == nil {
		return ErrNoBackend
	}
	if err := a.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer a.backend.Shutdown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()

	// Wake the blocked PollEvent when the context ends.
	stop := context.AfterFunc(ctx, func() {
		a.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
	})
	defer stop()

	a.renderer = renderer.New(a.backend)
	a.startWatcher(ctx)

	err := a.eventLoop(ctx)
	a.logMetrics()
	return err
}

// Shutdown stops a running event loop and releases resources. It is safe
// to call from any goroutine and more than once.
func (a *Application) Shutdown() {
	a.mu.Lock()
	cancel := a.cancel
	w := a.watcher
	a.watcher = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if w != nil {
		_ = w.Close()
	}
}

// Close releases everything New acquired. Call it after Run returns.
func (a *Application) Close() {
	a.Shutdown()
	if a.plugins != nil {
		a.plugins.Close()
		a.plugins = nil
	}
	a.closeLog()
}

func (a *Application) closeLog() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}

// startWatcher reports external modifications of the file to the event
// loop as interrupt events. A watcher that cannot start is logged and
// skipped.
func (a *Application) startWatcher(ctx context.Context) {
	cfg := a.config.Watch()
	if !cfg.Enabled {
		return
	}
	fw, err := watcher.NewFileWatcher(a.absPath)
	if err != nil {
		a.logger.Warn("watch %s: %v", a.absPath, err)
		return
	}
	w := watcher.NewDebouncedWatcher(fw, cfg.Debounce)

	a.mu.Lock()
	a.watcher = w
	a.mu.Unlock()

	log := a.logger.WithComponent("watcher")
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events():
				if !ok {
					return
				}
				a.backend.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: ev})
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				if !errors.Is(err, watcher.ErrWatcherClosed) {
					log.Warn("%v", err)
				}
			}
		}
	}()
}

func (a *Application) logMetrics() {
	s := a.metrics.Snapshot()
	a.logger.Debug("exit after %s: %d events (avg %dns), %d renders (avg %dns), %d ignored keys, %d dropped edits, %d saves, %d failed saves, %d disk changes",
		s.Uptime.Round(1e6), s.EventCount, s.AvgEventNs, s.RenderCount, s.AvgRenderNs,
		s.IgnoredKeys, s.DroppedEdits, s.Saves, s.FailedSaves, s.DiskChanges)
}

// Session returns the editing session.
func (a *Application) Session() *session.Session {
	return a.session
}

// Config returns the configuration.
func (a *Application) Config() *config.Config {
	return a.config
}

// Keymap returns the key map in use.
func (a *Application) Keymap() *input.Keymap {
	return a.keymap
}

// Metrics returns the event loop counters.
func (a *Application) Metrics() *Metrics {
	return a.metrics
}

// Logger returns the application logger.
func (a *Application) Logger() *Logger {
	return a.logger
}
