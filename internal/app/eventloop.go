package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/exedit/internal/input"
	"github.com/dshills/exedit/internal/renderer/backend"
	"github.com/dshills/exedit/internal/session"
	"github.com/dshills/exedit/internal/watcher"
)

// Status messages shown on the bottom border.
const (
	statusSaveFailed  = "save failed: "
	statusDiskChanged = "file changed on disk"
	statusDiskRemoved = "file removed on disk"
)

// eventLoop renders, waits for one event and handles it. Each key event
// is resolved to at most one intent, which is consumed exactly once.
func (a *Application) eventLoop(ctx context.Context) error {
	for {
		a.render()

		ev := a.backend.PollEvent()
		if ctx.Err() != nil {
			return nil
		}

		t := StartTimer()
		err := a.handleBackendEvent(ctx, ev)
		a.metrics.RecordEvent(t.Elapsed())
		if err != nil {
			return err
		}
	}
}

// render sizes the session to the renderer and paints a frame.
func (a *Application) render() {
	t := StartTimer()
	a.session.SetHeight(a.renderer.TextHeight())
	a.renderer.Render(a.session.Frame())
	a.metrics.RecordRender(t.Elapsed())
}

// handleBackendEvent routes one backend event. It returns ErrQuit when the
// user asked to exit.
func (a *Application) handleBackendEvent(ctx context.Context, ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return a.handleKeyEvent(ctx, ev)
	case backend.EventResize:
		a.renderer.Resize(ev.Width, ev.Height)
		return nil
	case backend.EventInterrupt:
		if we, ok := ev.Data.(watcher.Event); ok {
			a.handleDiskChange(we)
		}
		return nil
	default:
		return nil
	}
}

// handleKeyEvent resolves a key to an intent and applies it. Unbound keys
// are ignored; intents the session rejects have already been logged.
func (a *Application) handleKeyEvent(ctx context.Context, ev backend.Event) error {
	in, err := a.keymap.Resolve(ev)
	if err != nil {
		if errors.Is(err, input.ErrUnsupported) {
			a.metrics.RecordIgnoredKey()
			return nil
		}
		return err
	}

	out, err := a.session.Handle(in)
	if err != nil {
		a.metrics.RecordDroppedEdit()
		return nil
	}

	switch out {
	case session.OutcomeSave:
		a.save(ctx)
	case session.OutcomeQuit:
		a.logger.Info("quit requested")
		return ErrQuit
	}
	return nil
}

// save writes the buffer. A failure keeps the buffer dirty and reports the
// error on the status line.
func (a *Application) save(ctx context.Context) {
	content := a.session.Content()
	if err := saveFile(a.fs, a.absPath, content); err != nil {
		a.logger.Error("%v", err)
		a.session.SetStatus(statusSaveFailed + errors.Unwrap(err).Error())
		a.metrics.RecordSave(false)
		return
	}

	a.diskContent = content
	a.session.MarkSaved()
	lines := a.session.Document().LineCount()
	a.session.SetStatus(fmt.Sprintf("saved %s", a.fs.Base(a.absPath)))
	a.metrics.RecordSave(true)
	a.logger.Info("saved %s (%d bytes)", a.absPath, len(content))

	if a.plugins != nil {
		_ = a.plugins.OnSave(ctx, a.opts.Path, lines)
	}
}

// handleDiskChange compares the file with what the editor last read or
// wrote. Only a real content change is reported, so the editor's own saves
// and metadata updates stay silent.
func (a *Application) handleDiskChange(ev watcher.Event) {
	a.logger.Debug("watcher: %s %s", ev.Op, ev.Path)

	data, err := a.fs.ReadFile(a.absPath)
	if err != nil {
		if !a.fs.Exists(a.absPath) {
			a.session.SetStatus(statusDiskRemoved)
			a.metrics.RecordDiskChange()
		}
		return
	}

	text := string(data)
	if text == a.diskContent {
		return
	}
	a.diskContent = text
	if text == a.session.Content() {
		return
	}
	a.session.SetStatus(statusDiskChanged)
	a.metrics.RecordDiskChange()
	a.logger.Info("%s changed on disk", a.absPath)
}
