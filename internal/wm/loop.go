package wm

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mj1618/tilewm/internal/command"
	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/platform"
)

// item is one entry of the processing queue: a native event, an invoke
// command or a query.
type item struct {
	event   *platform.Event
	cmd     command.Command
	subject *container.ID
	query   string
	reply   chan result
}

type result struct {
	subject container.ID
	data    any
	err     error
}

// Run starts the WM and processes native events and submitted requests one
// at a time, in arrival order, until ctx is cancelled or wm-exit runs. An
// event kind without a handler stops the loop with ErrUnknownEvent.
func (w *WM) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := w.source.Events(ctx)
	if err != nil {
		return platform.NativeError("hook events", 0, err)
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Shutdown()

	go func() {
		for ev := range events {
			select {
			case w.queue <- item{event: &ev}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case it := <-w.queue:
			err := w.process(it)
			if errors.Is(err, ErrExit) {
				w.logger.Info("exit requested")
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

// process handles one queue item and flushes. Only ErrExit and
// ErrUnknownEvent escape; every other error is reported and dropped.
func (w *WM) process(it item) error {
	var err error
	switch {
	case it.event != nil:
		err = w.HandleEvent(*it.event)
		if errors.Is(err, ErrUnknownEvent) {
			return err
		}
		if err != nil && !errors.Is(err, ErrExit) {
			w.logger.Error("event handler failed", "event", it.event.Kind, "window", it.event.Handle, "err", err)
		}
	case it.cmd != nil:
		var id container.ID
		id, err = w.Invoke(it.cmd, it.subject)
		if it.reply != nil {
			it.reply <- result{subject: id, err: err}
		} else if err != nil && !errors.Is(err, ErrExit) {
			w.logger.Error("command failed", "command", it.cmd.Name(), "err", err)
		}
	default:
		data, qerr := w.Query(it.query)
		it.reply <- result{data: data, err: qerr}
	}

	w.Flush()
	if errors.Is(err, ErrExit) {
		return ErrExit
	}
	return nil
}

// Submit queues cmd for the processing goroutine and waits for it to run.
// It returns the id of the subject container.
func (w *WM) Submit(ctx context.Context, cmd command.Command, subject *container.ID) (container.ID, error) {
	res, err := w.roundTrip(ctx, item{cmd: cmd, subject: subject})
	if err != nil {
		return uuid.Nil, err
	}
	return res.subject, res.err
}

// SubmitQuery runs a query on the processing goroutine and returns its
// snapshot.
func (w *WM) SubmitQuery(ctx context.Context, name string) (any, error) {
	res, err := w.roundTrip(ctx, item{query: name})
	if err != nil {
		return nil, err
	}
	return res.data, res.err
}

// Post queues cmd without waiting for the result. Failures are logged.
func (w *WM) Post(ctx context.Context, cmd command.Command) {
	select {
	case w.queue <- item{cmd: cmd}:
	case <-ctx.Done():
	}
}

func (w *WM) roundTrip(ctx context.Context, it item) (result, error) {
	it.reply = make(chan result, 1)
	select {
	case w.queue <- it:
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
	select {
	case res := <-it.reply:
		return res, nil
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
}
