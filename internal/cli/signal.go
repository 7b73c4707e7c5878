package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// SignalError is the cancellation cause recorded when a signal arrives.
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("received signal %s", e.Signal)
}

// SignalContext is cancelled on SIGINT or SIGTERM and remembers which one arrived.
type SignalContext struct {
	context.Context
	cancel context.CancelCauseFunc
}

// NewSignalContext derives a SignalContext from parent.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancelCause(parent)
	sc := &SignalContext{Context: ctx, cancel: cancel}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			cancel(&SignalError{Signal: sig})
		case <-ctx.Done():
		}
	}()

	return sc
}

// Cancel stops the context without a signal.
func (sc *SignalContext) Cancel() {
	sc.cancel(context.Canceled)
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	var se *SignalError
	if errors.As(context.Cause(sc.Context), &se) {
		return se.Signal
	}
	return nil
}
