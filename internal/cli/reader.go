package cli

import (
	"context"
	"errors"
	"io"
)

// ErrInterrupted is returned by an InterruptibleReader once its context is done.
var ErrInterrupted = errors.New("interrupted")

// InterruptibleReader wraps a blocking reader such as os.Stdin so that reads
// return as soon as the context is cancelled. The underlying read keeps
// running in the background and its data is dropped.
type InterruptibleReader struct {
	ctx     context.Context
	base    io.Reader
	pending chan readResult
}

type readResult struct {
	data []byte
	err  error
}

func NewInterruptibleReader(ctx context.Context, base io.Reader) *InterruptibleReader {
	return &InterruptibleReader{ctx: ctx, base: base}
}

func (r *InterruptibleReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, ErrInterrupted
	}

	if r.pending == nil {
		r.pending = make(chan readResult, 1)
		buf := make([]byte, len(p))
		go func(ch chan<- readResult) {
			n, err := r.base.Read(buf)
			ch <- readResult{data: buf[:n], err: err}
		}(r.pending)
	}

	select {
	case <-r.ctx.Done():
		return 0, ErrInterrupted
	case res := <-r.pending:
		r.pending = nil
		return copy(p, res.data), res.err
	}
}

// IsInterrupted reports whether err is a user interruption rather than a failure.
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted) || errors.Is(err, context.Canceled)
}
