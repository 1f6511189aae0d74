package journal

import (
	"context"

	"github.com/apex/log"
)

/*
WriteThrough forwards every record to the sink synchronously.

Cache create → sink write, in the caller's goroutine. A slow sink
slows down misses, never hits.
*/
type WriteThrough struct {
	sink Sink
}

func NewWriteThrough(sink Sink) *WriteThrough {
	return &WriteThrough{sink: sink}
}

func (w *WriteThrough) OnCreate(ctx context.Context, seconds float64) {
	if err := w.sink.Record(ctx, seconds); err != nil {
		log.WithError(err).WithField("seconds", seconds).Error("journal record failed")
	}
}

func (w *WriteThrough) Close() {
	if err := w.sink.Close(); err != nil {
		log.WithError(err).Error("journal sink close failed")
	}
}
