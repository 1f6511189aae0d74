package journal

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/apex/log"
)

// record is one pending journal write.
type record struct {
	ctx     context.Context
	seconds float64
}

/*
WriteBack records asynchronously.

Records go into a buffered channel drained by one worker. When the
buffer is full, or the journal is already closed, the record is DROPPED
and counted; a lost record only costs one cold miss on the next run.
*/
type WriteBack struct {
	sink Sink

	// mu guards closed and the send on ch against close(ch).
	mu     sync.RWMutex
	closed bool
	ch     chan record

	// wg waits for the worker during Close.
	wg sync.WaitGroup

	closeOnce sync.Once
	dropped   atomic.Int64
}

// NewWriteBack starts the background worker.
func NewWriteBack(sink Sink, buffer int) *WriteBack {
	if buffer < 0 {
		buffer = 0
	}
	w := &WriteBack{
		sink: sink,
		ch:   make(chan record, buffer),
	}

	w.wg.Add(1)
	go w.worker()

	return w
}

func (w *WriteBack) OnCreate(ctx context.Context, seconds float64) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.dropped.Add(1)
		log.WithField("seconds", seconds).Debug("journal closed, record dropped")
		return
	}

	select {
	case w.ch <- record{context.WithoutCancel(ctx), seconds}:
	default:
		w.dropped.Add(1)
		log.WithField("seconds", seconds).Warn("journal buffer full, record dropped")
	}
}

// Dropped returns how many records were discarded under pressure.
func (w *WriteBack) Dropped() int64 {
	return w.dropped.Load()
}

func (w *WriteBack) worker() {
	defer w.wg.Done()

	for req := range w.ch {
		if err := w.sink.Record(req.ctx, req.seconds); err != nil {
			log.WithError(err).WithField("seconds", req.seconds).Error("journal record failed")
		}
	}
}

/*
Close shuts down the write-back journal gracefully.
1. Mark closed and close the channel (later records are dropped)
2. Wait for the worker to drain what is queued
3. Close the sink
*/
func (w *WriteBack) Close() {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.ch)
		w.mu.Unlock()

		w.wg.Wait()
		if err := w.sink.Close(); err != nil {
			log.WithError(err).Error("journal sink close failed")
		}
	})
}
