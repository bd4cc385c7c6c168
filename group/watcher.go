// MIT License
//
// Copyright (c) 2023-2026 Coordkit Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package group

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/coordkit/zgroup/log"
	"github.com/coordkit/zgroup/store"
)

// DeletionWatch tracks a single path until the store confirms it is gone and
// then broadcasts completion to every waiter.
//
// One-shot watches make the naive "if it exists, wait for the delete event"
// approach unsound twice over: a deletion can land in the gap between a
// plain existence check and the watch registration, and any non-deletion
// event consumes the armed watch, leaving a deletion that races with it
// invisible. The watch therefore relies on the store's atomic
// check-and-arm (store.Client.ExistsWatch) and re-issues it after every
// event that is not a deletion. At every step it either holds a watch armed
// strictly before the present moment or has just independently confirmed
// the node is gone, so no deletion that happens after the watch starts can
// be missed.
//
// The state machine runs on its own goroutine until it reaches completion,
// whether or not anyone is still waiting; waiters detach individually
// through their context without disturbing it.
type DeletionWatch struct {
	client store.Client
	path   string
	logger log.Logger

	// generation counts the arms issued so far; a delivery tagged with an
	// older generation belongs to a superseded watch and is ignored
	generation *atomic.Int64

	err      error // terminal error, written once before done is closed
	done     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

// notification carries one watch delivery from a forwarder to the state
// machine, tagged with the generation of the arm that produced it. ok is
// false when the watch channel closed without delivering an event.
type notification struct {
	generation int64
	event      store.Event
	ok         bool
}

// NewDeletionWatch starts watching path for deletion and returns
// immediately. The returned watch supports any number of concurrent
// waiters; completion is a broadcast, not consumed by the first.
func NewDeletionWatch(client store.Client, path string, opts ...WatchOption) *DeletionWatch {
	w := &DeletionWatch{
		client:     client,
		path:       path,
		logger:     log.DiscardLogger,
		generation: atomic.NewInt64(0),
		done:       make(chan struct{}),
		stop:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt.Apply(w)
	}
	go w.run()
	return w
}

// Path returns the watched path.
func (w *DeletionWatch) Path() string {
	return w.path
}

// Done returns a channel that is closed once the path is confirmed deleted
// or the watch terminated with an error. Check Err after it closes.
func (w *DeletionWatch) Done() <-chan struct{} {
	return w.done
}

// Err returns the terminal error of the watch: nil while it is still
// running and after a confirmed deletion, the store error that aborted it,
// or ErrWatchStopped after Stop.
func (w *DeletionWatch) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

// Wait blocks until the path is confirmed deleted, the watch terminates
// with an error, or ctx is done. A ctx expiry detaches only this caller;
// the watch and any other waiters are unaffected.
func (w *DeletionWatch) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return w.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop abandons the watch before completion. Waiters are released with
// ErrWatchStopped. Stopping a completed watch is a no-op.
func (w *DeletionWatch) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
}

// run is the state machine. Exactly one re-arm is ever in flight because
// this goroutine is the only one issuing ExistsWatch calls for the watch.
func (w *DeletionWatch) run() {
	notifications := make(chan notification)
	for {
		exists, _, events, err := w.client.ExistsWatch(context.Background(), w.path)
		if err != nil {
			// hard store failure aborts the wait; retrying across it is the
			// caller's call
			w.complete(err)
			return
		}
		if !exists {
			w.complete(nil)
			return
		}

		generation := w.generation.Inc()
		go w.forward(generation, events, notifications)

		rearm := false
		for !rearm {
			select {
			case n := <-notifications:
				if n.generation != w.generation.Load() {
					// delivery from a superseded arm
					continue
				}
				if n.ok && n.event.Type == store.EventDeleted {
					w.complete(nil)
					return
				}
				// The armed watch was consumed by something other than a
				// deletion (a data or child change, a dropped watch, or a
				// re-creation). Any of those could have raced with a
				// deletion the one-shot watch could no longer report, so
				// only a fresh check-and-arm settles it.
				if n.ok {
					w.logger.Debugf("watch on %s consumed by %s event, re-arming", w.path, n.event.Type)
				}
				rearm = true
			case <-w.stop:
				w.complete(ErrWatchStopped)
				return
			}
		}
	}
}

// forward relays the single delivery of one armed watch to the state
// machine. It never outlives completion: once done is closed it gives up,
// so an abandoned watch channel cannot leak a goroutine.
func (w *DeletionWatch) forward(generation int64, events <-chan store.Event, notifications chan<- notification) {
	select {
	case event, ok := <-events:
		select {
		case notifications <- notification{generation: generation, event: event, ok: ok}:
		case <-w.done:
		}
	case <-w.done:
	}
}

// complete records the terminal state and releases every waiter. Closing
// done is the broadcast; err is written before the close so waiters read it
// safely afterwards.
func (w *DeletionWatch) complete(err error) {
	w.err = err
	close(w.done)
}

// WaitForDeletion blocks until the store confirms that path has been
// deleted, and returns immediately when it does not exist to begin with. It
// is usable for any path, independent of Group and Member. The guarantee:
// no deletion occurring after the call begins can be missed, regardless of
// how many unrelated events fire on the path in the interim.
//
// The watch machinery is owned by this call; when ctx expires the machinery
// is stopped and discarded.
func WaitForDeletion(ctx context.Context, client store.Client, path string) error {
	w := NewDeletionWatch(client, path)
	defer w.Stop()
	return w.Wait(ctx)
}
