package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/13-4dev98/predlozka-bot/internal/moderation"
	"github.com/13-4dev98/predlozka-bot/internal/telegram"
)

const (
	workerQueueSize  = 16
	handleTimeout    = 90 * time.Second
	drainGracePeriod = 10 * time.Second
)

// dispatcher fans updates out to one goroutine per chat. Events for a single
// chat are handled in arrival order (per-sender FIFO, and serialization of
// everything happening in the moderation chat), while a global semaphore
// bounds how many handlers run at once.
//
// Worker channels are never closed; shutdown is signalled through done, so a
// blocked Enqueue and a concurrent Close cannot race on a closing channel.
type dispatcher struct {
	router *moderation.Router
	logger *slog.Logger
	sem    chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	workers map[int64]chan telegram.Update
	closed  bool
	wg      sync.WaitGroup
}

func newDispatcher(router *moderation.Router, logger *slog.Logger, maxConcurrency int) *dispatcher {
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	return &dispatcher{
		router:  router,
		logger:  logger,
		sem:     make(chan struct{}, maxConcurrency),
		done:    make(chan struct{}),
		workers: make(map[int64]chan telegram.Update),
	}
}

// chatKey picks the serialization key for an update: the chat it happened in,
// falling back to the actor for callbacks without an attached message.
func chatKey(u telegram.Update) (int64, bool) {
	switch {
	case u.Message != nil && u.Message.Chat != nil:
		return u.Message.Chat.ID, true
	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil && u.CallbackQuery.Message.Chat != nil:
		return u.CallbackQuery.Message.Chat.ID, true
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		return u.CallbackQuery.From.ID, true
	}
	return 0, false
}

// Enqueue hands one update to its chat worker, starting the worker on first
// use. It blocks when the worker's queue is full; backpressure on the poll
// loop is preferable to unbounded buffering. During shutdown the update is
// dropped instead.
func (d *dispatcher) Enqueue(u telegram.Update) {
	key, ok := chatKey(u)
	if !ok {
		d.logger.Debug("update_without_chat_key", "update_id", u.UpdateID)
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("update_dropped_during_shutdown", "update_id", u.UpdateID)
		return
	}
	ch, exists := d.workers[key]
	if !exists {
		ch = make(chan telegram.Update, workerQueueSize)
		d.workers[key] = ch
		d.wg.Add(1)
		go d.runWorker(ch)
	}
	d.mu.Unlock()

	select {
	case ch <- u:
	case <-d.done:
		d.logger.Warn("update_dropped_during_shutdown", "update_id", u.UpdateID)
	}
}

func (d *dispatcher) runWorker(ch chan telegram.Update) {
	defer d.wg.Done()
	for {
		select {
		case u := <-ch:
			d.handle(u)
		case <-d.done:
			// Drain what was queued before shutdown, then exit.
			for {
				select {
				case u := <-ch:
					d.handle(u)
				default:
					return
				}
			}
		}
	}
}

func (d *dispatcher) handle(u telegram.Update) {
	d.sem <- struct{}{}
	defer func() { <-d.sem }()
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()
	d.router.HandleUpdate(ctx, u)
}

// Close stops accepting updates and waits for in-flight handlers, but no
// longer than the drain grace period. Safe to call more than once.
func (d *dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.done)
	d.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(drainGracePeriod):
		d.logger.Warn("dispatcher_drain_timeout")
	}
}
