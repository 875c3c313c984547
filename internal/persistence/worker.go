// Package persistence is the durability side channel: a background worker
// that writes game and options snapshots to key-value storage. Gameplay
// never waits on it and never reads it back.
package persistence

import (
	"context"
	"encoding/json"
	"log"

	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// MessageType selects the storage slot a snapshot is written to
type MessageType string

const (
	MessageGame    MessageType = "game"
	MessageOptions MessageType = "options"
)

// DefaultQueueSize is used when the config leaves QueueSize at zero
const DefaultQueueSize = 32

// Message is one snapshot to persist. Payload is serialized as JSON.
type Message struct {
	Type    MessageType
	Payload any
}

// WorkerConfig holds the worker's dependencies
type WorkerConfig struct {
	Store     Store
	QueueSize int
	// OnError receives every failed write; defaults to logging
	OnError func(error)
}

type snapshot struct {
	key  string
	data []byte
}

// Worker drains a bounded queue of snapshots into a Store
type Worker struct {
	store   Store
	queue   chan snapshot
	onError func(error)
}

// NewWorker creates a worker; call Run to start draining
func NewWorker(cfg *WorkerConfig) *Worker {
	if cfg == nil || cfg.Store == nil {
		panic("store is required")
	}

	size := cfg.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	onError := cfg.OnError
	if onError == nil {
		onError = func(err error) {
			log.Printf("[PERSISTENCE] %v", err)
		}
	}

	return &Worker{
		store:   cfg.Store,
		queue:   make(chan snapshot, size),
		onError: onError,
	}
}

// Submit serializes the payload and queues it without blocking, so later
// changes to the payload do not leak into the snapshot. A full queue drops
// the message; the error is returned and also reported to OnError.
func (w *Worker) Submit(msg Message) error {
	switch msg.Type {
	case MessageGame, MessageOptions:
	default:
		err := apperrors.InvalidArgumentf("unknown message type %q", msg.Type)
		w.onError(err)
		return err
	}

	data, err := json.Marshal(msg.Payload)
	if err != nil {
		err = apperrors.WrapWithCode(err, apperrors.CodeInvalidArgument, "failed to serialize "+string(msg.Type)+" snapshot")
		w.onError(err)
		return err
	}

	select {
	case w.queue <- snapshot{key: string(msg.Type), data: data}:
		return nil
	default:
		err := apperrors.FailedPreconditionf("persistence queue full, dropped %s snapshot", msg.Type)
		w.onError(err)
		return err
	}
}

// Pending is how many messages wait in the queue
func (w *Worker) Pending() int {
	return len(w.queue)
}

// Run writes queued messages until ctx is cancelled, then flushes whatever
// is still queued and returns nil.
func (w *Worker) Run(ctx context.Context) error {
	log.Printf("[PERSISTENCE] Worker started (queue %d)", cap(w.queue))

	for {
		select {
		case snap := <-w.queue:
			w.write(ctx, snap)
		case <-ctx.Done():
			w.flush(context.WithoutCancel(ctx))
			log.Printf("[PERSISTENCE] Worker stopped")
			return nil
		}
	}
}

func (w *Worker) flush(ctx context.Context) {
	for {
		select {
		case snap := <-w.queue:
			w.write(ctx, snap)
		default:
			return
		}
	}
}

func (w *Worker) write(ctx context.Context, snap snapshot) {
	if err := w.store.Save(ctx, snap.key, snap.data); err != nil {
		w.onError(err)
	}
}
