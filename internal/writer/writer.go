// Package writer paces NMEA epochs onto a transport: compose one burst,
// write it whole, sleep the configured interval, repeat. The loop ends on
// context cancel, on Close, or on the first write error; a detached reader
// is a normal way for a run to finish, not a fault.
package writer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"nmeasim/internal/transport"
)

type Config struct {
	// Interval between epochs. Defaults to 1s.
	Interval time.Duration
}

type Writer struct {
	cfg     Config
	tr      transport.Transport
	compose func() []byte

	started atomic.Bool
	closed  atomic.Bool

	mu        sync.RWMutex
	state     string
	lastErr   string
	epochs    uint64
	lastWrite time.Time

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// Snapshot is a point-in-time view of the writer, safe to read from any
// goroutine.
type Snapshot struct {
	Transport    string `json:"transport"`
	State        string `json:"state"`
	Epochs       uint64 `json:"epochs"`
	LastError    string `json:"last_error,omitempty"`
	LastWriteUTC string `json:"last_write_utc,omitempty"`
}

// New builds a writer over tr. compose is called once per epoch and must
// return a complete, already-framed sentence burst.
func New(cfg Config, tr transport.Transport, compose func() []byte) (*Writer, error) {
	if tr == nil {
		return nil, fmt.Errorf("writer: transport is nil")
	}
	if compose == nil {
		return nil, fmt.Errorf("writer: compose is nil")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 1 * time.Second
	}
	return &Writer{
		cfg:     cfg,
		tr:      tr,
		compose: compose,
		state:   "idle",
		done:    make(chan struct{}),
	}, nil
}

// Start opens the transport and launches the write loop. A failed open is
// terminal: the loop never runs and the writer reports stopped.
func (w *Writer) Start(ctx context.Context) error {
	if w == nil {
		return fmt.Errorf("writer: writer is nil")
	}
	if w.closed.Load() {
		return fmt.Errorf("writer: writer is closed")
	}
	if w.started.Swap(true) {
		return fmt.Errorf("writer: already started")
	}

	if err := w.tr.Open(ctx); err != nil {
		w.setState("stopped", err.Error())
		close(w.done)
		return fmt.Errorf("writer: open %s transport: %w", w.tr.Name(), err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()
	w.setState("running", "")

	go func() {
		defer close(w.done)
		w.runLoop(runCtx)
	}()
	return nil
}

// Close stops the loop and closes the transport. Safe to call more than
// once and before Start.
func (w *Writer) Close() {
	if w == nil {
		return
	}
	if w.closed.Swap(true) {
		return
	}
	w.mu.Lock()
	if w.state == "running" {
		w.state = "stopping"
	}
	cancel := w.cancel
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if w.started.Load() {
		<-w.done
	}
	w.closeTransport()
	w.setState("stopped", "")
}

// Done is closed when the write loop has finished, including self-stop on a
// write error or reader disconnect.
func (w *Writer) Done() <-chan struct{} { return w.done }

func (w *Writer) Snapshot() Snapshot {
	if w == nil {
		return Snapshot{}
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	snap := Snapshot{
		Transport: w.tr.Name(),
		State:     w.state,
		Epochs:    w.epochs,
		LastError: w.lastErr,
	}
	if !w.lastWrite.IsZero() {
		snap.LastWriteUTC = w.lastWrite.UTC().Format(time.RFC3339Nano)
	}
	return snap
}

func (w *Writer) runLoop(ctx context.Context) {
	defer w.closeTransport()

	for {
		select {
		case <-ctx.Done():
			w.setState("stopped", "")
			return
		default:
		}

		epoch := w.compose()
		if _, err := w.tr.Write(epoch); err != nil {
			if errors.Is(err, syscall.EPIPE) {
				log.Printf("writer: reader detached transport=%s: %v", w.tr.Name(), err)
				w.setState("stopped", "reader detached")
			} else {
				log.Printf("writer: write failed transport=%s: %v", w.tr.Name(), err)
				w.setState("stopped", err.Error())
			}
			return
		}

		now := time.Now().UTC()
		w.mu.Lock()
		w.epochs++
		n := w.epochs
		w.lastWrite = now
		w.mu.Unlock()

		log.Printf("writer: sent transport=%s epoch=%d\n%s", w.tr.Name(), n, strings.TrimSpace(string(epoch)))

		if !sleepCtx(ctx, w.cfg.Interval) {
			w.setState("stopped", "")
			return
		}
	}
}

func (w *Writer) closeTransport() {
	w.closeOnce.Do(func() {
		if err := w.tr.Close(); err != nil {
			log.Printf("writer: close transport=%s: %v", w.tr.Name(), err)
		}
	})
}

// setState keeps the last non-empty error so the reason a run ended stays
// visible after the state settles on stopped.
func (w *Writer) setState(state, lastErr string) {
	w.mu.Lock()
	w.state = state
	if lastErr != "" {
		w.lastErr = lastErr
	}
	w.mu.Unlock()
}

// sleepCtx waits for d, returning false if the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
