package transport

import (
	"context"
	"fmt"
	"os"
)

// Pipe writes to a FIFO at a fixed filesystem path. The FIFO entry itself
// is managed by the caller via EnsureFIFO and RemoveFIFO.
type Pipe struct {
	path string
	f    *os.File
}

func NewPipe(path string) *Pipe {
	return &Pipe{path: path}
}

// Open opens the FIFO for writing. Per FIFO semantics a writer needs a
// reader on the other end, so this waits for one until ctx is cancelled.
func (p *Pipe) Open(ctx context.Context) error {
	f, err := openFIFO(ctx, p.path)
	if err != nil {
		return fmt.Errorf("transport: open fifo %s: %w", p.path, err)
	}
	p.f = f
	return nil
}

func (p *Pipe) Write(b []byte) (int, error) {
	if p.f == nil {
		return 0, fmt.Errorf("transport: fifo %s is not open", p.path)
	}
	return p.f.Write(b)
}

func (p *Pipe) Close() error {
	if p.f == nil {
		return nil
	}
	err := p.f.Close()
	p.f = nil
	return err
}

func (p *Pipe) Name() string { return "pipe" }

// RemoveFIFO unlinks a FIFO previously created by EnsureFIFO. Callers only
// do this for FIFOs they created themselves.
func RemoveFIFO(path string) error {
	return os.Remove(path)
}
