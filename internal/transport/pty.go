package transport

import (
	"context"
	"fmt"
	"os"

	"github.com/creack/pty"
)

// PTY writes to the master half of a pseudo-terminal pair. The slave half
// stays open for the life of the transport so master writes keep working
// before any consumer attaches to the slave device.
type PTY struct {
	master    *os.File
	slave     *os.File
	slavePath string
}

// OpenPTY allocates a fresh pseudo-terminal pair.
func OpenPTY() (*PTY, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("transport: open pty: %w", err)
	}
	return &PTY{master: master, slave: slave, slavePath: slave.Name()}, nil
}

// NewPTY wraps an already-open master descriptor. Used by tests; normal
// callers go through OpenPTY.
func NewPTY(master *os.File, slavePath string) *PTY {
	return &PTY{master: master, slavePath: slavePath}
}

// SlavePath is the device path a consumer attaches to, e.g. /dev/pts/3.
func (p *PTY) SlavePath() string { return p.slavePath }

func (p *PTY) Open(ctx context.Context) error {
	if p.master == nil {
		return fmt.Errorf("transport: pty has no master descriptor")
	}
	return nil
}

func (p *PTY) Write(b []byte) (int, error) {
	if p.master == nil {
		return 0, fmt.Errorf("transport: pty is not open")
	}
	return p.master.Write(b)
}

func (p *PTY) Close() error {
	if p.master == nil {
		return nil
	}
	err := p.master.Close()
	p.master = nil
	if p.slave != nil {
		_ = p.slave.Close()
		p.slave = nil
	}
	return err
}

func (p *PTY) Name() string { return "pty" }
