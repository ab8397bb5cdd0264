//go:build linux

package transport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// EnsureFIFO makes sure path names a FIFO, creating one when nothing is
// there. It reports whether this call created the entry; in that case the
// caller owns removal. An existing entry that is not a FIFO is an error.
func EnsureFIFO(path string) (bool, error) {
	fi, err := os.Stat(path)
	switch {
	case err == nil:
		if fi.Mode()&os.ModeNamedPipe == 0 {
			return false, fmt.Errorf("transport: %s exists and is not a fifo", path)
		}
		return false, nil
	case os.IsNotExist(err):
		if err := unix.Mkfifo(path, 0o666); err != nil {
			return false, fmt.Errorf("transport: mkfifo %s: %w", path, err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("transport: stat %s: %w", path, err)
	}
}

// openFIFO opens path for writing without blocking in the kernel. A write
// end cannot open before a read end exists (ENXIO), so it polls until a
// reader attaches or ctx ends. The descriptor stays in non-blocking mode;
// os.NewFile hands it to the runtime poller so writes still park the
// goroutine, not the thread.
func openFIFO(ctx context.Context, path string) (*os.File, error) {
	for {
		fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK, 0)
		if err == nil {
			f := os.NewFile(uintptr(fd), path)
			if f == nil {
				_ = unix.Close(fd)
				return nil, fmt.Errorf("os.NewFile failed")
			}
			return f, nil
		}
		if !errors.Is(err, unix.ENXIO) {
			return nil, err
		}

		t := time.NewTimer(100 * time.Millisecond)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}
