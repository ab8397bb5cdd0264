//go:build !linux

package transport

import (
	"context"
	"fmt"
	"os"
)

func EnsureFIFO(path string) (bool, error) {
	return false, fmt.Errorf("transport: fifo not supported on this platform")
}

func openFIFO(ctx context.Context, path string) (*os.File, error) {
	return nil, fmt.Errorf("transport: fifo not supported on this platform")
}
