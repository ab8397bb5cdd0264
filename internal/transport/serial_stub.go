//go:build !linux

package transport

import (
	"fmt"
	"os"
)

func openWriteOnly(path string) (*os.File, error) {
	return nil, fmt.Errorf("serial transport not supported on this platform")
}
