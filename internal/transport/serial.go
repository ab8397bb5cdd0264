package transport

import (
	"context"
	"fmt"
	"os"
)

// Serial writes to an existing serial device node. The port is opened
// write-only and its line settings are left exactly as found; baud and
// framing belong to whoever configured the device.
type Serial struct {
	device string
	f      *os.File
}

func NewSerial(device string) *Serial {
	return &Serial{device: device}
}

func (s *Serial) Open(ctx context.Context) error {
	f, err := openWriteOnly(s.device)
	if err != nil {
		return fmt.Errorf("transport: open serial %s: %w", s.device, err)
	}
	s.f = f
	return nil
}

func (s *Serial) Write(b []byte) (int, error) {
	if s.f == nil {
		return 0, fmt.Errorf("transport: serial %s is not open", s.device)
	}
	return s.f.Write(b)
}

func (s *Serial) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

func (s *Serial) Name() string { return "serial" }
