//go:build linux

package transport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func TestEnsureFIFO_CreatesReusesRemoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nmea0")

	created, err := EnsureFIFO(path)
	if err != nil {
		t.Fatalf("EnsureFIFO() error: %v", err)
	}
	if !created {
		t.Fatalf("EnsureFIFO() created = false, want true")
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if fi.Mode()&os.ModeNamedPipe == 0 {
		t.Fatalf("mode %v is not a fifo", fi.Mode())
	}

	created, err = EnsureFIFO(path)
	if err != nil {
		t.Fatalf("EnsureFIFO() on existing fifo error: %v", err)
	}
	if created {
		t.Fatalf("EnsureFIFO() created = true for existing fifo")
	}

	if err := RemoveFIFO(path); err != nil {
		t.Fatalf("RemoveFIFO() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("fifo still present after RemoveFIFO(): %v", err)
	}
}

func TestEnsureFIFO_RejectsRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if _, err := EnsureFIFO(path); err == nil {
		t.Fatalf("EnsureFIFO() accepted a regular file")
	}
}

func TestPipe_WriteReachesReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nmea1")
	if _, err := EnsureFIFO(path); err != nil {
		t.Fatalf("EnsureFIFO() error: %v", err)
	}

	// A nonblocking reader is attached first so Open() does not block.
	r, err := os.OpenFile(path, os.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}
	defer r.Close()

	p := NewPipe(path)
	if err := p.Open(context.Background()); err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	msg := []byte("$GPGGA,120000.00,12.3456,N,98.7654,E,1,08,1.0,50.0,M,10.0,M,,,*xx\r\n")
	if _, err := p.Write(msg); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	buf := make([]byte, 128)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if string(buf[:n]) != string(msg) {
		t.Fatalf("read %q, want %q", buf[:n], msg)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
}

func TestPipe_OpenAbortsWhenNoReaderArrives(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nmea2")
	if _, err := EnsureFIFO(path); err != nil {
		t.Fatalf("EnsureFIFO() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	p := NewPipe(path)
	err := p.Open(ctx)
	if err == nil {
		p.Close()
		t.Fatalf("Open() with no reader did not fail")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Open() error = %v, want context.DeadlineExceeded", err)
	}
}

// openWriteOnly accepts any path, so a temp file stands in for the device
// node.
func TestSerial_WritesToDevicePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ttyFAKE")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	s := NewSerial(path)
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	msg := []byte("$GPRMC,120000.00,A,12.3456,N,98.7654,E,010.5,180.0,010324,,,*xx\r\n")
	if _, err := s.Write(msg); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(got) != string(msg) {
		t.Fatalf("device contents %q, want %q", got, msg)
	}
}

func TestOpenPTY_AllocatesWritablePair(t *testing.T) {
	p, err := OpenPTY()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer p.Close()

	if p.SlavePath() == "" {
		t.Fatalf("SlavePath() is empty")
	}
	if err := p.Open(context.Background()); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := p.Write([]byte("$GPGLL,0.0000,N,0.0000,E,A*xx\r\n")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}
