// Package transport provides the write-only endpoints the simulator can
// stream NMEA sentences to: a named pipe, a serial device, or the master
// side of a pseudo-terminal.
package transport

import "context"

// A Transport is a single byte-stream endpoint. Open must be called before
// Write and may block waiting for the far side, so it takes a context;
// Close is idempotent. None of the implementations reconnect: once the far
// side goes away the next Write reports it and the endpoint is done.
type Transport interface {
	Open(ctx context.Context) error
	Write(p []byte) (n int, err error)
	Close() error
	Name() string
}
