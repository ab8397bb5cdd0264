package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nmeasim/internal/config"
	"nmeasim/internal/nmea"
	"nmeasim/internal/transport"
	"nmeasim/internal/writer"
)

func main() {
	var opts config.Options
	flag.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config (optional)")
	flag.StringVar(&opts.PipePath, "pipe", "", "Write to a named pipe at this path, creating it when missing")
	flag.StringVar(&opts.SerialDevice, "serial", "", "Write to an existing serial device at this path")
	flag.Float64Var(&opts.IntervalSec, "interval", 0, "Seconds between epochs (default 1)")
	flag.Parse()

	cfg, err := config.Resolve(opts)
	if err != nil {
		log.Fatalf("config resolve failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("nmeasim starting transport=%s interval=%s", cfg.Transport, cfg.Interval)

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	var tr transport.Transport
	switch cfg.Transport {
	case config.TransportPipe:
		created, err := transport.EnsureFIFO(cfg.Pipe.Path)
		if err != nil {
			return err
		}
		if created {
			log.Printf("created fifo path=%s", cfg.Pipe.Path)
			defer func() {
				if err := transport.RemoveFIFO(cfg.Pipe.Path); err != nil {
					log.Printf("fifo remove failed: %v", err)
				}
			}()
		} else {
			log.Printf("using existing fifo path=%s", cfg.Pipe.Path)
		}
		log.Printf("waiting for a reader on %s", cfg.Pipe.Path)
		tr = transport.NewPipe(cfg.Pipe.Path)
	case config.TransportSerial:
		log.Printf("serial device=%s", cfg.Serial.Device)
		tr = transport.NewSerial(cfg.Serial.Device)
	default:
		p, err := transport.OpenPTY()
		if err != nil {
			return err
		}
		log.Printf("pty ready slave=%s", p.SlavePath())
		tr = p
	}

	gen := nmea.NewGenerator()
	w, err := writer.New(writer.Config{Interval: cfg.Interval}, tr, func() []byte {
		return []byte(gen.Epoch())
	})
	if err != nil {
		return err
	}

	if err := w.Start(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	select {
	case <-ctx.Done():
	case <-w.Done():
	}
	w.Close()

	snap := w.Snapshot()
	log.Printf("nmeasim stopping transport=%s epochs=%d", snap.Transport, snap.Epochs)
	if snap.LastError != "" && snap.LastError != "reader detached" {
		return fmt.Errorf("writer stopped: %s", snap.LastError)
	}
	return nil
}
