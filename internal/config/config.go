package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport selection values.
const (
	TransportPipe   = "pipe"
	TransportSerial = "serial"
	TransportPTY    = "pty"
)

type Config struct {
	Transport string        `yaml:"transport"`
	Pipe      PipeConfig    `yaml:"pipe"`
	Serial    SerialConfig  `yaml:"serial"`
	Interval  time.Duration `yaml:"interval"`
}

type PipeConfig struct {
	Path string `yaml:"path"`
}

type SerialConfig struct {
	Device string `yaml:"device"`
}

// Options is the command-line surface: an optional config file plus flag
// overrides. Flags win over the file, and -serial wins over -pipe when both
// are given.
type Options struct {
	ConfigPath   string
	PipePath     string
	SerialDevice string
	IntervalSec  float64
}

func Load(path string) (Config, error) {
	cfg, err := read(path)
	if err != nil {
		return Config{}, err
	}
	return finalize(cfg)
}

// Resolve merges the config file named by opts (when any) with the flag
// overrides, then applies defaults and validates.
func Resolve(opts Options) (Config, error) {
	var cfg Config
	if opts.ConfigPath != "" {
		raw, err := read(opts.ConfigPath)
		if err != nil {
			return Config{}, err
		}
		cfg = raw
	}

	switch {
	case opts.SerialDevice != "":
		cfg.Transport = TransportSerial
		cfg.Serial.Device = opts.SerialDevice
	case opts.PipePath != "":
		cfg.Transport = TransportPipe
		cfg.Pipe.Path = opts.PipePath
	}
	if opts.IntervalSec != 0 {
		cfg.Interval = time.Duration(opts.IntervalSec * float64(time.Second))
	}

	return finalize(cfg)
}

func read(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func finalize(cfg Config) (Config, error) {
	if cfg.Transport == "" {
		cfg.Transport = TransportPTY
	}
	if cfg.Interval == 0 {
		cfg.Interval = 1 * time.Second
	}
	if cfg.Interval < 0 {
		return Config{}, fmt.Errorf("interval must be > 0")
	}

	switch cfg.Transport {
	case TransportPipe:
		if cfg.Pipe.Path == "" {
			return Config{}, fmt.Errorf("pipe.path is required when transport is 'pipe'")
		}
	case TransportSerial:
		if cfg.Serial.Device == "" {
			return Config{}, fmt.Errorf("serial.device is required when transport is 'serial'")
		}
	case TransportPTY:
	default:
		return Config{}, fmt.Errorf("transport must be one of 'pipe', 'serial', 'pty'")
	}

	return cfg, nil
}
