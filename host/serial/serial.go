// Package serial opens the device side of the trace link. The firmware
// only ever talks; the monitor only ever listens, so a port is just a
// closable byte stream. Replay files and pipes satisfy the same
// contract.
package serial

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Port is the byte stream the monitor reads trace lines from.
type Port interface {
	io.ReadCloser
}

// Config holds the link settings for a native port.
type Config struct {
	// Device path (e.g. "/dev/ttyACM0", "COM3").
	Device string

	// Baud rate. The demo firmware configures 115200; USB CDC links
	// ignore it.
	Baud int

	// ReadTimeout bounds a single Read. Zero blocks indefinitely.
	ReadTimeout time.Duration
}

// NativePort reads the trace link from a real serial device through
// github.com/tarm/serial.
type NativePort struct {
	port *serial.Port
}

// Open opens the configured serial device.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	return &NativePort{port: port}, nil
}

func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

func (p *NativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}
