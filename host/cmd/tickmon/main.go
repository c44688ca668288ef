// tickmon watches the trace stream of a device running the widetick
// demo firmware and reports alarm cadence and lateness statistics.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"widetick/host/config"
	"widetick/host/serial"
	"widetick/host/trace"
)

var (
	configPath = flag.String("config", "", "YAML config file (optional)")
	device     = flag.String("device", "", "serial device path (overrides config)")
	replay     = flag.String("replay", "", "replay a captured trace file instead of a live port")
	verbose    = flag.Bool("verbose", false, "print every trace event")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *device != "" {
		cfg.Link.Device = *device
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		os.Exit(1)
	}

	source, err := openSource(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer source.Close()

	stats := trace.NewStats(cfg.Watch.BeaconTicks)

	// Print the summary on Ctrl-C; live monitoring sessions end that way.
	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt)
	go func() {
		<-interrupted
		fmt.Println()
		fmt.Println(stats.Summary())
		os.Exit(0)
	}()

	err = trace.Stream(source, func(e trace.Event) {
		if e.Unit != cfg.Watch.Unit {
			return
		}
		if *verbose {
			fmt.Printf("%s t=%d\n", e.Kind, e.Ticks)
		}
		stats.Observe(e)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: trace stream: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(stats.Summary())
}

// openSource opens either the replay file or the live serial port.
func openSource(cfg *config.Config) (io.ReadCloser, error) {
	if *replay != "" {
		return os.Open(*replay)
	}
	return serial.Open(&serial.Config{
		Device:      cfg.Link.Device,
		Baud:        cfg.Link.Baud,
		ReadTimeout: time.Duration(cfg.Link.ReadTimeoutMs) * time.Millisecond,
	})
}
