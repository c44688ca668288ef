// Package trace parses and analyzes the event lines the firmware's
// trace writer emits over the serial link.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Event is one parsed trace line.
type Event struct {
	Kind  string // event name (period, alarm_set, alarm_fire, ...)
	Unit  uint8  // hardware unit the event belongs to
	Ticks uint64 // kind-dependent tick value
}

// ParseLine parses a single trace line of the form
//
//	EVT <name> unit=<n> t=<ticks>
func ParseLine(line string) (Event, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 || fields[0] != "EVT" {
		return Event{}, fmt.Errorf("not a trace line: %q", line)
	}

	e := Event{Kind: fields[1]}
	for _, field := range fields[2:] {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return Event{}, fmt.Errorf("malformed field %q in %q", field, line)
		}
		switch key {
		case "unit":
			unit, err := strconv.ParseUint(value, 10, 8)
			if err != nil {
				return Event{}, fmt.Errorf("bad unit in %q: %w", line, err)
			}
			e.Unit = uint8(unit)
		case "t":
			ticks, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return Event{}, fmt.Errorf("bad ticks in %q: %w", line, err)
			}
			e.Ticks = ticks
		default:
			return Event{}, fmt.Errorf("unknown field %q in %q", key, line)
		}
	}
	return e, nil
}

// Stream reads lines from r and calls fn for every parsed event. Lines
// that are not trace lines (firmware boot noise, debug prints) are
// skipped silently; a malformed trace line is skipped as well rather
// than aborting a long monitoring session.
func Stream(r io.Reader, fn func(Event)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "EVT ") {
			continue
		}
		e, err := ParseLine(line)
		if err != nil {
			continue
		}
		fn(e)
	}
	return scanner.Err()
}
