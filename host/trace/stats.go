package trace

import "fmt"

// Stats accumulates cadence statistics over alarm_fire events. The demo
// firmware re-arms its beacon alarm at a fixed tick interval, so the
// deviation of the observed fire-to-fire distance from that interval
// measures scheduling jitter end to end.
type Stats struct {
	interval uint64 // expected ticks between fires

	lastSet  uint64 // most recent alarm_set deadline
	haveSet  bool
	lastFire uint64
	haveFire bool

	Fires    int
	MinDelta uint64
	MaxDelta uint64
	sumDelta uint64

	// MaxLate is the worst observed firing lateness: fire time minus
	// the deadline from the preceding alarm_set.
	MaxLate uint64
}

// NewStats returns a Stats expecting the given fire interval in ticks.
func NewStats(interval uint64) *Stats {
	return &Stats{interval: interval}
}

// Observe feeds one event into the statistics. Events other than
// alarm_set and alarm_fire are ignored.
func (s *Stats) Observe(e Event) {
	switch e.Kind {
	case "alarm_set":
		s.lastSet = e.Ticks
		s.haveSet = true
	case "alarm_fire":
		if s.haveSet && e.Ticks >= s.lastSet {
			if late := e.Ticks - s.lastSet; late > s.MaxLate {
				s.MaxLate = late
			}
		}
		if s.haveFire {
			delta := e.Ticks - s.lastFire
			if s.Fires == 1 || delta < s.MinDelta {
				s.MinDelta = delta
			}
			if delta > s.MaxDelta {
				s.MaxDelta = delta
			}
			s.sumDelta += delta
		}
		s.lastFire = e.Ticks
		s.haveFire = true
		s.Fires++
	}
}

// MeanDelta returns the mean fire-to-fire distance in ticks, or 0 if
// fewer than two fires were observed.
func (s *Stats) MeanDelta() float64 {
	if s.Fires < 2 {
		return 0
	}
	return float64(s.sumDelta) / float64(s.Fires-1)
}

// Summary formats a one-line report.
func (s *Stats) Summary() string {
	if s.Fires < 2 {
		return fmt.Sprintf("fires=%d (not enough for cadence stats)", s.Fires)
	}
	return fmt.Sprintf("fires=%d interval: want=%d min=%d max=%d mean=%.1f max_late=%d",
		s.Fires, s.interval, s.MinDelta, s.MaxDelta, s.MeanDelta(), s.MaxLate)
}
