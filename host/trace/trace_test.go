package trace_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"widetick/host/trace"
)

func TestParseLine(t *testing.T) {
	e, err := trace.ParseLine("EVT alarm_fire unit=1 t=65540")
	require.NoError(t, err)
	assert.Equal(t, "alarm_fire", e.Kind)
	assert.Equal(t, uint8(1), e.Unit)
	assert.Equal(t, uint64(65540), e.Ticks)
}

func TestParseLineRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"hello world",
		"EVT alarm_fire unit=1",
		"EVT alarm_fire unit=banana t=5",
		"EVT alarm_fire unit=1 t=banana",
		"EVT alarm_fire unit=1 x=5",
		"EVT alarm_fire unit=1 t",
	}
	for _, line := range bad {
		_, err := trace.ParseLine(line)
		assert.Error(t, err, "line %q", line)
	}
}

func TestStreamSkipsNoise(t *testing.T) {
	input := strings.Join([]string{
		"booting widetick demo",
		"EVT alarm_set unit=1 t=32768",
		"garbage EVT not really",
		"EVT alarm_fire unit=1 t=32768",
		"EVT alarm_fire unit=1 t=notanumber",
		"EVT period unit=1 t=8388608",
	}, "\n")

	var events []trace.Event
	err := trace.Stream(strings.NewReader(input), func(e trace.Event) {
		events = append(events, e)
	})
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, "alarm_set", events[0].Kind)
	assert.Equal(t, "alarm_fire", events[1].Kind)
	assert.Equal(t, "period", events[2].Kind)
}

func TestStatsCadence(t *testing.T) {
	s := trace.NewStats(100)

	feed := []trace.Event{
		{Kind: "alarm_set", Unit: 1, Ticks: 100},
		{Kind: "alarm_fire", Unit: 1, Ticks: 102}, // 2 late
		{Kind: "alarm_set", Unit: 1, Ticks: 200},
		{Kind: "alarm_fire", Unit: 1, Ticks: 200},
		{Kind: "alarm_set", Unit: 1, Ticks: 300},
		{Kind: "period", Unit: 1, Ticks: 8388608}, // ignored
		{Kind: "alarm_fire", Unit: 1, Ticks: 305}, // 5 late
	}
	for _, e := range feed {
		s.Observe(e)
	}

	assert.Equal(t, 3, s.Fires)
	assert.Equal(t, uint64(98), s.MinDelta)  // 200 - 102
	assert.Equal(t, uint64(105), s.MaxDelta) // 305 - 200
	assert.InDelta(t, 101.5, s.MeanDelta(), 0.001)
	assert.Equal(t, uint64(5), s.MaxLate)
}

func TestStatsSummaryWithFewFires(t *testing.T) {
	s := trace.NewStats(100)
	s.Observe(trace.Event{Kind: "alarm_fire", Ticks: 10})
	assert.Contains(t, s.Summary(), "fires=1")
}
