package adlib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatchWithAllSourcesInactiveIsNotMine(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	waveCalls := 0
	adapter.SetWaveHandler(func() { waveCalls++ })

	require.False(t, adapter.Sync().Assert())
	require.Equal(t, 0, waveCalls)
}

func TestSamplingIRQInvokesWaveConsumerExactlyOnce(t *testing.T) {
	adapter, card := newTestAdapter(t)

	waveCalls := 0
	adapter.SetWaveHandler(func() { waveCalls++ })

	// MIDI receive-ready is also pending, but no MIDI consumer is
	// registered; the wave consumer must still run exactly once.
	card.RaiseSamplingIRQ(mmaStatusPRQ | mmaStatusRRQ)

	require.True(t, adapter.Sync().Assert())
	require.Equal(t, 1, waveCalls)
}

func TestWaveConsumerNotGatedOnPlaybackRequest(t *testing.T) {
	adapter, card := newTestAdapter(t)

	waveCalls := 0
	adapter.SetWaveHandler(func() { waveCalls++ })

	// Sampling source pending without a playback request: the wave
	// consumer is invoked regardless and self-checks for work.
	card.RaiseSamplingIRQ(0)

	require.True(t, adapter.Sync().Assert())
	require.Equal(t, 1, waveCalls)
}

func TestMIDIConsumerGatedOnReceiveReady(t *testing.T) {
	adapter, card := newTestAdapter(t)

	midiCalls := 0
	adapter.SetMIDIHandler(func() { midiCalls++ })

	card.RaiseSamplingIRQ(mmaStatusPRQ)
	require.True(t, adapter.Sync().Assert())
	require.Equal(t, 0, midiCalls, "no receive-ready flag, no MIDI dispatch")

	card.RaiseSamplingIRQ(mmaStatusPRQ | mmaStatusRRQ)
	require.True(t, adapter.Sync().Assert())
	require.Equal(t, 1, midiCalls)
}

func TestDispatchReadsMMAStatusExactlyOnce(t *testing.T) {
	adapter, card := newTestAdapter(t)

	var midiSawReceiveReady bool
	adapter.SetMIDIHandler(func() { midiSawReceiveReady = true })

	card.RaiseSamplingIRQ(mmaStatusRRQ)
	require.True(t, adapter.Sync().Assert())

	// The single status read auto-cleared all request bits, yet the MIDI
	// consumer was still dispatched from that one read.
	require.True(t, midiSawReceiveReady)
	require.Equal(t, uint8(0), card.mmaStatus)
}

func TestFMTimerIRQAcknowledgedWithoutConsumer(t *testing.T) {
	adapter, card := newTestAdapter(t)

	card.RaiseFMTimerIRQ()
	require.True(t, adapter.Sync().Assert())

	require.Equal(t, uint8(0), card.fmStatus, "OPL3 status read acknowledges the timer")
	require.False(t, card.LineAsserted())
}

func TestDispatchRestoresOPL3Bank(t *testing.T) {
	adapter, card := newTestAdapter(t)

	card.RaiseSamplingIRQ(mmaStatusPRQ)
	adapter.Sync().Assert()

	require.Equal(t, bankOPL3, card.bank)
}

func TestNotMineFallsThroughToNextRoutineInChain(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	// Another device shares the line and claims anything we decline.
	otherClaims := 0
	adapter.Sync().RegisterServiceRoutine(func() bool {
		otherClaims++
		return true
	})

	require.True(t, adapter.Sync().Assert())
	require.Equal(t, 1, otherClaims)
}

func TestClearedHandlerIsNotInvoked(t *testing.T) {
	adapter, card := newTestAdapter(t)

	waveCalls := 0
	adapter.SetWaveHandler(func() { waveCalls++ })
	adapter.SetWaveHandler(nil)

	card.RaiseSamplingIRQ(mmaStatusPRQ)
	require.True(t, adapter.Sync().Assert())
	require.Equal(t, 0, waveCalls)
}
