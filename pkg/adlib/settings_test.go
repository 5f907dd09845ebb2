package adlib

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResetUsesHardcodedDefaultsWithoutStore(t *testing.T) {
	adapter, card := newTestAdapter(t)

	// Init already ran ControlRegReset with a nil store.
	require.Equal(t, uint8(0xD8), adapter.ControlRegRead(RegMasterVolL))
	require.Equal(t, uint8(0xF6), adapter.ControlRegRead(RegBass))
	require.Equal(t, uint8(0xC4), adapter.ControlRegRead(RegOutputMode))
	require.Equal(t, uint8(0x80), adapter.ControlRegRead(RegMicVol))
	require.Equal(t, uint8(0), adapter.ControlRegRead(RegReserved))

	require.Equal(t, uint8(0xD8), card.ctrl[RegMasterVolL], "defaults reach hardware")
}

func TestResetPrefersStoredValues(t *testing.T) {
	card := NewSimCard(ModelGold2000)
	settings := MemorySettings{"Bass": 0xF2}

	adapter := NewAdapter(card, settings)
	adapter.stall = func(time.Duration) {}
	require.NoError(t, adapter.Init())

	require.Equal(t, uint8(0xF2), adapter.ControlRegRead(RegBass))
	require.Equal(t, uint8(0xF6), adapter.ControlRegRead(RegTreble), "missing keys fall back to defaults")
}

func TestSaveMixerSettingsStoresCachedValues(t *testing.T) {
	card := NewSimCard(ModelGold2000)
	settings := MemorySettings{}

	adapter := NewAdapter(card, settings)
	adapter.stall = func(time.Duration) {}
	require.NoError(t, adapter.Init())

	adapter.ControlRegWrite(RegBass, 0xF9)
	require.NoError(t, adapter.SaveMixerSettings())

	require.Equal(t, MemorySettings{
		"LeftMasterVol":  0xD8,
		"RightMasterVol": 0xD8,
		"Bass":           0xF9,
		"Treble":         0xF6,
		"OutputMode":     0xC4,
		"LeftFMVol":      0xC0,
		"RightFMVol":     0xC0,
		"LeftSampVol":    0xC0,
		"RightSampVol":   0xC0,
		"LeftAuxVol":     0xC0,
		"RightAuxVol":    0xC0,
		"MicVol":         0x80,
	}, settings)
}

func TestSaveMixerSettingsWithoutStoreFails(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	require.Error(t, adapter.SaveMixerSettings())
}

func TestFileSettingsRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "adlibgold")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "mixer.json")

	settings, err := OpenFileSettings(path)
	require.NoError(t, err)

	_, ok := settings.Load("Bass")
	require.False(t, ok)

	require.NoError(t, settings.Store("Bass", 0xF9))

	reopened, err := OpenFileSettings(path)
	require.NoError(t, err)

	v, ok := reopened.Load("Bass")
	require.True(t, ok)
	require.Equal(t, uint32(0xF9), v)
}

func TestFileSettingsRejectsCorruptFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "adlibgold")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "mixer.json")
	require.NoError(t, ioutil.WriteFile(path, []byte("not json"), 0644))

	_, err = OpenFileSettings(path)
	require.Error(t, err)
}
