package adlib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEEPROMSaveRestoreRoundTrip(t *testing.T) {
	adapter, card := newTestAdapter(t)

	adapter.ControlRegWrite(RegBass, 0xF9)
	adapter.ControlRegWrite(RegMasterVolL, 0xD2)
	require.NoError(t, adapter.SaveToEEPROM())

	// Overwrite the saved state, then restore.
	adapter.ControlRegWrite(RegBass, 0xF2)
	adapter.ControlRegWrite(RegMasterVolL, 0xFF)
	require.NoError(t, adapter.RestoreFromEEPROM())

	require.Equal(t, uint8(0xF9), adapter.ControlRegRead(RegBass))
	require.Equal(t, uint8(0xD2), adapter.ControlRegRead(RegMasterVolL))

	// The shadow cache now matches a full hardware readback, for every
	// register index.
	for reg := byte(0); reg < RegCount; reg++ {
		require.Equal(t, card.ctrl[reg], adapter.ControlRegRead(reg), "register %#02x", reg)
	}

	require.Equal(t, bankOPL3, card.bank)
}

func TestEEPROMRestoreRefreshesCachedIdentity(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	require.NoError(t, adapter.SaveToEEPROM())
	require.NoError(t, adapter.RestoreFromEEPROM())

	require.Equal(t, ModelGold2000, adapter.CardModel())
	require.Equal(t, ModelGold2000, adapter.CardOptions()&0x0F)
}

func TestEEPROMOperationsRequireOperativePower(t *testing.T) {
	adapter, card := newTestAdapter(t)
	adapter.PowerChangeState(PowerOff)
	card.clearWrites()

	require.Equal(t, ErrPoweredOff, adapter.SaveToEEPROM())
	require.Equal(t, ErrPoweredOff, adapter.RestoreFromEEPROM())
	require.Empty(t, card.writes)
}

func TestEEPROMSaveAllowedInStandby1(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	adapter.PowerChangeState(PowerStandby1)

	require.NoError(t, adapter.SaveToEEPROM())
}
