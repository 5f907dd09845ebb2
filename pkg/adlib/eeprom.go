package adlib

import "github.com/pkg/errors"

// ErrPoweredOff is returned by the EEPROM operations when the device is
// below an operative power state.
var ErrPoweredOff = errors.New("device powered off")

// SaveToEEPROM saves all Control Chip register values to the card's
// EEPROM. The hardware clears the RB busy bit itself when the save
// completes.
func (a *Adapter) SaveToEEPROM() error {
	if !a.powerState.Operative() {
		return ErrPoweredOff
	}

	a.sync.CallSynchronized(func() {
		a.ports.Write8(portFM1Addr, bankControl)
		a.waitForReady()

		a.ports.Write8(portFM1Addr, RegControlID)
		a.ports.Write8(portFM1Data, ctrlIDSave)

		// RB stays set until the save completes
		a.waitForReady()

		a.ports.Write8(portFM1Addr, bankOPL3)
	})

	return nil
}

// RestoreFromEEPROM restores all Control Chip register values from the
// card's EEPROM, then resynchronizes the shadow cache by reading every
// register back from hardware. This is the one place a Control Chip
// register is ever read from the bus; afterward the cached identity fields
// are refreshed from the re-read register 0.
//
// The restore takes ~2.5ms with no completion bit to poll, so this blocks
// for a fixed delay. Never call it from interrupt context.
func (a *Adapter) RestoreFromEEPROM() error {
	if !a.powerState.Operative() {
		return ErrPoweredOff
	}

	a.sync.CallSynchronized(func() {
		a.ports.Write8(portFM1Addr, bankControl)
		a.waitForReady()

		a.ports.Write8(portFM1Addr, RegControlID)
		a.ports.Write8(portFM1Data, ctrlIDRestore)

		a.stall(stallEEPROMLoad)
		a.waitForReady()

		for reg := byte(0); reg < RegCount; reg++ {
			a.ports.Write8(portFM1Addr, reg)
			a.controlRegs[reg] = a.ports.Read8(portFM1Data)
		}

		a.ports.Write8(portFM1Addr, bankOPL3)

		a.cardModel = a.controlRegs[RegControlID] & ctrlIDModelMask
		a.cardOptions = a.controlRegs[RegControlID]
	})

	return nil
}
