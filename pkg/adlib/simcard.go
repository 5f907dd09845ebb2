package adlib

// SimCard simulates an Ad Lib Gold at the port level: the base+2/3 bank
// latch, the Control Chip register file with its busy handshake, the
// EEPROM, and the MMA and OPL3 status registers with their clear-on-read
// behavior. It backs the package tests and the demo CLI; nothing in the
// adapter knows whether it is talking to this or to a real port window.
type SimCard struct {
	// bank is the sentinel most recently latched on base+2, selecting what
	// the base+2/3 pair currently addresses.
	bank byte

	ctrlIndex byte
	ctrl      [RegCount]byte
	eeprom    [RegCount]byte

	// busyReads is the number of upcoming status reads that still report
	// the SB/RB busy bits, modelling settle and EEPROM-save time. When
	// stuckBusy is set the busy bits never clear (a dead or absent card).
	busyReads int
	stuckBusy bool

	// irqStatus is the active-low interrupt source nibble reported in the
	// Control Chip status byte. 0x0F means no source pending.
	irqStatus byte

	opl3Index [2]byte
	opl3      [2][256]byte
	fmStatus  byte

	mmaIndex  byte
	mma       [32]byte
	mmaStatus byte

	// writes records every port write in order, for assertions on
	// arbitration sequences.
	writes []portWrite
}

type portWrite struct {
	offset uint8
	value  byte
}

// NewSimCard creates a simulated card whose Control Chip register 0 reads
// back the given identity byte (model in bits 3-0, active-low option flags
// in bits 7-5).
func NewSimCard(id byte) *SimCard {
	c := &SimCard{
		bank:      bankOPL3,
		irqStatus: statusIRQMask,
	}
	c.ctrl[RegControlID] = id
	c.eeprom[RegControlID] = id
	return c
}

func (c *SimCard) Read8(offset uint8) byte {
	switch offset {
	case portFM0Addr:
		// OPL3 status; reading acknowledges the timer interrupt
		st := c.fmStatus
		c.fmStatus = 0
		c.irqStatus |= statusFMIRQ
		return st

	case portFM1Addr:
		if c.bank != bankControl {
			return 0
		}
		var busy byte
		if c.stuckBusy {
			busy = statusBusyMask
		} else if c.busyReads > 0 {
			c.busyReads--
			busy = statusSB
		}
		return busy | c.irqStatus

	case portFM1Data:
		if c.bank == bankControl {
			return c.ctrl[c.ctrlIndex%RegCount]
		}
		return 0

	case portMMA0Addr:
		// MMA status; all request bits auto-clear on read
		st := c.mmaStatus
		c.mmaStatus = 0
		c.irqStatus |= statusSmpIRQ
		return st

	case portMMA0Data:
		return c.mma[c.mmaIndex%byte(len(c.mma))]
	}

	return 0
}

func (c *SimCard) Write8(offset uint8, v byte) {
	c.writes = append(c.writes, portWrite{offset, v})

	switch offset {
	case portFM0Addr:
		c.opl3Index[0] = v

	case portFM0Data:
		c.opl3[0][c.opl3Index[0]] = v

	case portFM1Addr:
		switch {
		case v == bankControl || v == bankOPL3:
			c.bank = v
		case c.bank == bankControl:
			c.ctrlIndex = v
		default:
			c.opl3Index[1] = v
		}

	case portFM1Data:
		if c.bank != bankControl {
			c.opl3[1][c.opl3Index[1]] = v
			return
		}
		c.controlWrite(v)

	case portMMA0Addr:
		c.mmaIndex = v

	case portMMA0Data:
		c.mma[c.mmaIndex%byte(len(c.mma))] = v
	}
}

func (c *SimCard) controlWrite(v byte) {
	reg := c.ctrlIndex
	if reg >= RegCount {
		return
	}

	if reg == RegControlID {
		if v&ctrlIDSave != 0 {
			c.eeprom = c.ctrl
			c.busyReads = 3 // RB stays up while the save runs
		}
		if v&ctrlIDRestore != 0 {
			// Registers come back from EEPROM; the identity byte in
			// register 0 is wired to the model straps, not the EEPROM.
			id := c.ctrl[RegControlID]
			c.ctrl = c.eeprom
			c.ctrl[RegControlID] = id
		}
		return
	}

	c.ctrl[reg] = v
	if reg >= 0x04 && reg <= 0x08 {
		c.busyReads = 2 // ~450us settle visible through SB
	}
}

// RaiseSamplingIRQ asserts the sampling/MMA interrupt source with the given
// MMA request bits pending.
func (c *SimCard) RaiseSamplingIRQ(mmaRequests byte) {
	c.mmaStatus |= mmaRequests
	c.irqStatus &^= statusSmpIRQ
}

// RaiseFMTimerIRQ asserts the FM timer interrupt source.
func (c *SimCard) RaiseFMTimerIRQ() {
	c.fmStatus = 0xC0 // IRQ + timer 1 flags
	c.irqStatus &^= statusFMIRQ
}

// LineAsserted reports whether any interrupt source is currently pending
// (the sources are active low).
func (c *SimCard) LineAsserted() bool {
	return c.irqStatus&statusIRQMask != statusIRQMask
}

func (c *SimCard) clearWrites() {
	c.writes = nil
}
