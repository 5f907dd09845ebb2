package adlib

// PortIO is the 8-port I/O window of the Ad Lib Gold card (default base 388h).
//
// Offsets are relative to the I/O base:
//
//	base+0  FM Bank 0 Address   (OPL3 array 0 register select; read = OPL3 status)
//	base+1  FM Bank 0 Data      (OPL3 array 0 data write)
//	base+2  FM Bank 1 Address / Control Chip Address (bank-switched)
//	base+3  FM Bank 1 Data    / Control Chip Data    (bank-switched)
//	base+4  MMA Channel 0 Address  (YMZ263; read = MMA status)
//	base+5  MMA Channel 0 Data     (YMZ263)
//	base+6  MMA Channel 1 Address  (YMZ263)
//	base+7  MMA Channel 1 Data     (YMZ263)
type PortIO interface {
	Read8(offset uint8) byte
	Write8(offset uint8, v byte)
}

const (
	portFM0Addr  uint8 = 0x00
	portFM0Data  uint8 = 0x01
	portFM1Addr  uint8 = 0x02
	portFM1Data  uint8 = 0x03
	portMMA0Addr uint8 = 0x04
	portMMA0Data uint8 = 0x05
	portMMA1Addr uint8 = 0x06
	portMMA1Data uint8 = 0x07
)

// Bank-select sentinels. Writing these to base+2 switches the base+2/3 port
// pair between the Control Chip register bank and OPL3 array 1. Outside of an
// in-progress arbitrated access the pair always rests on the OPL3 bank, so
// the FM code never has to care about bank state.
const (
	bankControl byte = 0xFF
	bankOPL3    byte = 0xFE
)

// Status register bits, read from base+2 while the Control Chip bank is
// selected.
//
// Bit 7 - RB: Register Busy (EEPROM operation in progress)
// Bit 6 - SB: Soft Busy (register write in progress)
// Bit 3 - SCSI interrupt    (ACTIVE LOW: 0 = pending)
// Bit 2 - Telephone interrupt
// Bit 1 - Sampling/MMA interrupt
// Bit 0 - FM/OPL3 timer interrupt
const (
	statusRB       byte = 0x80
	statusSB       byte = 0x40
	statusBusyMask byte = statusRB | statusSB

	statusSCSIIRQ byte = 0x08
	statusTelIRQ  byte = 0x04
	statusSmpIRQ  byte = 0x02
	statusFMIRQ   byte = 0x01
	statusIRQMask byte = 0x0F
)

// MMA status register bits, read from base+4. All request bits auto-clear on
// read, so the ISR must read the status exactly once per invocation.
const (
	mmaStatusTRQ byte = 0x01 // Timer interrupt request
	mmaStatusPRQ byte = 0x02 // Playback FIFO request
	mmaStatusRRQ byte = 0x04 // MIDI receive data ready
)
