package adlib

import (
	"log"
	"time"

	"github.com/pkg/errors"
)

// busyPollBudget is the maximum number of status reads spent waiting for the
// SB/RB busy bits to clear before giving up.
const busyPollBudget = 1000

// Settle delays mandated by the Control Chip. Registers 0x04-0x08 take
// ~450us and expose completion through the SB bit instead of a fixed wait.
const (
	stallToneReg    = 5 * time.Microsecond
	stallOPL3       = 23 * time.Microsecond
	stallMMA        = 1 * time.Microsecond
	stallEEPROMLoad = 2500 * time.Microsecond
)

// Adapter owns all access to the card: the bank-switching arbitration for
// the shared base+2/3 port pair, the shadow cache of every Control Chip
// register, power state gating, and the interrupt service routine.
//
// All reads of Control Chip registers are served from the shadow cache. The
// analog control registers are effectively write-only on this chipset, so
// the cache is the only authoritative source; it is kept consistent by
// updating it on every write (whether or not the hardware write happened)
// and by resynchronizing it after an EEPROM restore.
type Adapter struct {
	ports    PortIO
	sync     *InterruptSync
	settings Settings

	powerState  PowerState
	controlRegs [RegCount]byte

	cardModel   byte
	cardOptions byte

	// Weak back-references to the wave and MIDI consumers. Set and cleared
	// under the interrupt sync domain so a dispatch never races a teardown.
	waveHandler func()
	midiHandler func()

	// stall busy-waits for a hardware settle delay. Replaceable in tests.
	stall func(d time.Duration)
}

// NewAdapter creates an adapter for the card behind ports. The settings
// store provides persisted mixer defaults and may be nil, in which case
// ControlRegReset falls back to the hardcoded default table.
//
// Call Init before any register access.
func NewAdapter(ports PortIO, settings Settings) *Adapter {
	return &Adapter{
		ports:      ports,
		sync:       NewInterruptSync(),
		settings:   settings,
		powerState: PowerFull,
		stall:      time.Sleep,
	}
}

// Init probes the card, hooks the interrupt service routine into the sync
// domain, and initializes the mixer registers.
//
// Detection reads the model identifier from Control Chip register 0: select
// the Control Chip bank, wait for the busy bits to clear, latch register
// index 0, read the identity byte, and restore the OPL3 bank. A busy timeout
// here, unlike anywhere else, is fatal: it means nothing at the probed I/O
// base is answering the handshake.
func (a *Adapter) Init() error {
	a.ports.Write8(portFM1Addr, bankControl)

	if !a.waitForReady() {
		return errors.New("card not responding (busy timeout)")
	}

	a.ports.Write8(portFM1Addr, RegControlID)
	idByte := a.ports.Read8(portFM1Data)
	a.ports.Write8(portFM1Addr, bankOPL3)

	a.cardModel = idByte & ctrlIDModelMask
	a.cardOptions = idByte
	a.controlRegs[RegControlID] = idByte

	if a.cardModel > ModelGold2000MC {
		return errors.Errorf("unknown card model %#02x", a.cardModel)
	}

	log.Printf("detected Ad Lib Gold model %d (tel=%t sur=%t scsi=%t)",
		a.cardModel,
		a.cardOptions&OptionTelephone == 0,
		a.cardOptions&OptionSurround == 0,
		a.cardOptions&OptionSCSI == 0)

	a.sync.RegisterServiceRoutine(a.serviceInterrupt)

	a.ControlRegReset()

	return nil
}

// Sync returns the interrupt serialization domain for this card. The
// platform asserts the interrupt line through it, and collaborators may
// submit their own bus-touching work with CallSynchronized.
func (a *Adapter) Sync() *InterruptSync {
	return a.sync
}

// CardModel returns the detected model identifier.
func (a *Adapter) CardModel() byte {
	return a.cardModel
}

// CardOptions returns the raw identity byte, including the active-low
// option flags.
func (a *Adapter) CardOptions() byte {
	return a.cardOptions
}

// waitForReady polls the SB and RB status bits until both clear. Must be
// called with the Control Chip bank enabled. Returns false if the polling
// budget ran out before the busy bits cleared.
func (a *Adapter) waitForReady() bool {
	for i := 0; i < busyPollBudget; i++ {
		if a.ports.Read8(portFM1Addr)&statusBusyMask == 0 {
			return true
		}
	}
	return false
}

// ControlRegWrite writes a value to a Control Chip register.
//
// The full arbitration sequence runs inside the interrupt sync domain:
// select the Control Chip bank, poll SB/RB until ready, latch the register
// index, write the data, apply the register-dependent settle delay, and
// restore the OPL3 bank. The shadow cache is updated unconditionally, even
// when the power state gates off the hardware access.
//
// The reserved register 0x12 always writes and caches as zero.
func (a *Adapter) ControlRegWrite(reg byte, value byte) {
	a.sync.CallSynchronized(func() {
		a.controlRegWrite(reg, value)
	})
}

// controlRegWrite is ControlRegWrite's body. It must run inside the sync
// domain; callers already holding the domain (the power resume replay)
// use it directly.
func (a *Adapter) controlRegWrite(reg byte, value byte) {
	if reg == RegReserved {
		value = 0
	}

	if a.powerState.Operative() {
		a.ports.Write8(portFM1Addr, bankControl)

		if !a.waitForReady() {
			log.Printf("control reg %#02x write: busy timeout, proceeding", reg)
		}

		a.ports.Write8(portFM1Addr, reg)
		a.ports.Write8(portFM1Data, value)

		switch {
		case reg >= 0x04 && reg <= 0x08:
			// ~450us settle, completion visible through SB
			a.waitForReady()
		case reg >= 0x09 && reg <= 0x16:
			a.stall(stallToneReg)
		}

		a.ports.Write8(portFM1Addr, bankOPL3)
	}

	if reg < RegCount {
		a.controlRegs[reg] = value
	}
}

// ControlRegRead returns a Control Chip register value from the shadow
// cache. No hardware round trip happens; see the Adapter doc comment.
func (a *Adapter) ControlRegRead(reg byte) byte {
	if reg < RegCount {
		return a.controlRegs[reg]
	}
	return 0
}

// WriteOPL3 writes to an OPL3 register.
//
// Addresses below 0x100 go to array 0 on the unshared base+0/1 ports and
// need no bank coordination. Addresses 0x100 and up go to array 1 on the
// shared base+2/3 ports: the OPL3 bank is forced first (a caller must not
// assume bank state) and the write runs inside the sync domain.
func (a *Adapter) WriteOPL3(address uint16, data byte) {
	if !a.powerState.Operative() {
		return
	}

	if address < 0x100 {
		a.ports.Write8(portFM0Addr, byte(address))
		a.stall(stallOPL3)
		a.ports.Write8(portFM0Data, data)
		a.stall(stallOPL3)
		return
	}

	a.sync.CallSynchronized(func() {
		a.ports.Write8(portFM1Addr, bankOPL3)
		a.ports.Write8(portFM1Addr, byte(address&0xFF))
		a.stall(stallOPL3)
		a.ports.Write8(portFM1Data, data)
		a.stall(stallOPL3)
	})
}

// WriteMMA writes to a YMZ263 MMA register on channel 0. The MMA ports are
// not bank-switched, so no arbitration is involved.
func (a *Adapter) WriteMMA(reg byte, value byte) {
	if !a.powerState.Operative() {
		return
	}

	a.ports.Write8(portMMA0Addr, reg)
	a.stall(stallMMA)
	a.ports.Write8(portMMA0Data, value)
	a.stall(stallMMA)
}

// ReadMMA reads a YMZ263 MMA register on channel 0. Returns 0 when the
// device is powered down.
func (a *Adapter) ReadMMA(reg byte) byte {
	if !a.powerState.Operative() {
		return 0
	}

	a.ports.Write8(portMMA0Addr, reg)
	a.stall(stallMMA)
	return a.ports.Read8(portMMA0Data)
}
