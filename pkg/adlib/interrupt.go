package adlib

import "sync"

// ServiceRoutine is one handler on a (possibly shared) interrupt line. It
// returns true if its device raised the interrupt, false to let the next
// routine in the chain have a look.
type ServiceRoutine func() bool

// InterruptSync is the serialization domain associated with one interrupt
// line. The bank-select latch on base+2 is a single piece of hardware state
// with no locking of its own, so everything that touches the shared port
// pair (arbitrated register writes, the ISR's status probe, the EEPROM
// sequences) must run exclusively with respect to the interrupt. Ordinary
// call context submits such work through CallSynchronized rather than
// taking a lock of its own.
type InterruptSync struct {
	mu       sync.Mutex
	routines []ServiceRoutine
}

func NewInterruptSync() *InterruptSync {
	return &InterruptSync{}
}

// RegisterServiceRoutine appends a routine to the chain run on each
// assertion of the line.
func (s *InterruptSync) RegisterServiceRoutine(routine ServiceRoutine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routines = append(s.routines, routine)
}

// Assert services one assertion of the interrupt line: each registered
// routine runs in order until one claims the interrupt. Returns false if no
// routine claimed it, so a platform sharing the line can try the next
// device. Assertions are single-flight; a concurrent CallSynchronized
// completes before or after the service pass, never during it.
func (s *InterruptSync) Assert() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, routine := range s.routines {
		if routine() {
			return true
		}
	}
	return false
}

// CallSynchronized runs fn exclusively with respect to the interrupt. Must
// not be called from inside a service routine.
func (s *InterruptSync) CallSynchronized(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// SetWaveHandler registers the sampling/digital-audio consumer callback, or
// clears it when fn is nil. The handler runs in interrupt context: it must
// not block, and must not submit work back into the sync domain.
func (a *Adapter) SetWaveHandler(fn func()) {
	a.sync.CallSynchronized(func() {
		a.waveHandler = fn
	})
}

// SetMIDIHandler registers the MIDI consumer callback, or clears it when fn
// is nil. Same interrupt-context rules as SetWaveHandler.
func (a *Adapter) SetMIDIHandler(fn func()) {
	a.sync.CallSynchronized(func() {
		a.midiHandler = fn
	})
}

// serviceInterrupt is the card's interrupt service routine. It runs inside
// the sync domain and must not block or allocate.
//
// The Control Chip status register doubles as the bank-select port, so
// determining the interrupt source takes a full bank round trip on every
// invocation: force the Control Chip bank, read the status byte, force the
// OPL3 bank back. The four source bits are active low.
func (a *Adapter) serviceInterrupt() bool {
	a.ports.Write8(portFM1Addr, bankControl)
	status := a.ports.Read8(portFM1Addr)
	a.ports.Write8(portFM1Addr, bankOPL3)

	// All source bits inactive: the line is shared and somebody else
	// raised it.
	if status&statusIRQMask == statusIRQMask {
		return false
	}

	if status&statusSmpIRQ == 0 {
		// Read the MMA status exactly once. The request bits auto-clear on
		// read, so this single byte has to serve both the wave (PRQ) and
		// MIDI (RRQ) consumers.
		mmaStatus := a.ports.Read8(portMMA0Addr)

		// The wave consumer is invoked whenever the sampling source fired
		// and decides for itself whether it has work to do. The MIDI
		// consumer is gated on receive-ready.
		if a.waveHandler != nil {
			a.waveHandler()
		}

		if mmaStatus&mmaStatusRRQ != 0 && a.midiHandler != nil {
			a.midiHandler()
		}
	}

	if status&statusFMIRQ == 0 {
		// Read the OPL3 status register to acknowledge the timer. No
		// consumer is attached to this source.
		a.ports.Read8(portFM0Addr)
	}

	return true
}
