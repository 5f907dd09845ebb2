package adlib

import "log"

// PowerState is the device power level, ordered by increasing power
// savings. Register writes only touch hardware while the state is Full or
// Standby1; below that they land in the shadow cache only.
type PowerState int

const (
	PowerFull PowerState = iota
	PowerStandby1
	PowerStandby2
	PowerOff
)

var powerStateNames = map[PowerState]string{
	PowerFull:     "D0",
	PowerStandby1: "D1",
	PowerStandby2: "D2",
	PowerOff:      "D3",
}

func (p PowerState) String() string {
	name, ok := powerStateNames[p]
	if !ok {
		return "unknown"
	}
	return name
}

// Operative reports whether register access may touch hardware in this
// state.
func (p PowerState) Operative() bool {
	return p <= PowerStandby1
}

// PowerChangeState moves the device to a new power state. Invoked by the
// platform's power management, never by consumers.
//
// Entering full power replays the mixer range of the shadow cache back to
// hardware: the state is flipped first so the register writes below
// actually reach the card. The cache always holds the logically intended
// values no matter how many transitions happened while powered down, so
// this single replay is sufficient. Every other transition just records
// the state; the power gate in ControlRegWrite keeps hardware untouched
// from then on.
//
// The state flip and replay run as one unit of work in the interrupt sync
// domain, so a transition never interleaves with the ISR or an in-flight
// register write.
func (a *Adapter) PowerChangeState(newState PowerState) {
	a.sync.CallSynchronized(func() {
		if newState == a.powerState {
			return
		}

		switch newState {
		case PowerFull:
			a.powerState = newState
			for reg := regMixerFirst; reg <= regMixerLast; reg++ {
				a.controlRegWrite(reg, a.controlRegs[reg])
			}
			log.Printf("power state %s: mixer registers restored", newState)

		case PowerStandby1, PowerStandby2, PowerOff:
			a.powerState = newState
			log.Printf("power state %s", newState)

		default:
			log.Printf("ignoring unknown power state %d", newState)
		}
	})
}

// PowerState returns the current device power state.
func (a *Adapter) PowerState() PowerState {
	return a.powerState
}
