package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/prometheus/common/log"

	"github.com/sema/adlibgold/pkg/adlib"
)

// The CLI runs the adapter core against the simulated card. It exists to
// exercise the arbitration, dispatch, and persistence paths end to end
// without hardware.

type probeCmd struct {
	ID uint8 `help:"Identity byte reported by the simulated card" default:"65"`
}

func (c *probeCmd) Run() error {
	card := adlib.NewSimCard(c.ID)

	adapter := adlib.NewAdapter(card, nil)
	if err := adapter.Init(); err != nil {
		return err
	}

	log.Infof("model: %d", adapter.CardModel())
	log.Infof("telephone: %t", adapter.CardOptions()&adlib.OptionTelephone == 0)
	log.Infof("surround:  %t", adapter.CardOptions()&adlib.OptionSurround == 0)
	log.Infof("scsi:      %t", adapter.CardOptions()&adlib.OptionSCSI == 0)
	return nil
}

type mixerCmd struct {
	Settings string `help:"Path to mixer settings file" type:"path" default:"mixer.json"`
	Bass     *int   `help:"Set bass in dB (-12..15, steps of 3)"`
	Treble   *int   `help:"Set treble in dB (-12..12, steps of 3)"`
	Save     bool   `help:"Persist the resulting mixer state"`
}

func (c *mixerCmd) Run() error {
	settings, err := adlib.OpenFileSettings(c.Settings)
	if err != nil {
		return err
	}

	adapter := adlib.NewAdapter(adlib.NewSimCard(adlib.ModelGold2000), settings)
	if err := adapter.Init(); err != nil {
		return err
	}

	if c.Bass != nil {
		adapter.ControlRegWrite(adlib.RegBass, adlib.DecibelsToTone(adlib.RegBass, *c.Bass))
	}
	if c.Treble != nil {
		adapter.ControlRegWrite(adlib.RegTreble, adlib.DecibelsToTone(adlib.RegTreble, *c.Treble))
	}

	for reg := adlib.RegMasterVolL; reg <= adlib.RegMicVol; reg++ {
		fmt.Printf("reg %#02x = %#02x\n", reg, adapter.ControlRegRead(reg))
	}
	fmt.Printf("bass   %+d dB\n", adlib.ToneToDecibels(adlib.RegBass, adapter.ControlRegRead(adlib.RegBass)))
	fmt.Printf("treble %+d dB\n", adlib.ToneToDecibels(adlib.RegTreble, adapter.ControlRegRead(adlib.RegTreble)))

	if c.Save {
		if err := adapter.SaveMixerSettings(); err != nil {
			return err
		}
		log.Infof("mixer settings saved to %s", c.Settings)
	}
	return nil
}

type irqCmd struct {
	MIDIReady bool `help:"Raise the sampling interrupt with MIDI receive data pending"`
}

func (c *irqCmd) Run() error {
	card := adlib.NewSimCard(adlib.ModelGold2000)

	adapter := adlib.NewAdapter(card, nil)
	if err := adapter.Init(); err != nil {
		return err
	}

	adapter.SetWaveHandler(func() { fmt.Println("wave consumer serviced") })
	adapter.SetMIDIHandler(func() { fmt.Println("midi consumer serviced") })

	requests := byte(0x02) // playback FIFO request
	if c.MIDIReady {
		requests |= 0x04 // MIDI receive data ready
	}
	card.RaiseSamplingIRQ(requests)

	if adapter.Sync().Assert() {
		fmt.Println("interrupt handled")
	} else {
		fmt.Println("not our interrupt")
	}
	return nil
}

var root struct {
	Probe probeCmd `cmd:"" help:"Probe the simulated card and report its identity"`
	Mixer mixerCmd `cmd:"" help:"Show or change mixer registers"`
	IRQ   irqCmd   `cmd:"" help:"Raise a simulated interrupt and dispatch it"`
}

func main() {
	cli := kong.Parse(&root)
	err := cli.Run()
	cli.FatalIfErrorf(err)
}
