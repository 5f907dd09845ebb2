package adlib

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"os"

	"github.com/pkg/errors"
)

// Settings is the external store for persisted mixer values, one uint32 per
// named control.
type Settings interface {
	// Load returns the stored value for name, and whether one was stored.
	Load(name string) (uint32, bool)

	// Store persists a value under name.
	Store(name string, v uint32) error
}

type mixerSetting struct {
	Name     string
	Register byte
	Default  byte
}

// defaultMixerSettings covers Control Chip registers 0x04-0x0F (all
// volume/tone/mode controls) with safe mid-range defaults.
var defaultMixerSettings = []mixerSetting{
	// Master volume ~-20dB with the forced upper bits set, tone controls
	// flat, linear stereo unmuted, source volumes mid-range, mic silent.
	{"LeftMasterVol", RegMasterVolL, 0xD8},
	{"RightMasterVol", RegMasterVolR, 0xD8},
	{"Bass", RegBass, 0xF6},
	{"Treble", RegTreble, 0xF6},
	{"OutputMode", RegOutputMode, 0xC4},
	{"LeftFMVol", RegFMVolL, 0xC0},
	{"RightFMVol", RegFMVolR, 0xC0},
	{"LeftSampVol", RegSampVolL, 0xC0},
	{"RightSampVol", RegSampVolR, 0xC0},
	{"LeftAuxVol", RegAuxVolL, 0xC0},
	{"RightAuxVol", RegAuxVolR, 0xC0},
	{"MicVol", RegMicVol, 0x80},
}

// ControlRegReset loads the mixer registers from the settings store, falling
// back to the hardcoded default for any missing value (or for everything if
// no store was provided), and zeroes the reserved register.
func (a *Adapter) ControlRegReset() {
	for _, s := range defaultMixerSettings {
		value := s.Default
		if a.settings != nil {
			if stored, ok := a.settings.Load(s.Name); ok {
				value = byte(stored)
			}
		}
		a.ControlRegWrite(s.Register, value)
	}

	a.ControlRegWrite(RegReserved, 0x00)
}

// SaveMixerSettings persists the current (cached) mixer register values to
// the settings store.
func (a *Adapter) SaveMixerSettings() error {
	if a.settings == nil {
		return errors.New("no settings store")
	}

	for _, s := range defaultMixerSettings {
		if err := a.settings.Store(s.Name, uint32(a.controlRegs[s.Register])); err != nil {
			return errors.Wrapf(err, "storing %s", s.Name)
		}
	}

	return nil
}

// MemorySettings is an in-memory Settings implementation.
type MemorySettings map[string]uint32

func (m MemorySettings) Load(name string) (uint32, bool) {
	v, ok := m[name]
	return v, ok
}

func (m MemorySettings) Store(name string, v uint32) error {
	m[name] = v
	return nil
}

// FileSettings persists settings as a JSON object in a single file. Values
// are written back to disk on every Store.
type FileSettings struct {
	path   string
	values map[string]uint32
}

// OpenFileSettings loads (or creates) a settings file at path.
func OpenFileSettings(path string) (*FileSettings, error) {
	f := &FileSettings{
		path:   path,
		values: map[string]uint32{},
	}

	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		log.Printf("no settings file at %s, starting empty", path)
		return f, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading settings file")
	}

	if err := json.Unmarshal(data, &f.values); err != nil {
		return nil, errors.Wrap(err, "parsing settings file")
	}

	return f, nil
}

func (f *FileSettings) Load(name string) (uint32, bool) {
	v, ok := f.values[name]
	return v, ok
}

func (f *FileSettings) Store(name string, v uint32) error {
	f.values[name] = v

	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding settings")
	}

	if err := ioutil.WriteFile(f.path, data, 0644); err != nil {
		return errors.Wrap(err, "writing settings file")
	}

	return nil
}
