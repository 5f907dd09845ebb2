package adlib

// Control Chip register indices (0x00 through 0x18).
const (
	// Control/ID register
	//
	// Write: Bit 1 saves all registers to the on-card EEPROM, Bit 0 restores
	// them. Read: Bits 3-0 are the model identifier, Bits 7-5 are active-low
	// option flags (SCSI, surround, telephone).
	RegControlID byte = 0x00

	RegTelephone byte = 0x01 // Telephone control
	RegGainL     byte = 0x02 // Sampling gain, left channel
	RegGainR     byte = 0x03 // Sampling gain, right channel

	RegMasterVolL byte = 0x04 // Final output volume, left
	RegMasterVolR byte = 0x05 // Final output volume, right
	RegBass       byte = 0x06 // Bass tone control
	RegTreble     byte = 0x07 // Treble tone control

	// Output mode register
	//
	// Bit 7-6 - Must be written as 1
	// Bit 5   - Mute
	// Bit 3-2 - Stereo mode (00 mono, 01 linear, 10 pseudo, 11 spatial)
	// Bit 1-0 - Source select
	RegOutputMode byte = 0x08

	RegFMVolL   byte = 0x09 // FM synth volume, left
	RegFMVolR   byte = 0x0A // FM synth volume, right
	RegSampVolL byte = 0x0B // Sampling volume, left
	RegSampVolR byte = 0x0C // Sampling volume, right
	RegAuxVolL  byte = 0x0D // Aux input volume, left
	RegAuxVolR  byte = 0x0E // Aux input volume, right
	RegMicVol   byte = 0x0F // Microphone volume (mono)

	RegTelVol     byte = 0x10 // Telephone volume
	RegAudioSel   byte = 0x11 // Filters, PC speaker, mic feedback
	RegReserved   byte = 0x12 // Reserved, must always be 0
	RegIRQDMA0    byte = 0x13 // IRQ select + DMA channel 0
	RegDMA1       byte = 0x14 // DMA channel 1
	RegAudioReloc byte = 0x15 // Audio section I/O relocation
	RegSCSIIRQDMA byte = 0x16 // SCSI IRQ/DMA select
	RegSCSIReloc  byte = 0x17 // SCSI section I/O relocation
	RegSurround   byte = 0x18 // Surround sound module (YM7128)

	// RegCount is the total number of Control Chip registers.
	RegCount byte = 0x19
)

// Mixer range replayed from the shadow cache when the device returns to full
// power. Registers 0x04 through 0x0F cover all volume/tone/mode controls.
const (
	regMixerFirst = RegMasterVolL
	regMixerLast  = RegMicVol
)

// Control/ID register (0x00) bit definitions.
const (
	ctrlIDSave    byte = 0x02 // Write bit 1: save registers to EEPROM
	ctrlIDRestore byte = 0x01 // Write bit 0: restore registers from EEPROM

	ctrlIDModelMask byte = 0x0F // Read bits 3-0: model identifier

	// Option bits are active low: 0 = feature present.
	OptionTelephone byte = 0x20
	OptionSurround  byte = 0x40
	OptionSCSI      byte = 0x80
)

// Recognized model identifiers. Anything above ModelGold2000MC means the
// hardware at the probed I/O base is not an Ad Lib Gold.
const (
	ModelGold1000   byte = 0x00
	ModelGold2000   byte = 0x01
	ModelGold2000MC byte = 0x02
)

// Bass/treble register (0x06/0x07) layout: bits 7-4 must be written as 1,
// bits 3-0 hold the tone nibble. Nibble 0x6 is 0 dB (flat), each step is
// 3 dB.
const (
	toneForcedBits byte = 0xF0
	toneMask       byte = 0x0F
)

// Tone control ranges in dB.
const (
	BassMinDB   = -12
	BassMaxDB   = 15
	TrebleMinDB = -12
	TrebleMaxDB = 12
)

// toneRange returns the dB range of a tone control register. The bass
// control reaches +15 dB, treble stops at +12 dB.
func toneRange(reg byte) (min, max int) {
	if reg == RegBass {
		return BassMinDB, BassMaxDB
	}
	return TrebleMinDB, TrebleMaxDB
}

// ToneToDecibels decodes a bass/treble register value to decibels, clamped
// to the register's range.
func ToneToDecibels(reg byte, regVal byte) int {
	db := (int(regVal&toneMask) - 6) * 3

	min, max := toneRange(reg)
	if db < min {
		db = min
	}
	if db > max {
		db = max
	}
	return db
}

// DecibelsToTone encodes a dB value as a bass/treble register value,
// including the forced upper bits. The dB value is clamped to the
// register's range before nibble conversion.
func DecibelsToTone(reg byte, db int) byte {
	min, max := toneRange(reg)
	if db < min {
		db = min
	}
	if db > max {
		db = max
	}

	nibble := db/3 + 6
	if nibble < 0 {
		nibble = 0
	}
	if nibble > 0xF {
		nibble = 0xF
	}
	return toneForcedBits | byte(nibble)
}
