package audio

import "github.com/blaubaer/call-audio-button/pkg/common"

func NewSelectors() Selectors {
	return Selectors{
		common.MustNewRegexp(`(?i)speaker|lautsprecher`),
		common.MustNewRegexp(`(?i)handset|earpiece|headphone|headset`),
		common.MustNewRegexp(`(?i)bluetooth|bluez|hands-free`),
	}
}

// Selectors tell which endpoint stands for which route. They are matched
// against the name and the description of an endpoint.
type Selectors struct {
	Speaker   common.Regexp `yaml:"speaker,omitempty"`
	Handset   common.Regexp `yaml:"handset,omitempty"`
	Bluetooth common.Regexp `yaml:"bluetooth,omitempty"`
}

func (this *Selectors) SetupConfiguration(using common.FlagHolder) {
	common.Flag(using, "endpoints.speaker", "Regex of the audio output which is the speakerphone.").
		SetValue(&this.Speaker)
	common.Flag(using, "endpoints.handset", "Regex of the audio output which is used as handset/earpiece.").
		SetValue(&this.Handset)
	common.Flag(using, "endpoints.bluetooth", "Regex of audio outputs which are bluetooth peripherals. Only used if BlueZ is not available.").
		SetValue(&this.Bluetooth)
}

// IsBluetooth reports whether the device is a bluetooth endpoint, either
// reported so by the audio system or by its name.
func (this Selectors) IsBluetooth(d Device) bool {
	return d.Bluetooth || d.Matches(this.Bluetooth)
}

// IsSpeaker reports whether the device is the speakerphone.
func (this Selectors) IsSpeaker(d Device) bool {
	return !this.IsBluetooth(d) && d.Matches(this.Speaker)
}

// IsHandset reports whether the device is the handset/earpiece.
func (this Selectors) IsHandset(d Device) bool {
	return !this.IsBluetooth(d) && d.Matches(this.Handset)
}
