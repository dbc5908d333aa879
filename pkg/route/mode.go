package route

import (
	"fmt"
	"strings"
)

// AudioMode is the audio route a call is played on.
type AudioMode uint8

const (
	// ModeDefault is the handset earpiece.
	ModeDefault   = AudioMode(0)
	ModeSpeaker   = AudioMode(1)
	ModeBluetooth = AudioMode(2)

	// ModeHeadset is declared for a wired accessory but never produced by
	// Derive or by the button. No precedence rule for it exists yet.
	ModeHeadset = AudioMode(3)
)

var (
	// AllModes contains every mode that can be requested by a user.
	AllModes = Modes{
		ModeDefault,
		ModeSpeaker,
		ModeBluetooth,
	}
)

func (this *AudioMode) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "default", "handset", "earpiece":
		*this = ModeDefault
		return nil
	case "speaker", "speakerphone":
		*this = ModeSpeaker
		return nil
	case "bluetooth", "bt":
		*this = ModeBluetooth
		return nil
	case "headset":
		*this = ModeHeadset
		return nil
	default:
		return fmt.Errorf("illegal-audio-mode: %s", plain)
	}
}

func (this AudioMode) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-audio-mode-%d", this)
	}
	return string(v)
}

func (this AudioMode) MarshalText() (text []byte, err error) {
	switch this {
	case ModeDefault:
		return []byte("default"), nil
	case ModeSpeaker:
		return []byte("speaker"), nil
	case ModeBluetooth:
		return []byte("bluetooth"), nil
	case ModeHeadset:
		return []byte("headset"), nil
	default:
		return nil, fmt.Errorf("illegal audio mode: %d", this)
	}
}

func (this *AudioMode) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Modes []AudioMode

func (this Modes) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Modes) String() string {
	return strings.Join(this.Strings(), ",")
}

func (this Modes) Has(v AudioMode) bool {
	for _, candidate := range this {
		if candidate == v {
			return true
		}
	}
	return false
}
