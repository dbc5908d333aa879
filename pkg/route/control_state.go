package route

import "fmt"

// ControlState holds the enabledness and on/off state of every in-call
// control. It is always a fresh result of Derive and carries no identity
// beyond its values.
type ControlState struct {
	// CanEndCall is always true for now.
	CanEndCall bool `yaml:"canEndCall" json:"canEndCall"`

	BluetoothSelectable bool `yaml:"bluetoothSelectable" json:"bluetoothSelectable"`
	BluetoothActive     bool `yaml:"bluetoothActive" json:"bluetoothActive"`

	SpeakerSelectable bool `yaml:"speakerSelectable" json:"speakerSelectable"`
	SpeakerActive     bool `yaml:"speakerActive" json:"speakerActive"`

	MuteSelectable bool `yaml:"muteSelectable" json:"muteSelectable"`
	MuteActive     bool `yaml:"muteActive" json:"muteActive"`
}

// Derive turns raw facts into a ControlState. It is total and has no side
// effects.
func Derive(facts Facts) ControlState {
	return ControlState{
		CanEndCall: true,

		BluetoothSelectable: facts.BluetoothAvailable,
		BluetoothActive:     facts.BluetoothAvailable && facts.BluetoothAudioConnectedOrPending,

		// Speaker is always offerable.
		SpeakerSelectable: true,
		SpeakerActive:     facts.SpeakerphoneOn,

		MuteSelectable: true,
		MuteActive:     facts.MicrophoneMuted,
	}
}

// ActiveMode reports which route the state considers active. Bluetooth wins
// over speaker, handset is the fallback.
func (this ControlState) ActiveMode() AudioMode {
	if this.BluetoothSelectable && this.BluetoothActive {
		return ModeBluetooth
	}
	if this.SpeakerSelectable && this.SpeakerActive {
		return ModeSpeaker
	}
	return ModeDefault
}

// SelectableModes lists the routes a user may currently pick from, in
// presentation order.
func (this ControlState) SelectableModes() Modes {
	result := Modes{ModeDefault}
	if this.SpeakerSelectable {
		result = append(result, ModeSpeaker)
	}
	if this.BluetoothSelectable {
		result = append(result, ModeBluetooth)
	}
	return result
}

func (this ControlState) String() string {
	return fmt.Sprintf("canEndCall=%v bluetooth=%v/%v speaker=%v/%v mute=%v/%v",
		this.CanEndCall,
		this.BluetoothSelectable, this.BluetoothActive,
		this.SpeakerSelectable, this.SpeakerActive,
		this.MuteSelectable, this.MuteActive,
	)
}
