package route

import (
	"fmt"
	"iter"
)

// Facts are the raw capability signals read from the device. The zero value
// means "everything unavailable".
type Facts struct {
	BluetoothAvailable               bool `yaml:"bluetoothAvailable" json:"bluetoothAvailable"`
	BluetoothAudioConnectedOrPending bool `yaml:"bluetoothAudioConnectedOrPending" json:"bluetoothAudioConnectedOrPending"`
	SpeakerphoneOn                   bool `yaml:"speakerphoneOn" json:"speakerphoneOn"`
	MicrophoneMuted                  bool `yaml:"microphoneMuted" json:"microphoneMuted"`
}

func (this Facts) String() string {
	return fmt.Sprintf("bluetooth=%v/%v speaker=%v muted=%v",
		this.BluetoothAvailable,
		this.BluetoothAudioConnectedOrPending,
		this.SpeakerphoneOn,
		this.MicrophoneMuted,
	)
}

// EveryFacts yields all 16 combinations of facts.
func EveryFacts() iter.Seq[Facts] {
	return func(yield func(Facts) bool) {
		for i := 0; i < 16; i++ {
			if !yield(Facts{
				BluetoothAvailable:               i&1 != 0,
				BluetoothAudioConnectedOrPending: i&2 != 0,
				SpeakerphoneOn:                   i&4 != 0,
				MicrophoneMuted:                  i&8 != 0,
			}) {
				return
			}
		}
	}
}
