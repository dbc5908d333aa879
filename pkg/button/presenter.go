package button

import (
	"fmt"

	"github.com/blaubaer/call-audio-button/pkg/route"
)

// Presentation is everything a renderer needs to draw the audio button.
type Presentation struct {
	Behavior Behavior `yaml:"behavior" json:"behavior"`
	// Mode is the route the button currently represents.
	Mode        route.AudioMode `yaml:"mode" json:"mode"`
	Layers      LayerSet        `yaml:"layers" json:"layers"`
	Interactive bool            `yaml:"interactive" json:"interactive"`
	ToggledOn   bool            `yaml:"toggledOn" json:"toggledOn"`
}

func (this Presentation) String() string {
	return fmt.Sprintf("%v(%v) layers=%v interactive=%v toggledOn=%v",
		this.Behavior, this.Mode, this.Layers, this.Interactive, this.ToggledOn)
}

// Present maps a ControlState onto the audio button. The first matching rule
// wins: bluetooth selectable makes it a picker, otherwise a selectable
// speaker makes it a toggle, otherwise it is disabled.
func Present(state route.ControlState) Presentation {
	if state.BluetoothSelectable {
		// The toggle bar is meaningless in this mode, so ToggledOn stays false.
		result := Presentation{
			Behavior:    BehaviorPicker,
			Interactive: true,
		}
		switch {
		case state.BluetoothActive:
			result.Mode = route.ModeBluetooth
			result.Layers = NewLayerSet(LayerMoreIndicator, LayerBluetoothIcon)
		case state.SpeakerActive:
			result.Mode = route.ModeSpeaker
			result.Layers = NewLayerSet(LayerMoreIndicator, LayerSpeakerOnIcon)
		default:
			// TODO: a connected wired headset should take precedence over the
			// handset here once ModeHeadset gets an icon and a fact to detect it.
			result.Mode = route.ModeDefault
			result.Layers = NewLayerSet(LayerMoreIndicator, LayerHandsetIcon)
		}
		return result
	}

	if state.SpeakerSelectable {
		if state.SpeakerActive {
			return Presentation{
				Behavior:    BehaviorToggle,
				Mode:        route.ModeSpeaker,
				Layers:      NewLayerSet(LayerToggleIndicator, LayerSpeakerOnIcon),
				Interactive: true,
				ToggledOn:   true,
			}
		}
		return Presentation{
			Behavior:    BehaviorToggle,
			Mode:        route.ModeDefault,
			Layers:      NewLayerSet(LayerToggleIndicator, LayerSpeakerOffIcon),
			Interactive: true,
		}
	}

	return Presentation{
		Behavior: BehaviorDisabled,
		Mode:     route.ModeDefault,
		Layers:   NewLayerSet(LayerToggleIndicator, LayerSpeakerOffIcon),
	}
}
