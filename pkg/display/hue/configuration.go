package hue

import (
	"fmt"

	"github.com/blaubaer/call-audio-button/pkg/button"
	"github.com/blaubaer/call-audio-button/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		Name: common.MustNewRegexp("^CallAudio"),
		Icons: Icons{
			Bluetooth:  LightState{true, 254, 46920, 254},
			Handset:    LightState{true, 254, 25500, 254},
			SpeakerOn:  LightState{true, 254, 65535, 254},
			SpeakerOff: LightState{},
		},
	}
}

type Configuration struct {
	Pair   bool   `yaml:"pair,omitempty"`
	Bridge string `yaml:"bridge,omitempty"`
	User   string `yaml:"user,omitempty"`

	Name  common.Regexp `yaml:"target"`
	Kinds Kinds         `yaml:"kinds,omitempty"`

	Icons Icons `yaml:"icons"`
}

// Icons assigns a LightState to every icon layer of the button.
type Icons struct {
	Bluetooth  LightState `yaml:"bluetooth"`
	Handset    LightState `yaml:"handset"`
	SpeakerOn  LightState `yaml:"speakerOn"`
	SpeakerOff LightState `yaml:"speakerOff"`
}

func (this Icons) Of(l button.Layer) (LightState, error) {
	switch l {
	case button.LayerBluetoothIcon:
		return this.Bluetooth, nil
	case button.LayerHandsetIcon:
		return this.Handset, nil
	case button.LayerSpeakerOnIcon:
		return this.SpeakerOn, nil
	case button.LayerSpeakerOffIcon:
		return this.SpeakerOff, nil
	default:
		return LightState{}, fmt.Errorf("%v is not an icon layer", l)
	}
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	common.Flag(using, "display.hue.pair", "If true this application will pair again with an existing hue. This will be implicit enabled if this application is not already paired.").
		BoolVar(&this.Pair)
	common.Flag(using, "display.hue.bridge", "Usually the bridge is automatically detected. You can specify an explicit one if they are more than one. This is only required while pairing and will afterwards be ignored.").
		StringVar(&this.Bridge)
	common.Flag(using, "display.hue.user", "Usually this is set while pairing and will then be persisted. If this set this will be used and not be persisted.").
		StringVar(&this.User)
	common.Flag(using, "display.hue.name", "Name as regex of the lights/groups which should be handled by this app.").
		SetValue(&this.Name)
	common.Flag(using, "display.hue.kind", "Kind(s) of what should be handled. Possible values: "+AllKinds.String()).
		SetValue(&this.Kinds)

	const format = " Either 'off' or 'on,<brightness>,<hue>,<saturation>'."
	common.Flag(using, "display.hue.bluetooth", "Light state while the call is on a bluetooth device."+format).
		SetValue(&this.Icons.Bluetooth)
	common.Flag(using, "display.hue.handset", "Light state while the call is on the handset."+format).
		SetValue(&this.Icons.Handset)
	common.Flag(using, "display.hue.speakerOn", "Light state while the call is on the speaker."+format).
		SetValue(&this.Icons.SpeakerOn)
	common.Flag(using, "display.hue.speakerOff", "Light state while the speaker could be switched on but is off."+format).
		SetValue(&this.Icons.SpeakerOff)
}
