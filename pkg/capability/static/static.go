package static

import (
	"github.com/blaubaer/call-audio-button/pkg/capability"
	"github.com/blaubaer/call-audio-button/pkg/common"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

type Configuration struct {
	route.Facts `yaml:",inline"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	common.Flag(using, "capability.static.bluetoothAvailable", "Reported by the static source: a bluetooth audio peripheral is connected.").
		BoolVar(&this.BluetoothAvailable)
	common.Flag(using, "capability.static.bluetoothAudioConnectedOrPending", "Reported by the static source: bluetooth audio is streaming or about to.").
		BoolVar(&this.BluetoothAudioConnectedOrPending)
	common.Flag(using, "capability.static.speakerphoneOn", "Reported by the static source: the speakerphone is on.").
		BoolVar(&this.SpeakerphoneOn)
	common.Flag(using, "capability.static.microphoneMuted", "Reported by the static source: the microphone is muted.").
		BoolVar(&this.MicrophoneMuted)
}

// Static always reports the configured facts.
type Static struct {
	conf *Configuration
}

func (this *Static) Initialize(conf *Configuration) error {
	this.conf = conf
	return nil
}

func (this *Static) Dispose() error {
	this.conf = nil
	return nil
}

func (this *Static) Facts() (route.Facts, error) {
	if v := this.conf; v != nil {
		return v.Facts, nil
	}
	return route.Facts{}, nil
}

func (this *Static) GetType() capability.Type {
	return capability.TypeStatic
}
