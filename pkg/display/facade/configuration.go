package facade

import (
	"github.com/blaubaer/call-audio-button/pkg/common"
	"github.com/blaubaer/call-audio-button/pkg/display"
	"github.com/blaubaer/call-audio-button/pkg/display/homeassistant"
	"github.com/blaubaer/call-audio-button/pkg/display/hue"
)

func NewConfiguration() Configuration {
	return Configuration{
		Type:          display.TypeDefault,
		Hue:           hue.NewConfiguration(),
		HomeAssistant: homeassistant.NewConfiguration(),
	}
}

type Configuration struct {
	Type          display.Type                `yaml:"type"`
	Hue           hue.Configuration           `yaml:"hue,omitempty"`
	HomeAssistant homeassistant.Configuration `yaml:"homeAssistant,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	common.Flag(using, "display", "Additional display of the audio route. All possible values: "+display.AllTypes.String()).
		SetValue(&this.Type)

	this.Hue.SetupConfiguration(using)
	this.HomeAssistant.SetupConfiguration(using)
}
