package facade

import (
	"github.com/blaubaer/call-audio-button/pkg/capability"
	"github.com/blaubaer/call-audio-button/pkg/capability/static"
	"github.com/blaubaer/call-audio-button/pkg/capability/system"
	"github.com/blaubaer/call-audio-button/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		Type: capability.TypeDefault,
	}
}

type Configuration struct {
	Type   capability.Type      `yaml:"type"`
	Static static.Configuration `yaml:"static,omitempty"`
	System system.Configuration `yaml:"system,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	common.Flag(using, "capability", "Where the audio route facts are read from. All possible values: "+capability.AllTypes.String()).
		SetValue(&this.Type)

	this.Static.SetupConfiguration(using)
	this.System.SetupConfiguration(using)
}
