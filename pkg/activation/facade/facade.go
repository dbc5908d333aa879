package facade

import (
	"fmt"
	"sync"

	"github.com/blaubaer/call-audio-button/pkg/activation"
	"github.com/blaubaer/call-audio-button/pkg/activation/logging"
	"github.com/blaubaer/call-audio-button/pkg/activation/system"
	"github.com/blaubaer/call-audio-button/pkg/audio"
	"github.com/blaubaer/call-audio-button/pkg/common"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

func NewConfiguration() Configuration {
	return Configuration{
		Type: activation.TypeDefault,
	}
}

type Configuration struct {
	Type activation.Type `yaml:"type"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	common.Flag(using, "activation", "How a requested audio route is applied. All possible values: "+activation.AllTypes.String()).
		SetValue(&this.Type)
}

// Facade is the activation.Activator selected by the configuration.
type Facade struct {
	activation.Activator

	lock sync.RWMutex
}

func (this *Facade) Activate(mode route.AudioMode) error {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Activator; v != nil {
		return v.Activate(mode)
	}
	return fmt.Errorf("no activator initialized")
}

func (this *Facade) Initialize(conf *Configuration, selectors *audio.Selectors, endpoints audio.Endpoints, bluez system.Bluez) error {
	this.lock.Lock()
	defer this.lock.Unlock()

	if this.Activator != nil {
		return nil
	}

	switch conf.Type {
	case activation.TypeLogging:
		this.Activator = &logging.Logging{}
	case activation.TypeSystem:
		var buf system.System
		if err := buf.Initialize(selectors, endpoints, bluez); err != nil {
			return err
		}
		this.Activator = &buf
	default:
		return fmt.Errorf("unsupported activation type: %v", conf.Type)
	}

	return nil
}

func (this *Facade) Dispose() error {
	this.lock.Lock()
	defer this.lock.Unlock()

	defer func() {
		this.Activator = nil
	}()

	if v := this.Activator; v != nil {
		return v.Dispose()
	}
	return nil
}

func (this *Facade) GetType() activation.Type {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Activator; v != nil {
		return v.GetType()
	}
	return activation.TypeDefault
}
