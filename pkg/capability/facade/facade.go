package facade

import (
	"fmt"
	"sync"

	"github.com/blaubaer/call-audio-button/pkg/audio"
	"github.com/blaubaer/call-audio-button/pkg/capability"
	"github.com/blaubaer/call-audio-button/pkg/capability/static"
	"github.com/blaubaer/call-audio-button/pkg/capability/system"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

// Facade is the capability.Source selected by the configuration.
type Facade struct {
	capability.Source

	lock sync.RWMutex
}

func (this *Facade) Facts() (route.Facts, error) {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Source; v != nil {
		return v.Facts()
	}
	return route.Facts{}, nil
}

func (this *Facade) Changes() <-chan struct{} {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v, ok := this.Source.(capability.Notifier); ok {
		return v.Changes()
	}
	return nil
}

func (this *Facade) Initialize(conf *Configuration, selectors *audio.Selectors, endpoints audio.Endpoints, bluez system.Bluez) error {
	this.lock.Lock()
	defer this.lock.Unlock()

	if this.Source != nil {
		return nil
	}

	switch conf.Type {
	case capability.TypeStatic:
		var buf static.Static
		if err := buf.Initialize(&conf.Static); err != nil {
			return err
		}
		this.Source = &buf
	case capability.TypeSystem:
		var buf system.System
		if err := buf.Initialize(&conf.System, selectors, endpoints, bluez); err != nil {
			return err
		}
		this.Source = &buf
	default:
		return fmt.Errorf("unsupported capability type: %v", conf.Type)
	}

	return nil
}

func (this *Facade) Dispose() error {
	this.lock.Lock()
	defer this.lock.Unlock()

	defer func() {
		this.Source = nil
	}()

	if v := this.Source; v != nil {
		return v.Dispose()
	}
	return nil
}

func (this *Facade) GetType() capability.Type {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Source; v != nil {
		return v.GetType()
	}

	return capability.TypeDefault
}
