package facade

import (
	"fmt"
	"sync"

	"github.com/blaubaer/call-audio-button/pkg/display"
	"github.com/blaubaer/call-audio-button/pkg/display/homeassistant"
	"github.com/blaubaer/call-audio-button/pkg/display/hue"
)

// Facade is the display.Display selected by the configuration. With
// display.TypeNone it does nothing at all.
type Facade struct {
	display.Display

	lock sync.RWMutex
}

func (this *Facade) Ensure(c display.Context) error {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Display; v != nil {
		return v.Ensure(c)
	}
	return nil
}

func (this *Facade) Update() error {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Display; v != nil {
		return v.Update()
	}
	return nil
}

func (this *Facade) Initialize(conf *Configuration, saveConfFunc func() error) error {
	this.lock.Lock()
	defer this.lock.Unlock()

	if this.Display != nil {
		return nil
	}

	switch conf.Type {
	case display.TypeNone:
	case display.TypeHue:
		var buf hue.Hue
		if err := buf.Initialize(&conf.Hue, saveConfFunc); err != nil {
			return err
		}
		this.Display = &buf
	case display.TypeHomeAssistant:
		var buf homeassistant.HomeAssistant
		if err := buf.Initialize(&conf.HomeAssistant, saveConfFunc); err != nil {
			return err
		}
		this.Display = &buf
	default:
		return fmt.Errorf("unsupported display type: %v", conf.Type)
	}

	return nil
}

func (this *Facade) Dispose() error {
	this.lock.Lock()
	defer this.lock.Unlock()

	defer func() {
		this.Display = nil
	}()

	if v := this.Display; v != nil {
		return v.Dispose()
	}
	return nil
}

func (this *Facade) GetType() display.Type {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Display; v != nil {
		return v.GetType()
	}

	return display.TypeNone
}
