package system

import (
	"fmt"
	"sync"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/call-audio-button/pkg/activation"
	"github.com/blaubaer/call-audio-button/pkg/audio"
	"github.com/blaubaer/call-audio-button/pkg/bluetooth"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

// Bluez is the part of bluetooth.Bluez needed to bring up a bluetooth
// headset which is paired but not connected.
type Bluez interface {
	Snapshot() (bluetooth.Snapshot, error)
	Connect(bluetooth.Device) error
}

// System makes the audio output that belongs to the requested route the
// default output of the operating system.
type System struct {
	selectors *audio.Selectors
	endpoints audio.Endpoints
	bluez     Bluez

	mutex sync.Mutex
}

func (this *System) Initialize(selectors *audio.Selectors, endpoints audio.Endpoints, bluez Bluez) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if endpoints == nil {
		return fmt.Errorf("no audio endpoints provided")
	}
	this.selectors = selectors
	this.endpoints = endpoints
	this.bluez = bluez
	return nil
}

func (this *System) Dispose() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.endpoints = nil
	this.bluez = nil
	return nil
}

func (this *System) Activate(mode route.AudioMode) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.endpoints == nil {
		return fmt.Errorf("not initialized")
	}

	predicate, err := this.predicateFor(mode)
	if err != nil {
		return err
	}

	devices, err := this.endpoints.FindDevices()
	if err != nil {
		return err
	}

	logger := log.With("mode", mode)
	target, ok := devices.FirstWhere(audio.FlowRender, predicate)
	if !ok {
		if mode == route.ModeBluetooth && this.bluez != nil {
			return this.connectBluetooth()
		}
		return fmt.Errorf("there is no audio output for route %v", mode)
	}

	if target.Default {
		logger.With("device", target).
			Debug("Audio output is already the default.")
		return nil
	}

	if err := this.endpoints.SetDefault(target); err != nil {
		return err
	}
	logger.With("device", target).
		Info("Audio output switched.")
	return nil
}

func (this *System) predicateFor(mode route.AudioMode) (func(audio.Device) bool, error) {
	switch mode {
	case route.ModeDefault:
		return this.selectors.IsHandset, nil
	case route.ModeSpeaker:
		return this.selectors.IsSpeaker, nil
	case route.ModeBluetooth:
		return this.selectors.IsBluetooth, nil
	default:
		return nil, fmt.Errorf("%w: %v", activation.ErrUnsupportedMode, mode)
	}
}

func (this *System) connectBluetooth() error {
	snapshot, err := this.bluez.Snapshot()
	if err != nil {
		return err
	}
	candidates := snapshot.PairedAudioDevices()
	if len(candidates) == 0 {
		return fmt.Errorf("there is no paired bluetooth audio device")
	}
	if err := this.bluez.Connect(candidates[0]); err != nil {
		return err
	}
	log.With("device", candidates[0]).
		Info("Bluetooth audio device connect requested.")
	return nil
}

func (this *System) GetType() activation.Type {
	return activation.TypeSystem
}
