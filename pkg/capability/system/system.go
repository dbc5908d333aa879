package system

import (
	"fmt"
	"sync"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/call-audio-button/pkg/audio"
	"github.com/blaubaer/call-audio-button/pkg/bluetooth"
	"github.com/blaubaer/call-audio-button/pkg/capability"
	"github.com/blaubaer/call-audio-button/pkg/common"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

type Configuration struct {
	IgnoreBluez bool `yaml:"ignoreBluez,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	common.Flag(using, "capability.system.ignoreBluez", "If set bluetooth is only detected by the names of the audio outputs, even if BlueZ is available.").
		BoolVar(&this.IgnoreBluez)
}

// Bluez is the part of bluetooth.Bluez this source needs. It is nil if BlueZ
// is not available at all.
type Bluez interface {
	Snapshot() (bluetooth.Snapshot, error)
}

// System reads the facts from the audio endpoints of the operating system
// and, if available, from BlueZ.
type System struct {
	conf      *Configuration
	selectors *audio.Selectors
	endpoints audio.Endpoints
	bluez     Bluez

	mutex sync.RWMutex
}

func (this *System) Initialize(conf *Configuration, selectors *audio.Selectors, endpoints audio.Endpoints, bluez Bluez) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if endpoints == nil {
		return fmt.Errorf("no audio endpoints provided")
	}
	this.conf = conf
	this.selectors = selectors
	this.endpoints = endpoints
	if !conf.IgnoreBluez {
		this.bluez = bluez
	}
	return nil
}

func (this *System) Dispose() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.endpoints = nil
	this.bluez = nil
	return nil
}

func (this *System) Facts() (route.Facts, error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	if this.endpoints == nil {
		return route.Facts{}, fmt.Errorf("not initialized")
	}

	devices, err := this.endpoints.FindDevices()
	if err != nil {
		return route.Facts{}, err
	}

	var snapshot *bluetooth.Snapshot
	if v := this.bluez; v != nil {
		if buf, err := v.Snapshot(); err != nil {
			log.WithError(err).
				Warn("Cannot read bluetooth state. Falling back to the names of the audio outputs.")
		} else {
			snapshot = &buf
		}
	}

	return factsOf(devices, *this.selectors, snapshot), nil
}

// Changes forwards the change notifications of BlueZ, if available.
func (this *System) Changes() <-chan struct{} {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	if n, ok := this.bluez.(capability.Notifier); ok {
		return n.Changes()
	}
	return nil
}

func (this *System) GetType() capability.Type {
	return capability.TypeSystem
}

func factsOf(devices audio.Devices, selectors audio.Selectors, snapshot *bluetooth.Snapshot) (result route.Facts) {
	output, hasOutput := devices.Default(audio.FlowRender)
	outputIsBluetooth := hasOutput && selectors.IsBluetooth(output)

	result.SpeakerphoneOn = hasOutput && selectors.IsSpeaker(output)
	if input, ok := devices.Default(audio.FlowCapture); ok {
		result.MicrophoneMuted = input.Muted
	}

	if snapshot != nil {
		result.BluetoothAvailable = snapshot.Available()
		result.BluetoothAudioConnectedOrPending = snapshot.AudioConnectedOrPending() || outputIsBluetooth
		return
	}

	for _, d := range devices.Of(audio.FlowRender) {
		if selectors.IsBluetooth(d) {
			result.BluetoothAvailable = true
			break
		}
	}
	result.BluetoothAudioConnectedOrPending = outputIsBluetooth
	return
}
