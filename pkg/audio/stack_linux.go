//go:build linux

package audio

import (
	"fmt"
	"sync"

	"github.com/jfreymuth/pulse"

	"github.com/blaubaer/call-audio-button/pkg/common"
)

// Stack talks to PulseAudio, or PipeWire through its PulseAudio server.
type Stack struct {
	Server string

	client *pulse.Client
	mutex  sync.RWMutex
}

func (this *Stack) SetupConfiguration(using common.FlagHolder) {
	common.Flag(using, "audio.server", "PulseAudio/PipeWire server to connect to. If empty the server of the current session is used.").
		StringVar(&this.Server)
}

func (this *Stack) Initialize() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	opts := []pulse.ClientOption{
		pulse.ClientApplicationName("call-audio-button"),
	}
	if this.Server != "" {
		opts = append(opts, pulse.ClientServerString(this.Server))
	}
	client, err := pulse.NewClient(opts...)
	if err != nil {
		return fmt.Errorf("cannot connect to audio server: %w", err)
	}
	this.client = client
	return nil
}

func (this *Stack) Dispose() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.client != nil {
		this.client.Close()
		this.client = nil
	}
	return nil
}

func (this *Stack) FindDevices() (Devices, error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	if this.client == nil {
		return nil, fmt.Errorf("not initialized")
	}
	return findPulseDevices(this.client)
}

func (this *Stack) SetDefault(device Device) error {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	if this.client == nil {
		return fmt.Errorf("not initialized")
	}
	return setPulseDefault(this.client, device)
}
