//go:build windows

package audio

import (
	"fmt"
	"sync"

	"github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"

	"github.com/blaubaer/call-audio-button/pkg/common"
)

type Stack struct {
	initialized bool
	mutex       sync.RWMutex
}

func (this *Stack) SetupConfiguration(_ common.FlagHolder) {}

func (this *Stack) Initialize() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.initialized {
		return nil
	}

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		return fmt.Errorf("failed to initialize ole: %v", err)
	}

	this.initialized = true
	return nil
}

func (this *Stack) Dispose() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if !this.initialized {
		return nil
	}

	ole.CoUninitialize()
	this.initialized = false

	return nil
}

func (this *Stack) FindDevices() (result Devices, _ error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	if !this.initialized {
		return nil, fmt.Errorf("not initialized")
	}

	var de *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &de); err != nil {
		return nil, fmt.Errorf("cannot ceate IMMDeviceEnumerator instance: %w", err)
	}
	defer de.Release()

	for _, flow := range []Flow{FlowRender, FlowCapture} {
		devices, err := this.introspectDevicesOf(de, flow)
		if err != nil {
			return nil, err
		}
		result = append(result, devices...)
	}
	return result, nil
}

// SetDefault is not possible with the public WASAPI.
func (this *Stack) SetDefault(device Device) error {
	return fmt.Errorf("cannot make %v the default: %w", device, common.ErrUnsupported)
}

func wcaFlow(flow Flow) uint32 {
	if flow == FlowCapture {
		return wca.ECapture
	}
	return wca.ERender
}

func (this *Stack) defaultIdOf(enumerator *wca.IMMDeviceEnumerator, flow Flow) string {
	var device *wca.IMMDevice
	if err := enumerator.GetDefaultAudioEndpoint(wcaFlow(flow), wca.ECommunications, &device); err != nil {
		// No default endpoint of this flow at all.
		return ""
	}
	defer device.Release()

	var id string
	if err := device.GetId(&id); err != nil {
		return ""
	}
	return id
}

func (this *Stack) introspectDevicesOf(enumerator *wca.IMMDeviceEnumerator, flow Flow) (result Devices, _ error) {
	defaultId := this.defaultIdOf(enumerator, flow)

	var collection *wca.IMMDeviceCollection
	if err := enumerator.EnumAudioEndpoints(wcaFlow(flow), wca.DEVICE_STATE_ACTIVE, &collection); err != nil {
		return nil, fmt.Errorf("cannot query %v IMMDevices: %w", flow, err)
	}
	defer collection.Release()

	var count uint32
	if err := collection.GetCount(&count); err != nil {
		return nil, fmt.Errorf("cannot get count of %v IMMDevice collection: %w", flow, err)
	}

	for i := uint32(0); i < count; i++ {
		device, err := this.introspectDeviceOf(collection, flow, i)
		if err != nil {
			return nil, err
		}
		device.Default = device.Name == defaultId
		result = append(result, device)
	}

	return
}

func (this *Stack) introspectDeviceOf(collection *wca.IMMDeviceCollection, flow Flow, deviceIndex uint32) (Device, error) {
	var device *wca.IMMDevice
	if err := collection.Item(deviceIndex, &device); err != nil {
		return Device{}, fmt.Errorf("cannot get item %d of %v IMMDevice collection: %w", deviceIndex, flow, err)
	}
	defer device.Release()

	return this.introspectDevice(device, flow, deviceIndex)
}

func (this *Stack) introspectDevice(device *wca.IMMDevice, flow Flow, deviceIndex uint32) (Device, error) {
	var id string
	if err := device.GetId(&id); err != nil {
		return Device{}, fmt.Errorf("cannot get id of %v device %d: %w", flow, deviceIndex, err)
	}

	var propertyStore *wca.IPropertyStore
	if err := device.OpenPropertyStore(wca.STGM_READ, &propertyStore); err != nil {
		return Device{}, fmt.Errorf("cannot get properties of %v device %d: %w", flow, deviceIndex, err)
	}
	defer propertyStore.Release()

	var name wca.PROPVARIANT
	if err := propertyStore.GetValue(&wca.PKEY_Device_FriendlyName, &name); err != nil {
		return Device{}, fmt.Errorf("cannot get name of %v device %d: %w", flow, deviceIndex, err)
	}

	var volume *wca.IAudioEndpointVolume
	if err := device.Activate(wca.IID_IAudioEndpointVolume, wca.CLSCTX_ALL, nil, &volume); err != nil {
		return Device{}, fmt.Errorf("cannot get volume of %v device %d: %w", flow, deviceIndex, err)
	}
	defer volume.Release()

	var muted bool
	if err := volume.GetMute(&muted); err != nil {
		return Device{}, fmt.Errorf("cannot get mute state of %v device %d: %w", flow, deviceIndex, err)
	}

	return Device{
		Name:        id,
		Description: name.String(),
		Index:       deviceIndex,
		Flow:        flow,
		Muted:       muted,
	}, nil
}
