package audio

import (
	"fmt"
	"strings"

	"github.com/jfreymuth/pulse/proto"
)

// pulseRequester is what is needed of a connection to a PulseAudio server.
// PipeWire serves the same protocol.
type pulseRequester interface {
	RawRequest(cmd proto.RequestArgs, rpl proto.Reply) error
}

type pulseDevice struct {
	index       uint32
	name        string
	description string
	mute        bool
	properties  proto.PropList
}

func (this pulseDevice) property(key string) string {
	return strings.TrimRight(string(this.properties[key]), "\x00")
}

func (this pulseDevice) isMonitor() bool {
	return this.property("device.class") == "monitor"
}

func (this pulseDevice) isBluetooth() bool {
	return this.property("device.bus") == "bluetooth" ||
		this.property("device.api") == "bluez5" ||
		strings.HasPrefix(this.name, "bluez_")
}

func (this pulseDevice) toDevice(flow Flow, defaultName string) Device {
	return Device{
		Name:        this.name,
		Description: this.description,
		Index:       this.index,
		Flow:        flow,
		Default:     this.name == defaultName,
		Muted:       this.mute,
		Bluetooth:   this.isBluetooth(),
	}
}

func findPulseDevices(client pulseRequester) (result Devices, _ error) {
	var server proto.GetServerInfoReply
	if err := client.RawRequest(&proto.GetServerInfo{}, &server); err != nil {
		return nil, fmt.Errorf("cannot read server info: %w", err)
	}

	var sinks proto.GetSinkInfoListReply
	if err := client.RawRequest(&proto.GetSinkInfoList{}, &sinks); err != nil {
		return nil, fmt.Errorf("cannot list %v devices: %w", FlowRender, err)
	}
	for _, v := range sinks {
		d := pulseDevice{v.SinkIndex, v.SinkName, v.Device, v.Mute, v.Properties}
		if !d.isMonitor() {
			result = append(result, d.toDevice(FlowRender, server.DefaultSinkName))
		}
	}

	var sources proto.GetSourceInfoListReply
	if err := client.RawRequest(&proto.GetSourceInfoList{}, &sources); err != nil {
		return nil, fmt.Errorf("cannot list %v devices: %w", FlowCapture, err)
	}
	for _, v := range sources {
		d := pulseDevice{v.SourceIndex, v.SourceName, v.Device, v.Mute, v.Properties}
		if !d.isMonitor() {
			result = append(result, d.toDevice(FlowCapture, server.DefaultSourceName))
		}
	}

	return result, nil
}

func setPulseDefault(client pulseRequester, device Device) error {
	var cmd proto.RequestArgs
	switch device.Flow {
	case FlowCapture:
		cmd = &proto.SetDefaultSource{SourceName: device.Name}
	default:
		cmd = &proto.SetDefaultSink{SinkName: device.Name}
	}
	if err := client.RawRequest(cmd, nil); err != nil {
		return fmt.Errorf("cannot make %v the default: %w", device, err)
	}
	return nil
}
