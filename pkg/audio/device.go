package audio

import (
	"fmt"
	"strings"

	"github.com/blaubaer/call-audio-button/pkg/common"
)

// Flow is the direction of an audio endpoint.
type Flow uint8

const (
	FlowRender  = Flow(0)
	FlowCapture = Flow(1)
)

func (this *Flow) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "render", "sink", "output":
		*this = FlowRender
		return nil
	case "capture", "source", "input":
		*this = FlowCapture
		return nil
	default:
		return fmt.Errorf("illegal-audio-flow: %s", plain)
	}
}

func (this Flow) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-audio-flow-%d", this)
	}
	return string(v)
}

func (this Flow) MarshalText() (text []byte, err error) {
	switch this {
	case FlowRender:
		return []byte("render"), nil
	case FlowCapture:
		return []byte("capture"), nil
	default:
		return nil, fmt.Errorf("illegal audio flow: %d", this)
	}
}

func (this *Flow) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

// Device is one audio endpoint like a speaker, an earpiece or a microphone.
type Device struct {
	// Name identifies the endpoint towards the audio system.
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Index       uint32 `json:"index"`
	Flow        Flow   `json:"flow"`
	Default     bool   `json:"default,omitempty"`
	Muted       bool   `json:"muted,omitempty"`
	Bluetooth   bool   `json:"bluetooth,omitempty"`
}

func (this Device) String() string {
	if this.Description != "" {
		return fmt.Sprintf("[%v#%d] %s", this.Flow, this.Index, this.Description)
	}
	return fmt.Sprintf("[%v#%d] %s", this.Flow, this.Index, this.Name)
}

func (this Device) Matches(selector common.Regexp) bool {
	return selector.MatchAny(this.Name, this.Description)
}

type Devices []Device

func (this Devices) IsZero() bool {
	return len(this) <= 0
}

func (this Devices) HasContent() bool {
	return !this.IsZero()
}

func (this Devices) Of(flow Flow) (result Devices) {
	for _, v := range this {
		if v.Flow == flow {
			result = append(result, v)
		}
	}
	return
}

func (this Devices) Default(flow Flow) (Device, bool) {
	for _, v := range this {
		if v.Flow == flow && v.Default {
			return v, true
		}
	}
	return Device{}, false
}

func (this Devices) FirstMatching(flow Flow, selector common.Regexp) (Device, bool) {
	return this.FirstWhere(flow, func(d Device) bool {
		return d.Matches(selector)
	})
}

func (this Devices) FirstWhere(flow Flow, predicate func(Device) bool) (Device, bool) {
	for _, v := range this {
		if v.Flow == flow && predicate(v) {
			return v, true
		}
	}
	return Device{}, false
}

// Endpoints is the part of the audio system the capability source and the
// route activation rely on.
type Endpoints interface {
	FindDevices() (Devices, error)
	SetDefault(Device) error
}
