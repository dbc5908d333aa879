package hue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amimof/huego"
)

// LightState is how the lights should look like while one icon of the button
// is shown. Its text form is either "off" or "on,<brightness>,<hue>,<saturation>".
type LightState struct {
	On bool `yaml:"on"`

	// Brightness is a scale from 1 (the minimum the light is capable of) to
	// 254 (the maximum).
	Brightness uint8 `yaml:"brightness,omitempty"`
	// Hue wraps between 0 and 65535. Both 0 and 65535 are red, 25500 is
	// green and 46920 is blue.
	Hue uint16 `yaml:"hue,omitempty"`
	// Saturation 254 is the most saturated (colored) and 0 is the least
	// saturated (white).
	Saturation uint8 `yaml:"saturation,omitempty"`
}

func (this *LightState) Set(plain string) error {
	fail := func() error {
		return fmt.Errorf("illegal-display-hue-light-state: %s", plain)
	}

	parts := strings.Split(strings.TrimSpace(strings.ToLower(plain)), ",")
	switch parts[0] {
	case "off":
		if len(parts) != 1 {
			return fail()
		}
		*this = LightState{}
		return nil
	case "on":
		parts = parts[1:]
	}
	if len(parts) != 3 {
		return fail()
	}

	bri, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 8)
	if err != nil {
		return fail()
	}
	hue, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 16)
	if err != nil {
		return fail()
	}
	sat, err := strconv.ParseUint(strings.TrimSpace(parts[2]), 10, 8)
	if err != nil {
		return fail()
	}

	*this = LightState{true, uint8(bri), uint16(hue), uint8(sat)}
	return nil
}

func (this LightState) String() string {
	if !this.On {
		return "off"
	}
	return fmt.Sprintf("on,%d,%d,%d", this.Brightness, this.Hue, this.Saturation)
}

// ensure returns the state the bridge has to be told to reach this state,
// or nil if current is already there.
func (this LightState) ensure(current *huego.State) *huego.State {
	if current == nil {
		current = &huego.State{}
	}
	if !this.On {
		if current.On {
			return &huego.State{On: false}
		}
		return nil
	}
	if !current.On || current.Bri != this.Brightness || current.Hue != this.Hue || current.Sat != this.Saturation {
		return &huego.State{
			On:  true,
			Bri: this.Brightness,
			Hue: this.Hue,
			Sat: this.Saturation,
		}
	}
	return nil
}
