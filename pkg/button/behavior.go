package button

import (
	"fmt"
	"strings"
)

// Behavior is how the audio button reacts to a click.
type Behavior uint8

const (
	// BehaviorPicker opens a choice of every selectable route.
	BehaviorPicker = Behavior(0)
	// BehaviorToggle flips the speakerphone on and off.
	BehaviorToggle = Behavior(1)
	// BehaviorDisabled does not react at all.
	BehaviorDisabled = Behavior(2)
)

var (
	AllBehaviors = Behaviors{
		BehaviorPicker,
		BehaviorToggle,
		BehaviorDisabled,
	}
)

func (this *Behavior) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "picker":
		*this = BehaviorPicker
		return nil
	case "toggle":
		*this = BehaviorToggle
		return nil
	case "disabled":
		*this = BehaviorDisabled
		return nil
	default:
		return fmt.Errorf("illegal-button-behavior: %s", plain)
	}
}

func (this Behavior) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-button-behavior-%d", this)
	}
	return string(v)
}

func (this Behavior) MarshalText() (text []byte, err error) {
	switch this {
	case BehaviorPicker:
		return []byte("picker"), nil
	case BehaviorToggle:
		return []byte("toggle"), nil
	case BehaviorDisabled:
		return []byte("disabled"), nil
	default:
		return nil, fmt.Errorf("illegal button behavior: %d", this)
	}
}

func (this *Behavior) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Behaviors []Behavior

func (this Behaviors) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Behaviors) String() string {
	return strings.Join(this.Strings(), ",")
}
