package display

import (
	"fmt"
	"strings"
)

type Type uint8

const (
	TypeNone          = Type(0)
	TypeHue           = Type(1)
	TypeHomeAssistant = Type(2)
	TypeSystray       = Type(3)

	TypeDefault = TypeNone
)

var (
	// AllTypes are the displays which could be selected by configuration.
	// The systray is always present when running with a tray and therefore
	// not part of it.
	AllTypes = Types{
		TypeNone,
		TypeHue,
		TypeHomeAssistant,
	}
)

func (this *Type) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "", "none":
		*this = TypeNone
		return nil
	case "hue":
		*this = TypeHue
		return nil
	case "homeassistant", "home-assistant", "home_assistant", "ha":
		*this = TypeHomeAssistant
		return nil
	case "systray", "tray":
		*this = TypeSystray
		return nil
	default:
		return fmt.Errorf("illegal-display-type: %s", plain)
	}
}

func (this Type) String() string {
	switch this {
	case TypeNone:
		return "none"
	case TypeHue:
		return "hue"
	case TypeHomeAssistant:
		return "homeAssistant"
	case TypeSystray:
		return "systray"
	default:
		return fmt.Sprintf("illegal-display-type-%d", this)
	}
}

func (this Type) MarshalText() ([]byte, error) {
	return []byte(this.String()), nil
}

func (this *Type) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Types []Type

func (this Types) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Types) String() string {
	return strings.Join(this.Strings(), ",")
}
