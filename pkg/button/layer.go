package button

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Layer identifies one layer of the audio button artwork.
type Layer uint8

const (
	// LayerToggleIndicator is the bar below the icon shown while the button
	// behaves as a toggle.
	LayerToggleIndicator = Layer(0)
	// LayerMoreIndicator marks that a click opens a route picker.
	LayerMoreIndicator  = Layer(1)
	LayerBluetoothIcon  = Layer(2)
	LayerHandsetIcon    = Layer(3)
	LayerSpeakerOnIcon  = Layer(4)
	LayerSpeakerOffIcon = Layer(5)

	numberOfLayers = 6
)

var (
	AllLayers = Layers{
		LayerToggleIndicator,
		LayerMoreIndicator,
		LayerBluetoothIcon,
		LayerHandsetIcon,
		LayerSpeakerOnIcon,
		LayerSpeakerOffIcon,
	}

	// IconLayers are mutually exclusive: exactly one of them is visible.
	IconLayers = Layers{
		LayerBluetoothIcon,
		LayerHandsetIcon,
		LayerSpeakerOnIcon,
		LayerSpeakerOffIcon,
	}
)

func (this *Layer) Set(plain string) error {
	switch strings.TrimSpace(plain) {
	case "toggleIndicator":
		*this = LayerToggleIndicator
	case "moreIndicator":
		*this = LayerMoreIndicator
	case "bluetoothIcon":
		*this = LayerBluetoothIcon
	case "handsetIcon":
		*this = LayerHandsetIcon
	case "speakerOnIcon":
		*this = LayerSpeakerOnIcon
	case "speakerOffIcon":
		*this = LayerSpeakerOffIcon
	default:
		return fmt.Errorf("illegal-button-layer: %s", plain)
	}
	return nil
}

func (this Layer) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-button-layer-%d", this)
	}
	return string(v)
}

func (this Layer) MarshalText() (text []byte, err error) {
	switch this {
	case LayerToggleIndicator:
		return []byte("toggleIndicator"), nil
	case LayerMoreIndicator:
		return []byte("moreIndicator"), nil
	case LayerBluetoothIcon:
		return []byte("bluetoothIcon"), nil
	case LayerHandsetIcon:
		return []byte("handsetIcon"), nil
	case LayerSpeakerOnIcon:
		return []byte("speakerOnIcon"), nil
	case LayerSpeakerOffIcon:
		return []byte("speakerOffIcon"), nil
	default:
		return nil, fmt.Errorf("illegal button layer: %d", this)
	}
}

func (this *Layer) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

func (this Layer) IsIcon() bool {
	return IconLayers.Has(this)
}

type Layers []Layer

func (this Layers) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Layers) String() string {
	return strings.Join(this.Strings(), ",")
}

func (this Layers) Has(v Layer) bool {
	for _, candidate := range this {
		if candidate == v {
			return true
		}
	}
	return false
}

// LayerSet is the visibility of every Layer. It is comparable, so two
// presentations of the same state are equal with ==.
type LayerSet [numberOfLayers]bool

// NewLayerSet returns a set where only the given layers are visible.
func NewLayerSet(visible ...Layer) (result LayerSet) {
	for _, v := range visible {
		if int(v) < numberOfLayers {
			result[v] = true
		}
	}
	return
}

func (this LayerSet) Visible(l Layer) bool {
	if int(l) >= numberOfLayers {
		return false
	}
	return this[l]
}

// VisibleLayers returns the visible layers in z-order (bottom first).
func (this LayerSet) VisibleLayers() (result Layers) {
	for _, l := range AllLayers {
		if this[l] {
			result = append(result, l)
		}
	}
	return
}

// Icon returns the single visible icon layer. ok is false if none or more
// than one icon layer is visible.
func (this LayerSet) Icon() (result Layer, ok bool) {
	n := 0
	for _, l := range IconLayers {
		if this[l] {
			result = l
			n++
		}
	}
	return result, n == 1
}

func (this LayerSet) ToMap() map[string]bool {
	result := make(map[string]bool, numberOfLayers)
	for _, l := range AllLayers {
		result[l.String()] = this[l]
	}
	return result
}

func (this LayerSet) String() string {
	return this.VisibleLayers().String()
}

func (this LayerSet) MarshalYAML() (any, error) {
	return this.ToMap(), nil
}

func (this LayerSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(this.ToMap())
}
