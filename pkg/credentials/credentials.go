package credentials

import (
	"encoding/json"
	"fmt"

	"dario.cat/mergo"
)

const appName = "github.com/blaubaer/call-audio-button"

// Credentials of the remote displays. They are kept in the credentials store
// of the operating system, if there is one, otherwise in the configuration.
type Credentials struct {
	HueBridge string `json:"hue_bridge,omitempty"`
	HueUser   string `json:"hue_user,omitempty"`

	HomeAssistantServer string `json:"homeAssistant_server,omitempty"`
	HomeAssistantToken  string `json:"homeAssistant_token,omitempty"`
}

func (this *Credentials) IsZero() bool {
	return this.IsHueZero() && this.IsHomeAssistantZero()
}

func (this *Credentials) IsHueZero() bool {
	return this.HueBridge == "" && this.HueUser == ""
}

func (this *Credentials) IsHomeAssistantZero() bool {
	return this.HomeAssistantServer == "" && this.HomeAssistantToken == ""
}

// MergeFrom takes over every field of other which is set.
func (this *Credentials) MergeFrom(other Credentials) error {
	if err := mergo.Merge(this, other, mergo.WithOverride); err != nil {
		return fmt.Errorf("cannot merge credentials: %w", err)
	}
	return nil
}

func (this *Credentials) MarshalBinary() (data []byte, err error) {
	return json.Marshal(this)
}

func (this *Credentials) UnmarshalBinary(data []byte) error {
	var buf Credentials
	if err := json.Unmarshal(data, &buf); err != nil {
		return err
	}
	*this = buf
	return nil
}

// Store reads and writes Credentials. Implementations report with supported
// = false that there is no store available on this platform.
type Store interface {
	Read() (Credentials, bool, error)
	Write(Credentials) (bool, error)
}

// SystemStore is the Store of the operating system.
var SystemStore Store = systemStore{}

type systemStore struct{}

func (systemStore) Read() (result Credentials, supported bool, err error) {
	supported, err = result.ReadFromStore()
	return
}

func (systemStore) Write(v Credentials) (bool, error) {
	return v.WriteToStore()
}
