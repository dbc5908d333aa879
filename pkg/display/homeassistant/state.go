package homeassistant

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/blaubaer/call-audio-button/pkg/button"
	"github.com/blaubaer/call-audio-button/pkg/display"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

type stateGetResponse struct {
	EntityId     string         `json:"entity_id"`
	State        string         `json:"state"`
	Attributes   map[string]any `json:"attributes"`
	LastChanged  time.Time      `json:"last_changed"`
	LastReported time.Time      `json:"last_reported"`
	LastUpdated  time.Time      `json:"last_updated"`
	Context      map[string]any `json:"context"`
}

func (this *stateGetResponse) getState() (result state, err error) {
	var mode route.AudioMode
	if err := mode.Set(this.State); err != nil {
		return state{}, err
	}
	result.mode = mode

	if this.Attributes != nil {
		b, err := json.Marshal(this.Attributes)
		if err != nil {
			return state{}, err
		}
		if err := json.Unmarshal(b, &result.attributes); err != nil {
			return state{}, err
		}
	}
	return result, nil
}

type statePostRequest struct {
	State      route.AudioMode `json:"state"`
	Attributes map[string]any  `json:"attributes,omitempty"`
}

type stateAttributes struct {
	Behavior    string   `json:"behavior"`
	Interactive bool     `json:"interactive"`
	ToggledOn   bool     `json:"toggled_on"`
	Layers      []string `json:"layers"`
	Selectable  []string `json:"selectable"`
}

func (this stateAttributes) isEqualTo(o *stateAttributes) bool {
	return this.Behavior == o.Behavior &&
		this.Interactive == o.Interactive &&
		this.ToggledOn == o.ToggledOn &&
		slices.Equal(this.Layers, o.Layers) &&
		slices.Equal(this.Selectable, o.Selectable)
}

func (this stateAttributes) applyTo(target map[string]any) {
	target["behavior"] = this.Behavior
	target["interactive"] = this.Interactive
	target["toggled_on"] = this.ToggledOn
	target["layers"] = this.Layers
	target["selectable"] = this.Selectable
}

type state struct {
	timestamp  time.Time
	mode       route.AudioMode
	attributes stateAttributes
}

func stateOf(ctx display.Context) state {
	p := ctx.Presentation()
	return state{
		timestamp: time.Now(),
		mode:      p.Mode,
		attributes: stateAttributes{
			Behavior:    p.Behavior.String(),
			Interactive: p.Interactive,
			ToggledOn:   p.ToggledOn,
			Layers:      p.Layers.VisibleLayers().Strings(),
			Selectable:  button.Choices(ctx.State()).Strings(),
		},
	}
}

func (this *state) isEqualTo(o *state) bool {
	return this.mode == o.mode &&
		this.attributes.isEqualTo(&o.attributes)
}
