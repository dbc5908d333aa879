package display

import (
	"github.com/blaubaer/call-audio-button/pkg/button"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

// Display renders the current Presentation of the call audio button
// somewhere the user can see it.
type Display interface {
	Dispose() error
	Ensure(Context) error
	Update() error

	GetType() Type
}

type Context interface {
	Facts() route.Facts
	State() route.ControlState
	Presentation() button.Presentation
}

// NewContext captures one evaluation of facts into a Context.
func NewContext(facts route.Facts, state route.ControlState, presentation button.Presentation) Context {
	return staticContext{facts, state, presentation}
}

// Evaluate derives the control state and the presentation of the given facts.
func Evaluate(facts route.Facts) Context {
	state := route.Derive(facts)
	return NewContext(facts, state, button.Present(state))
}

type staticContext struct {
	facts        route.Facts
	state        route.ControlState
	presentation button.Presentation
}

func (this staticContext) Facts() route.Facts {
	return this.facts
}

func (this staticContext) State() route.ControlState {
	return this.state
}

func (this staticContext) Presentation() button.Presentation {
	return this.presentation
}
