package button

import (
	"fmt"

	"github.com/blaubaer/call-audio-button/pkg/route"
)

type EventKind uint8

const (
	// EventToggle is a click on the button while it behaves as a toggle.
	EventToggle = EventKind(0)
	// EventSelect is the choice of one route out of a picker.
	EventSelect = EventKind(1)
)

func (this EventKind) String() string {
	switch this {
	case EventToggle:
		return "toggle"
	case EventSelect:
		return "select"
	default:
		return fmt.Sprintf("illegal-button-event-kind-%d", this)
	}
}

// Event is one user interaction with the audio button.
type Event struct {
	Kind EventKind
	// On is the new checked state of a toggle.
	On bool
	// Mode is the chosen route of a selection.
	Mode route.AudioMode
}

func Toggled(on bool) Event {
	return Event{Kind: EventToggle, On: on}
}

func Selected(mode route.AudioMode) Event {
	return Event{Kind: EventSelect, Mode: mode}
}

func (this Event) String() string {
	switch this.Kind {
	case EventToggle:
		return fmt.Sprintf("toggle(%v)", this.On)
	case EventSelect:
		return fmt.Sprintf("select(%v)", this.Mode)
	default:
		return this.Kind.String()
	}
}

// Choices returns the routes the button can request for the given state: all
// selectable routes as picker, handset and speaker as toggle, nothing if
// disabled.
func Choices(state route.ControlState) route.Modes {
	switch Present(state).Behavior {
	case BehaviorPicker:
		return state.SelectableModes()
	case BehaviorToggle:
		return route.Modes{route.ModeDefault, route.ModeSpeaker}
	default:
		return nil
	}
}

// Interact decides which route, if any, a user event requests. ok is false if
// the event has no meaning for the current behavior of the button: a toggle
// of a picker, a selection on a toggle, anything on a disabled button or a
// selection of a route that is not offered.
func Interact(state route.ControlState, event Event) (mode route.AudioMode, ok bool) {
	switch Present(state).Behavior {
	case BehaviorToggle:
		if event.Kind != EventToggle {
			return route.ModeDefault, false
		}
		if event.On {
			return route.ModeSpeaker, true
		}
		return route.ModeDefault, true
	case BehaviorPicker:
		if event.Kind != EventSelect {
			return route.ModeDefault, false
		}
		if !state.SelectableModes().Has(event.Mode) {
			return route.ModeDefault, false
		}
		return event.Mode, true
	default:
		return route.ModeDefault, false
	}
}
