package systray

import (
	"fmt"

	"github.com/blaubaer/call-audio-button/pkg/button"
	"github.com/blaubaer/call-audio-button/pkg/display"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

// pickModes are offered in this order while the button behaves as a picker.
var pickModes = route.Modes{
	route.ModeDefault,
	route.ModeSpeaker,
	route.ModeBluetooth,
}

type itemState struct {
	visible bool
	checked bool
}

// menuState is what the tray menu should look like for one Context.
type menuState struct {
	toggle      itemState
	picks       [3]itemState
	unavailable itemState
	tooltip     string
}

func menuStateOf(ctx display.Context) (result menuState) {
	p := ctx.Presentation()

	switch p.Behavior {
	case button.BehaviorToggle:
		result.toggle = itemState{visible: true, checked: p.ToggledOn}
	case button.BehaviorPicker:
		choices := button.Choices(ctx.State())
		for i, mode := range pickModes {
			result.picks[i] = itemState{
				visible: choices.Has(mode),
				checked: p.Mode == mode,
			}
		}
	default:
		result.unavailable = itemState{visible: true}
	}

	result.tooltip = tooltipOf(p)
	return
}

// toggleEventOf flips the speaker checkbox as it was last shown.
func toggleEventOf(last *menuState) button.Event {
	on := last != nil && last.toggle.checked
	return button.Toggled(!on)
}

func tooltipOf(p button.Presentation) string {
	switch p.Behavior {
	case button.BehaviorPicker:
		return fmt.Sprintf("Call audio: %s\nClick to pick another route.", modeTitle(p.Mode))
	case button.BehaviorToggle:
		if p.ToggledOn {
			return "Call audio: Speaker on"
		}
		return "Call audio: Speaker off"
	default:
		return fmt.Sprintf("Call audio: %s\nThe route cannot be changed.", modeTitle(p.Mode))
	}
}

func modeTitle(mode route.AudioMode) string {
	switch mode {
	case route.ModeDefault:
		return "Handset"
	case route.ModeSpeaker:
		return "Speaker"
	case route.ModeBluetooth:
		return "Bluetooth"
	case route.ModeHeadset:
		return "Headset"
	default:
		return mode.String()
	}
}
