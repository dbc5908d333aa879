package systray

import (
	"fmt"
	"sync"

	log "github.com/echocat/slf4g"
	"github.com/getlantern/systray"

	"github.com/blaubaer/call-audio-button/pkg/button"
	"github.com/blaubaer/call-audio-button/pkg/display"
)

// Systray shows the audio button as tray icon. Its menu offers the same
// interactions as the button itself, which are reported as button.Event to
// Events.
type Systray struct {
	Assets Assets
	Events chan<- button.Event

	icons *icons

	toggle      *systray.MenuItem
	picks       [3]*systray.MenuItem
	unavailable *systray.MenuItem

	last  *menuState
	done  chan struct{}
	mutex sync.Mutex
	once  sync.Once
}

// Initialize has to be called while the tray is ready. The menu items of
// this display are added at the current end of the tray menu.
func (this *Systray) Initialize() error {
	if err := this.Assets.Validate(); err != nil {
		return err
	}

	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.icons = newIcons(this.Assets)
	this.done = make(chan struct{})

	this.toggle = systray.AddMenuItemCheckbox("Speaker", "Play the call on the speakerphone.", false)
	this.toggle.Hide()
	go this.listen(this.toggle, this.toggleEvent)

	for i, mode := range pickModes {
		item := systray.AddMenuItemCheckbox(modeTitle(mode), fmt.Sprintf("Play the call on the %s.", modeTitle(mode)), false)
		item.Hide()
		this.picks[i] = item
		go this.listen(item, func() button.Event {
			return button.Selected(mode)
		})
	}

	this.unavailable = systray.AddMenuItem("Audio route cannot be changed", "")
	this.unavailable.Disable()
	this.unavailable.Hide()

	systray.AddSeparator()

	return nil
}

func (this *Systray) listen(item *systray.MenuItem, eventOf func() button.Event) {
	for {
		select {
		case <-this.done:
			return
		case <-item.ClickedCh:
			ev := eventOf()
			log.With("event", ev).Debug("Tray menu clicked.")
			if this.Events == nil {
				continue
			}
			select {
			case this.Events <- ev:
			case <-this.done:
				return
			}
		}
	}
}

func (this *Systray) toggleEvent() button.Event {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return toggleEventOf(this.last)
}

func (this *Systray) Dispose() error {
	this.once.Do(func() {
		if this.done != nil {
			close(this.done)
		}
	})
	return nil
}

func (this *Systray) Ensure(ctx display.Context) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.icons == nil {
		return fmt.Errorf("systray display not initialized")
	}

	icon, err := this.icons.of(ctx.Presentation().Layers)
	if err != nil {
		return err
	}
	systray.SetIcon(icon)

	target := menuStateOf(ctx)
	if this.last != nil && *this.last == target {
		return nil
	}

	ensureItem(this.toggle, target.toggle)
	for i, item := range this.picks {
		ensureItem(item, target.picks[i])
	}
	ensureItem(this.unavailable, target.unavailable)
	systray.SetTooltip(target.tooltip)

	this.last = &target
	return nil
}

func ensureItem(item *systray.MenuItem, state itemState) {
	if state.checked {
		item.Check()
	} else {
		item.Uncheck()
	}
	if state.visible {
		item.Show()
	} else {
		item.Hide()
	}
}

func (this *Systray) Update() error {
	return nil
}

func (this *Systray) GetType() display.Type {
	return display.TypeSystray
}
