package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/call-audio-button/pkg/activation"
	actfacade "github.com/blaubaer/call-audio-button/pkg/activation/facade"
	actsystem "github.com/blaubaer/call-audio-button/pkg/activation/system"
	"github.com/blaubaer/call-audio-button/pkg/audio"
	"github.com/blaubaer/call-audio-button/pkg/bluetooth"
	"github.com/blaubaer/call-audio-button/pkg/button"
	"github.com/blaubaer/call-audio-button/pkg/capability"
	capfacade "github.com/blaubaer/call-audio-button/pkg/capability/facade"
	capsystem "github.com/blaubaer/call-audio-button/pkg/capability/system"
	"github.com/blaubaer/call-audio-button/pkg/common"
	"github.com/blaubaer/call-audio-button/pkg/display"
	dispfacade "github.com/blaubaer/call-audio-button/pkg/display/facade"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

func NewApp() *App {
	return &App{
		Interactions: make(chan button.Event, 8),

		config:  NewConfiguration(),
		metrics: newMetrics(),
	}
}

// App reads the audio route facts, keeps every display in sync with the
// resulting button and applies the routes the user picks.
type App struct {
	AudioStack    audio.Stack
	Bluez         bluetooth.Bluez
	Capability    capfacade.Facade
	Activation    actfacade.Facade
	Display       dispfacade.Facade
	OtherDisplays []display.Display

	// Interactions receives what the user did with one of the displays.
	Interactions chan button.Event

	ConfigurationFile string

	flags   *common.FlagRecorder
	config  Configuration
	metrics *metrics

	audioStackInitialized bool
	bluezInitialized      bool

	last  display.Context
	mutex sync.RWMutex
}

func (this *App) SetupConfiguration(using common.FlagHolder) {
	this.AudioStack.SetupConfiguration(using)
	this.flags = &common.FlagRecorder{Delegate: using}
	this.config.SetupConfiguration(this.flags)

	common.Flag(using, "configuration", "Defines the file from which the configuration should be loaded and/or stored to.").
		Short('c').
		StringVar(&this.ConfigurationFile)
}

func (this *App) Run(ctx context.Context) error {
	ctxInner, cancel := context.WithCancel(ctx)
	defer cancel()

	if addr := this.config.Metrics.Listen; addr != "" {
		go func() {
			if err := this.metrics.serve(ctxInner, addr); err != nil {
				log.WithError(err).
					With("address", addr).
					Error("Cannot serve metrics.")
			}
		}()
	}

	go this.refreshLoop(ctxInner)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Check loop interrupted.")
			return nil
		case <-timer.C:
		case <-this.Capability.Changes():
			log.Debug("Change of audio route facts notified.")
		case ev := <-this.Interactions:
			this.interact(ev)
		}

		this.check()

		log.With("interval", this.config.CheckInterval).
			Trace("Wait until the next check...")
		timer.Reset(this.config.CheckInterval)
	}
}

func (this *App) refreshLoop(ctx context.Context) {
	for {
		log.With("interval", this.config.RefreshInterval).
			Debug("Wait until the next refresh...")
		select {
		case <-ctx.Done():
			log.Debug("Refresh loop interrupted.")
			return
		case <-time.After(this.config.RefreshInterval):
		}

		if err := this.Display.Update(); err != nil {
			log.WithError(err).
				Error("Cannot update display.")
			continue
		}
		for _, d := range this.OtherDisplays {
			if err := d.Update(); err != nil {
				log.WithError(err).
					With("display", d.GetType()).
					Warn("Cannot update display.")
			}
		}

		if last := this.lastContext(); last != nil {
			this.ensure(last)
		}
	}
}

// Evaluate reads the current facts and evaluates them into the button.
func (this *App) Evaluate() (display.Context, error) {
	facts, err := this.Capability.Facts()
	if err != nil {
		return nil, err
	}
	return display.Evaluate(facts), nil
}

func (this *App) check() {
	facts, err := this.Capability.Facts()
	if err != nil {
		log.WithError(err).
			Error("Cannot read audio route facts. Assume nothing is available.")
		this.metrics.onCapabilityError()
		facts = route.Facts{}
	}

	current := display.Evaluate(facts)
	presentation := current.Presentation()

	this.mutex.Lock()
	last := this.last
	this.last = current
	this.mutex.Unlock()

	if last == nil || last.Presentation() != presentation {
		l := log.With("facts", facts).
			With("presentation", presentation)
		if last != nil {
			l = l.With("lastPresentation", last.Presentation())
		}
		l.Info("Audio button changed.")
	} else {
		log.With("facts", facts).
			Trace("Audio button unchanged.")
	}

	this.metrics.onPresentation(presentation)
	this.ensure(current)
}

func (this *App) ensure(ctx display.Context) {
	if err := this.Display.Ensure(ctx); err != nil {
		log.WithError(err).
			Error("It was not possible to ensure display state.")
	}
	for _, d := range this.OtherDisplays {
		if err := d.Ensure(ctx); err != nil {
			log.WithError(err).
				With("display", d.GetType()).
				Warn("It was not possible to ensure display state.")
		}
	}
}

func (this *App) lastContext() display.Context {
	this.mutex.RLock()
	defer this.mutex.RUnlock()
	return this.last
}

func (this *App) interact(ev button.Event) {
	last := this.lastContext()
	if last == nil {
		log.With("event", ev).
			Warn("Interaction before the first check. Ignoring...")
		return
	}

	mode, ok := button.Interact(last.State(), ev)
	if !ok {
		log.With("event", ev).
			With("behavior", last.Presentation().Behavior).
			Info("Interaction does not request an audio route. Ignoring...")
		return
	}

	if err := this.activate(mode); err != nil {
		log.WithError(err).
			With("mode", mode).
			Error("Cannot activate audio route.")
	}
}

// Request applies the given route, if it could currently be chosen with the
// button.
func (this *App) Request(mode route.AudioMode) error {
	current, err := this.Evaluate()
	if err != nil {
		return err
	}
	if choices := button.Choices(current.State()); !choices.Has(mode) {
		return fmt.Errorf("audio route %v is currently not selectable; selectable are: %v", mode, choices)
	}
	return this.activate(mode)
}

func (this *App) activate(mode route.AudioMode) error {
	this.metrics.onRouteRequest(mode)
	if err := this.Activation.Activate(mode); err != nil {
		return err
	}
	log.With("mode", mode).
		Info("Audio route requested.")
	return nil
}

// Initialize prepares everything Run needs.
func (this *App) Initialize() error {
	return this.initialize(true)
}

// InitializeWithoutDisplays prepares only the capability source and the
// activator. This is enough for Evaluate and Request.
func (this *App) InitializeWithoutDisplays() error {
	return this.initialize(false)
}

func (this *App) initialize(withDisplays bool) (rErr error) {
	success := false
	defer func() {
		if !success {
			if err := this.Dispose(); err != nil && rErr == nil {
				rErr = err
			}
		}
	}()

	if err := this.config.loadFromFile(this.configurationFile(), true); err != nil {
		return err
	}
	if err := this.flags.Apply(); err != nil {
		return err
	}

	var endpoints audio.Endpoints
	var capBluez capsystem.Bluez
	var actBluez actsystem.Bluez
	if this.requiresSystem() {
		if err := this.AudioStack.Initialize(); err != nil {
			return err
		}
		this.audioStackInitialized = true
		endpoints = &this.AudioStack

		if err := this.Bluez.Initialize(); err != nil {
			log.WithError(err).
				Info("BlueZ is not available. Bluetooth is only detected by the names of the audio outputs.")
		} else {
			this.bluezInitialized = true
			capBluez, actBluez = &this.Bluez, &this.Bluez
		}
	}

	if err := this.Capability.Initialize(&this.config.Capability, &this.config.Endpoints, endpoints, capBluez); err != nil {
		return err
	}
	if err := this.Activation.Initialize(&this.config.Activation, &this.config.Endpoints, endpoints, actBluez); err != nil {
		return err
	}
	if withDisplays {
		if err := this.Display.Initialize(&this.config.Display, this.alwaysSaveConf); err != nil {
			return err
		}
	}

	if err := this.saveConf(false); err != nil {
		return err
	}

	log.With("capability", this.Capability.GetType()).
		With("activation", this.Activation.GetType()).
		With("display", this.Display.GetType()).
		Debug("Initialized.")

	success = true
	return nil
}

func (this *App) requiresSystem() bool {
	return this.config.Capability.Type == capability.TypeSystem ||
		this.config.Activation.Type == activation.TypeSystem
}

func (this *App) configurationFile() string {
	if v := this.ConfigurationFile; v != "" {
		return v
	}
	return defaultConfigurationFile()
}

func (this *App) alwaysSaveConf() error {
	return this.saveConf(true)
}

func (this *App) saveConf(always bool) error {
	if this.config.PreventAutoSave {
		log.Debug("Automatically save of configuration disabled.")
		return nil
	}

	fn := this.configurationFile()
	if !always {
		_, err := os.Stat(fn)
		if os.IsNotExist(err) {
			log.With("file", fn).Info("Configuration absent.")
		} else if err != nil {
			return err
		} else {
			return nil
		}
	}

	if err := this.config.saveToFile(fn); err != nil {
		return err
	}

	log.With("file", fn).Info("Configuration saved.")

	return nil
}

func (this *App) Dispose() (rErr error) {
	collect := func(err error) {
		if err != nil && rErr == nil {
			rErr = err
		}
	}

	for _, d := range this.OtherDisplays {
		collect(d.Dispose())
	}
	collect(this.Display.Dispose())
	collect(this.Activation.Dispose())
	collect(this.Capability.Dispose())
	if this.bluezInitialized {
		collect(this.Bluez.Dispose())
		this.bluezInitialized = false
	}
	if this.audioStackInitialized {
		collect(this.AudioStack.Dispose())
		this.audioStackInitialized = false
	}
	return
}
