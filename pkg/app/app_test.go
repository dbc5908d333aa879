package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/call-audio-button/pkg/activation"
	"github.com/blaubaer/call-audio-button/pkg/button"
	"github.com/blaubaer/call-audio-button/pkg/capability"
	"github.com/blaubaer/call-audio-button/pkg/display"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

type fakeSource struct {
	mutex   sync.Mutex
	facts   route.Facts
	err     error
	changes chan struct{}
}

func (this *fakeSource) Dispose() error {
	return nil
}

func (this *fakeSource) Facts() (route.Facts, error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.facts, this.err
}

func (this *fakeSource) Changes() <-chan struct{} {
	return this.changes
}

func (this *fakeSource) GetType() capability.Type {
	return capability.TypeStatic
}

func (this *fakeSource) set(facts route.Facts) {
	this.mutex.Lock()
	this.facts = facts
	this.mutex.Unlock()
	this.changes <- struct{}{}
}

// fakeActivator applies every requested route to the fakeSource, like a
// real device would.
type fakeActivator struct {
	source    *fakeSource
	mutex     sync.Mutex
	requested route.Modes
}

func (this *fakeActivator) Dispose() error {
	return nil
}

func (this *fakeActivator) Activate(mode route.AudioMode) error {
	this.mutex.Lock()
	this.requested = append(this.requested, mode)
	this.mutex.Unlock()

	this.source.mutex.Lock()
	defer this.source.mutex.Unlock()
	switch mode {
	case route.ModeSpeaker:
		this.source.facts.SpeakerphoneOn = true
		this.source.facts.BluetoothAudioConnectedOrPending = false
	case route.ModeBluetooth:
		this.source.facts.SpeakerphoneOn = false
		this.source.facts.BluetoothAudioConnectedOrPending = true
	case route.ModeDefault:
		this.source.facts.SpeakerphoneOn = false
		this.source.facts.BluetoothAudioConnectedOrPending = false
	default:
		return activation.ErrUnsupportedMode
	}
	return nil
}

func (this *fakeActivator) GetType() activation.Type {
	return activation.TypeLogging
}

func (this *fakeActivator) allRequested() route.Modes {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return append(route.Modes{}, this.requested...)
}

type recordingDisplay struct {
	mutex   sync.Mutex
	ensured []button.Presentation
	updated int
}

func (this *recordingDisplay) Dispose() error {
	return nil
}

func (this *recordingDisplay) Ensure(ctx display.Context) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.ensured = append(this.ensured, ctx.Presentation())
	return nil
}

func (this *recordingDisplay) Update() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.updated++
	return nil
}

func (this *recordingDisplay) GetType() display.Type {
	return display.TypeSystray
}

func (this *recordingDisplay) last() (button.Presentation, bool) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	if len(this.ensured) == 0 {
		return button.Presentation{}, false
	}
	return this.ensured[len(this.ensured)-1], true
}

func (this *recordingDisplay) numberOfUpdates() int {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.updated
}

func givenApp(facts route.Facts) (*App, *fakeSource, *fakeActivator, *recordingDisplay) {
	source := &fakeSource{facts: facts, changes: make(chan struct{})}
	activator := &fakeActivator{source: source}
	d := &recordingDisplay{}

	instance := NewApp()
	instance.config.CheckInterval = time.Hour
	instance.config.RefreshInterval = time.Hour
	instance.Capability.Source = source
	instance.Activation.Activator = activator
	instance.OtherDisplays = []display.Display{d}
	return instance, source, activator, d
}

func runApp(t *testing.T, instance *App) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- instance.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
}

func presentationIs(d *recordingDisplay, expected button.Presentation) func() bool {
	return func() bool {
		actual, ok := d.last()
		return ok && actual == expected
	}
}

func TestApp_Run_presentsOnStart(t *testing.T) {
	instance, _, _, d := givenApp(route.Facts{SpeakerphoneOn: true})

	runApp(t, instance)

	expected := button.Present(route.Derive(route.Facts{SpeakerphoneOn: true}))
	require.Eventually(t, presentationIs(d, expected), time.Second, 5*time.Millisecond)
	assert.Equal(t, button.BehaviorToggle, expected.Behavior)
	assert.True(t, expected.ToggledOn)
}

func TestApp_Run_followsNotifiedChanges(t *testing.T) {
	instance, source, _, d := givenApp(route.Facts{})
	runApp(t, instance)
	require.Eventually(t, presentationIs(d, button.Present(route.Derive(route.Facts{}))), time.Second, 5*time.Millisecond)

	source.set(route.Facts{BluetoothAvailable: true, BluetoothAudioConnectedOrPending: true})

	expected := button.Present(route.Derive(route.Facts{BluetoothAvailable: true, BluetoothAudioConnectedOrPending: true}))
	require.Eventually(t, presentationIs(d, expected), time.Second, 5*time.Millisecond)
	assert.Equal(t, route.ModeBluetooth, expected.Mode)
}

func TestApp_Run_toggleSpeaker(t *testing.T) {
	instance, _, activator, d := givenApp(route.Facts{})
	runApp(t, instance)
	require.Eventually(t, presentationIs(d, button.Present(route.Derive(route.Facts{}))), time.Second, 5*time.Millisecond)

	instance.Interactions <- button.Toggled(true)

	expected := button.Present(route.Derive(route.Facts{SpeakerphoneOn: true}))
	require.Eventually(t, presentationIs(d, expected), time.Second, 5*time.Millisecond)
	assert.Equal(t, route.Modes{route.ModeSpeaker}, activator.allRequested())
	assert.Equal(t, 1.0, testutil.ToFloat64(instance.metrics.routeRequests.WithLabelValues("speaker")))
	assert.Equal(t, 1.0, testutil.ToFloat64(instance.metrics.activeRoute.WithLabelValues("speaker")))
}

func TestApp_Run_pickBluetooth(t *testing.T) {
	facts := route.Facts{BluetoothAvailable: true}
	instance, _, activator, d := givenApp(facts)
	runApp(t, instance)
	require.Eventually(t, presentationIs(d, button.Present(route.Derive(facts))), time.Second, 5*time.Millisecond)

	instance.Interactions <- button.Selected(route.ModeBluetooth)

	expected := button.Present(route.Derive(route.Facts{BluetoothAvailable: true, BluetoothAudioConnectedOrPending: true}))
	require.Eventually(t, presentationIs(d, expected), time.Second, 5*time.Millisecond)
	assert.Equal(t, route.Modes{route.ModeBluetooth}, activator.allRequested())
}

func TestApp_Run_ignoresToggleWhilePicker(t *testing.T) {
	facts := route.Facts{BluetoothAvailable: true}
	instance, _, activator, d := givenApp(facts)
	runApp(t, instance)
	require.Eventually(t, presentationIs(d, button.Present(route.Derive(facts))), time.Second, 5*time.Millisecond)

	instance.Interactions <- button.Toggled(true)
	instance.Interactions <- button.Selected(route.ModeSpeaker)

	require.Eventually(t, func() bool {
		return len(activator.allRequested()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, route.Modes{route.ModeSpeaker}, activator.allRequested())
}

func TestApp_Run_capabilityErrorMeansNothingAvailable(t *testing.T) {
	instance, source, _, d := givenApp(route.Facts{BluetoothAvailable: true, SpeakerphoneOn: true})
	source.err = errors.New("expected")

	runApp(t, instance)

	require.Eventually(t, presentationIs(d, button.Present(route.Derive(route.Facts{}))), time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(instance.metrics.capabilityErrors), 1.0)
}

func TestApp_Run_refreshesDisplays(t *testing.T) {
	instance, _, _, d := givenApp(route.Facts{})
	instance.config.RefreshInterval = 10 * time.Millisecond

	runApp(t, instance)

	require.Eventually(t, func() bool {
		return d.numberOfUpdates() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestApp_Request(t *testing.T) {
	instance, _, activator, _ := givenApp(route.Facts{})

	require.NoError(t, instance.Request(route.ModeSpeaker))
	assert.EqualError(t, instance.Request(route.ModeBluetooth), "audio route bluetooth is currently not selectable; selectable are: default,speaker")

	assert.Equal(t, route.Modes{route.ModeSpeaker}, activator.allRequested())
}

func TestApp_Evaluate(t *testing.T) {
	instance, source, _, _ := givenApp(route.Facts{BluetoothAvailable: true})

	actual, err := instance.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, button.BehaviorPicker, actual.Presentation().Behavior)

	source.err = errors.New("expected")
	_, err = instance.Evaluate()
	assert.EqualError(t, err, "expected")
}
