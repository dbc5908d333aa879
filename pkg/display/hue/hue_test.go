package hue

import (
	"testing"

	"github.com/amimof/huego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/call-audio-button/pkg/button"
	"github.com/blaubaer/call-audio-button/pkg/credentials"
	"github.com/blaubaer/call-audio-button/pkg/display"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

func TestLightState_Set(t *testing.T) {
	cases := map[string]LightState{
		"off":               {},
		" OFF ":             {},
		"on,254,46920,254":  {true, 254, 46920, 254},
		"10, 25500, 20":     {true, 10, 25500, 20},
		"on, 10, 25500, 20": {true, 10, 25500, 20},
	}
	for plain, expected := range cases {
		t.Run(plain, func(t *testing.T) {
			var actual LightState
			require.NoError(t, actual.Set(plain))
			assert.Equal(t, expected, actual)
		})
	}
}

func TestLightState_Set_failing(t *testing.T) {
	for _, plain := range []string{"", "on", "off,1,2,3", "on,255,1", "on,256,1,1", "on,1,65536,1", "on,a,b,c"} {
		t.Run(plain, func(t *testing.T) {
			var actual LightState
			assert.EqualError(t, actual.Set(plain), "illegal-display-hue-light-state: "+plain)
		})
	}
}

func TestLightState_String(t *testing.T) {
	assert.Equal(t, "off", LightState{Brightness: 3}.String())
	assert.Equal(t, "on,254,46920,254", LightState{true, 254, 46920, 254}.String())
}

func TestLightState_ensure(t *testing.T) {
	on := LightState{true, 254, 46920, 254}

	assert.Nil(t, on.ensure(&huego.State{On: true, Bri: 254, Hue: 46920, Sat: 254}))
	assert.Equal(t, &huego.State{On: true, Bri: 254, Hue: 46920, Sat: 254}, on.ensure(&huego.State{On: false, Bri: 254, Hue: 46920, Sat: 254}))
	assert.Equal(t, &huego.State{On: true, Bri: 254, Hue: 46920, Sat: 254}, on.ensure(&huego.State{On: true, Bri: 254, Hue: 1, Sat: 254}))
	assert.Equal(t, &huego.State{On: true, Bri: 254, Hue: 46920, Sat: 254}, on.ensure(nil))

	off := LightState{}
	assert.Nil(t, off.ensure(&huego.State{On: false, Bri: 3}))
	assert.Nil(t, off.ensure(nil))
	assert.Equal(t, &huego.State{On: false}, off.ensure(&huego.State{On: true}))
}

func TestIcons_Of(t *testing.T) {
	icons := NewConfiguration().Icons

	actual, err := icons.Of(button.LayerBluetoothIcon)
	require.NoError(t, err)
	assert.Equal(t, icons.Bluetooth, actual)

	actual, err = icons.Of(button.LayerSpeakerOffIcon)
	require.NoError(t, err)
	assert.False(t, actual.On)

	_, err = icons.Of(button.LayerMoreIndicator)
	assert.EqualError(t, err, "moreIndicator is not an icon layer")
}

func TestHue_targetOf(t *testing.T) {
	conf := NewConfiguration()
	instance := Hue{conf: &conf}

	actual, err := instance.targetOf(display.Evaluate(route.Facts{SpeakerphoneOn: true}))
	require.NoError(t, err)
	assert.Equal(t, conf.Icons.SpeakerOn, actual)

	actual, err = instance.targetOf(display.Evaluate(route.Facts{BluetoothAvailable: true}))
	require.NoError(t, err)
	assert.Equal(t, conf.Icons.Handset, actual)

	broken := button.Presentation{Layers: button.NewLayerSet(button.LayerHandsetIcon, button.LayerSpeakerOnIcon)}
	_, err = instance.targetOf(display.NewContext(route.Facts{}, route.ControlState{}, broken))
	assert.EqualError(t, err, "there is not exactly one icon visible: handsetIcon,speakerOnIcon")
}

func TestHue_Ensure_withoutChanges(t *testing.T) {
	conf := NewConfiguration()
	instance := Hue{
		conf:        &conf,
		credentials: credentials.Credentials{HueBridge: "127.0.0.1:1", HueUser: "abc"},
		lights: []huego.Light{
			{ID: 1, Name: "CallAudio Desk", State: &huego.State{On: true, Bri: 254, Hue: 46920, Sat: 254}},
		},
		groups: []huego.Group{
			{ID: 2, Name: "CallAudio Room", State: &huego.State{On: true, Bri: 254, Hue: 46920, Sat: 254}},
		},
	}

	err := instance.Ensure(display.Evaluate(route.Facts{BluetoothAvailable: true, BluetoothAudioConnectedOrPending: true}))

	assert.NoError(t, err)
}

func TestHue_Ensure_notPaired(t *testing.T) {
	conf := NewConfiguration()
	instance := Hue{conf: &conf}

	err := instance.Ensure(display.Evaluate(route.Facts{}))

	assert.EqualError(t, err, "not paired with hue bridge")
}

type recordingStore struct {
	stored    credentials.Credentials
	supported bool
}

func (this *recordingStore) Read() (credentials.Credentials, bool, error) {
	return this.stored, this.supported, nil
}

func (this *recordingStore) Write(v credentials.Credentials) (bool, error) {
	if this.supported {
		this.stored = v
	}
	return this.supported, nil
}

func TestHue_storeCredentials_toStore(t *testing.T) {
	conf := NewConfiguration()
	store := &recordingStore{supported: true, stored: credentials.Credentials{HomeAssistantToken: "secret"}}
	instance := Hue{conf: &conf, store: store}

	require.NoError(t, instance.storeCredentials(credentials.Credentials{HueBridge: "bridge", HueUser: "user"}))

	assert.Equal(t, credentials.Credentials{HueBridge: "bridge", HueUser: "user", HomeAssistantToken: "secret"}, store.stored)
	assert.Empty(t, conf.User)
}

func TestHue_storeCredentials_toConfiguration(t *testing.T) {
	conf := NewConfiguration()
	saved := 0
	instance := Hue{conf: &conf, store: &recordingStore{}, saveConfFunc: func() error {
		saved++
		return nil
	}}

	require.NoError(t, instance.storeCredentials(credentials.Credentials{HueBridge: "bridge", HueUser: "user"}))

	assert.Equal(t, "bridge", conf.Bridge)
	assert.Equal(t, "user", conf.User)
	assert.Equal(t, 1, saved)
}

func TestKinds_Has(t *testing.T) {
	assert.True(t, Kinds{}.Has(KindGroup))
	assert.True(t, Kinds{KindGroup}.Has(KindGroup))
	assert.False(t, Kinds{KindGroup}.Has(KindLight))

	var actual Kinds
	require.NoError(t, actual.Set("light, room"))
	assert.Equal(t, AllKinds, actual)
	assert.EqualError(t, actual.Set("lamp"), "illegal-display-hue-kind: lamp")
}
