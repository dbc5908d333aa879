package app

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/call-audio-button/pkg/activation"
	"github.com/blaubaer/call-audio-button/pkg/capability"
	"github.com/blaubaer/call-audio-button/pkg/common"
	"github.com/blaubaer/call-audio-button/pkg/display"
	"github.com/blaubaer/call-audio-button/pkg/display/hue"
)

func TestConfiguration_loadFrom(t *testing.T) {
	actual := NewConfiguration()

	require.NoError(t, actual.loadFrom(strings.NewReader(`
checkInterval: 5s
capability:
  type: static
  static:
    bluetoothAvailable: true
endpoints:
  speaker: "^Built-in"
display:
  type: hue
  hue:
    icons:
      handset:
        on: true
        brightness: 100
        hue: 25500
        saturation: 200
`)))

	assert.Equal(t, 5*time.Second, actual.CheckInterval)
	assert.Equal(t, time.Minute, actual.RefreshInterval)
	assert.Equal(t, capability.TypeStatic, actual.Capability.Type)
	assert.True(t, actual.Capability.Static.BluetoothAvailable)
	assert.Equal(t, "^Built-in", actual.Endpoints.Speaker.String())
	assert.True(t, actual.Endpoints.Handset.HasContent())
	assert.Equal(t, display.TypeHue, actual.Display.Type)
	assert.Equal(t, uint8(100), actual.Display.Hue.Icons.Handset.Brightness)
	assert.Equal(t, uint16(46920), actual.Display.Hue.Icons.Bluetooth.Hue)
}

func TestConfiguration_loadFrom_empty(t *testing.T) {
	actual := NewConfiguration()

	require.NoError(t, actual.loadFrom(strings.NewReader("")))

	assert.Equal(t, NewConfiguration().CheckInterval, actual.CheckInterval)
}

func TestConfiguration_loadFrom_unknownField(t *testing.T) {
	actual := NewConfiguration()

	err := actual.loadFrom(strings.NewReader("foo: bar\n"))

	assert.ErrorContains(t, err, "field foo not found")
}

func TestConfiguration_saveTo_roundTrip(t *testing.T) {
	given := NewConfiguration()
	given.Activation.Type = activation.TypeLogging
	given.Metrics.Listen = ":9120"

	var buf bytes.Buffer
	require.NoError(t, given.saveTo(&buf))

	actual := NewConfiguration()
	require.NoError(t, actual.loadFrom(&buf))
	assert.Equal(t, activation.TypeLogging, actual.Activation.Type)
	assert.Equal(t, ":9120", actual.Metrics.Listen)
	assert.Equal(t, given.Endpoints.Bluetooth.String(), actual.Endpoints.Bluetooth.String())
}

func TestConfiguration_saveToFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sub", "configuration.yml")
	given := NewConfiguration()
	given.CheckInterval = 3 * time.Second

	require.NoError(t, given.saveToFile(fn))

	actual := NewConfiguration()
	require.NoError(t, actual.loadFromFile(fn, false))
	assert.Equal(t, 3*time.Second, actual.CheckInterval)
}

func TestConfiguration_loadFromFile_absent(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "absent.yml")
	actual := NewConfiguration()

	assert.NoError(t, actual.loadFromFile(fn, true))
	assert.ErrorContains(t, actual.loadFromFile(fn, false), "cannot open configuration file")
}

func parseFlagsOnto(t *testing.T, target *Configuration, args ...string) *common.FlagRecorder {
	t.Helper()
	cmd := kingpin.New("test", "")
	flags := &common.FlagRecorder{Delegate: cmd}
	target.SetupConfiguration(flags)
	_, err := cmd.Parse(args)
	require.NoError(t, err)
	return flags
}

func TestConfiguration_flagsOverFile(t *testing.T) {
	actual := NewConfiguration()
	defaultSpeaker := actual.Endpoints.Speaker.String()
	flags := parseFlagsOnto(t, &actual,
		"--capability=static",
		"--capability.static.speakerphoneOn",
		"--endpoints.handset=(?i)earpiece",
		"--refreshInterval=10m",
	)

	require.NoError(t, actual.loadFrom(strings.NewReader("refreshInterval: 2m\ncheckInterval: 2s\n")))
	require.NoError(t, flags.Apply())

	assert.Equal(t, capability.TypeStatic, actual.Capability.Type)
	assert.True(t, actual.Capability.Static.SpeakerphoneOn)
	assert.Equal(t, "(?i)earpiece", actual.Endpoints.Handset.String())
	assert.Equal(t, defaultSpeaker, actual.Endpoints.Speaker.String())
	assert.Equal(t, 10*time.Minute, actual.RefreshInterval)
	assert.Equal(t, 2*time.Second, actual.CheckInterval)
}

func TestConfiguration_flagsOverFile_zeroValues(t *testing.T) {
	actual := NewConfiguration()
	flags := parseFlagsOnto(t, &actual,
		"--capability=system",
		"--activation=system",
		"--display.hue.handset=off",
		"--no-capability.static.bluetoothAvailable",
		"--display.hue.kind=light",
	)

	require.NoError(t, actual.loadFrom(strings.NewReader(`
capability:
  type: static
  static:
    bluetoothAvailable: true
activation:
  type: logging
display:
  hue:
    kinds: [group]
    icons:
      handset:
        on: true
        brightness: 100
        hue: 25500
        saturation: 200
`)))
	require.NoError(t, flags.Apply())

	assert.Equal(t, capability.TypeSystem, actual.Capability.Type)
	assert.Equal(t, activation.TypeSystem, actual.Activation.Type)
	assert.Equal(t, hue.LightState{}, actual.Display.Hue.Icons.Handset)
	assert.False(t, actual.Capability.Static.BluetoothAvailable)
	assert.Equal(t, hue.Kinds{hue.KindLight}, actual.Display.Hue.Kinds)
}

func TestConfiguration_flagsOverFile_envar(t *testing.T) {
	t.Setenv(common.Envar("capability"), "system")

	actual := NewConfiguration()
	flags := parseFlagsOnto(t, &actual)

	require.NoError(t, actual.loadFrom(strings.NewReader("capability:\n  type: static\ncheckInterval: 2s\n")))
	require.NoError(t, flags.Apply())

	assert.Equal(t, capability.TypeSystem, actual.Capability.Type)
	assert.Equal(t, 2*time.Second, actual.CheckInterval)
}
