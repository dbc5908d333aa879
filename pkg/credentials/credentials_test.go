package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_MarshalBinary(t *testing.T) {
	given := Credentials{
		HueBridge:          "192.168.0.2",
		HueUser:            "abc",
		HomeAssistantToken: "secret",
	}

	actual, err := given.MarshalBinary()
	require.NoError(t, err)

	assert.JSONEq(t, `{"hue_bridge":"192.168.0.2","hue_user":"abc","homeAssistant_token":"secret"}`, string(actual))
}

func TestCredentials_UnmarshalBinary(t *testing.T) {
	actual := Credentials{HomeAssistantServer: "http://old:8123/"}

	require.NoError(t, actual.UnmarshalBinary([]byte(`{"hue_bridge":"192.168.0.2","hue_user":"abc"}`)))

	assert.Equal(t, Credentials{HueBridge: "192.168.0.2", HueUser: "abc"}, actual)
	assert.False(t, actual.IsHueZero())
	assert.True(t, actual.IsHomeAssistantZero())
	assert.False(t, actual.IsZero())
}

func TestCredentials_IsZero(t *testing.T) {
	assert.True(t, (&Credentials{}).IsZero())
	assert.False(t, (&Credentials{HomeAssistantServer: "http://ha"}).IsZero())
}

func TestCredentials_MergeFrom(t *testing.T) {
	actual := Credentials{
		HueBridge:           "192.168.0.2",
		HueUser:             "abc",
		HomeAssistantServer: "http://old:8123/",
	}

	require.NoError(t, actual.MergeFrom(Credentials{
		HomeAssistantServer: "http://ha:8123/",
		HomeAssistantToken:  "secret",
	}))

	assert.Equal(t, Credentials{
		HueBridge:           "192.168.0.2",
		HueUser:             "abc",
		HomeAssistantServer: "http://ha:8123/",
		HomeAssistantToken:  "secret",
	}, actual)
}
