package facade

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/call-audio-button/pkg/activation"
	"github.com/blaubaer/call-audio-button/pkg/audio"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

func TestFacade_logging(t *testing.T) {
	conf := NewConfiguration()
	require.NoError(t, conf.Type.Set("log"))
	selectors := audio.NewSelectors()

	var instance Facade
	assert.EqualError(t, instance.Activate(route.ModeSpeaker), "no activator initialized")

	require.NoError(t, instance.Initialize(&conf, &selectors, nil, nil))
	assert.Equal(t, activation.TypeLogging, instance.GetType())
	assert.NoError(t, instance.Activate(route.ModeSpeaker))
	assert.True(t, errors.Is(instance.Activate(route.ModeHeadset), activation.ErrUnsupportedMode))

	require.NoError(t, instance.Dispose())
	assert.Nil(t, instance.Activator)
}

func TestConfiguration_illegalType(t *testing.T) {
	conf := NewConfiguration()
	assert.EqualError(t, conf.Type.Set("magic"), "illegal-activation-type: magic")
	assert.Equal(t, "system", conf.Type.String())
}
