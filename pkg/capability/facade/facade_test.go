package facade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/call-audio-button/pkg/audio"
	"github.com/blaubaer/call-audio-button/pkg/capability"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

func TestFacade_static(t *testing.T) {
	conf := NewConfiguration()
	require.NoError(t, conf.Type.Set("static"))
	conf.Static.SpeakerphoneOn = true
	selectors := audio.NewSelectors()

	var instance Facade
	actual, err := instance.Facts()
	require.NoError(t, err)
	assert.Equal(t, route.Facts{}, actual)

	require.NoError(t, instance.Initialize(&conf, &selectors, nil, nil))
	assert.Equal(t, capability.TypeStatic, instance.GetType())
	assert.Nil(t, instance.Changes())

	actual, err = instance.Facts()
	require.NoError(t, err)
	assert.Equal(t, route.Facts{SpeakerphoneOn: true}, actual)

	require.NoError(t, instance.Dispose())
	assert.Nil(t, instance.Source)
}

func TestFacade_systemRequiresEndpoints(t *testing.T) {
	conf := NewConfiguration()
	selectors := audio.NewSelectors()

	var instance Facade
	assert.EqualError(t, instance.Initialize(&conf, &selectors, nil, nil), "no audio endpoints provided")
	assert.Nil(t, instance.Source)
}
