package activation

import (
	"errors"

	"github.com/blaubaer/call-audio-button/pkg/route"
)

var ErrUnsupportedMode = errors.New("unsupported audio mode")

// Activator switches the audio route of the device. A nil error only means
// the request was handed over; whether it worked shows the next read of the
// capability facts.
type Activator interface {
	Dispose() error
	Activate(route.AudioMode) error

	GetType() Type
}
