package logging

import (
	"fmt"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/call-audio-button/pkg/activation"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

// Logging only records the requested routes. Useful if another program
// owns the audio routing.
type Logging struct{}

func (this *Logging) Dispose() error {
	return nil
}

func (this *Logging) Activate(mode route.AudioMode) error {
	if !route.AllModes.Has(mode) {
		return fmt.Errorf("%w: %v", activation.ErrUnsupportedMode, mode)
	}
	log.With("mode", mode).
		Info("Audio route requested.")
	return nil
}

func (this *Logging) GetType() activation.Type {
	return activation.TypeLogging
}
