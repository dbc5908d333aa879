package capability

import "github.com/blaubaer/call-audio-button/pkg/route"

// Source supplies the raw capability facts of the device on demand.
//
// If a fact cannot be read the source should rather report it as false than
// fail. If Facts fails anyway the caller treats all facts as unavailable.
type Source interface {
	Dispose() error
	Facts() (route.Facts, error)

	GetType() Type
}

// Notifier is implemented by sources that can tell when their facts might
// have changed. Polling is still required, notifications only speed it up.
type Notifier interface {
	Changes() <-chan struct{}
}
