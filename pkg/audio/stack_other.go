//go:build !linux && !windows

package audio

import (
	"fmt"

	"github.com/blaubaer/call-audio-button/pkg/common"
)

type Stack struct{}

func (this *Stack) SetupConfiguration(_ common.FlagHolder) {}

func (this *Stack) Initialize() error {
	return nil
}

func (this *Stack) Dispose() error {
	return nil
}

func (this *Stack) FindDevices() (Devices, error) {
	return nil, fmt.Errorf("cannot find audio devices: %w", common.ErrUnsupported)
}

func (this *Stack) SetDefault(device Device) error {
	return fmt.Errorf("cannot make %v the default: %w", device, common.ErrUnsupported)
}
