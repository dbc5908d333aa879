//go:build !windows

package systray

import "image"

// toIcon returns the PNG as is, the tray of this platform takes PNGs.
func toIcon(plainPng []byte, _ image.Rectangle) ([]byte, error) {
	return plainPng, nil
}
