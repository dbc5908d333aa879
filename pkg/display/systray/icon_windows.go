//go:build windows

package systray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
)

// toIcon wraps the PNG into an ICO container with one entry, as the
// windows tray does only accept icons.
func toIcon(plainPng []byte, bounds image.Rectangle) ([]byte, error) {
	w, h := bounds.Dx(), bounds.Dy()
	if w > 256 || h > 256 {
		return nil, fmt.Errorf("icon of %dx%d is too large", w, h)
	}

	var buf bytes.Buffer
	write := func(v any) {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}

	// ICONDIR
	write(uint16(0))
	write(uint16(1))
	write(uint16(1))

	// ICONDIRENTRY, 256 is encoded as 0
	write(uint8(w))
	write(uint8(h))
	write(uint8(0))
	write(uint8(0))
	write(uint16(1))
	write(uint16(32))
	write(uint32(len(plainPng)))
	write(uint32(6 + 16))

	buf.Write(plainPng)
	return buf.Bytes(), nil
}
