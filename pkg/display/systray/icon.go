package systray

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"sync"

	"github.com/blaubaer/call-audio-button/pkg/button"
)

// Assets holds the PNG artwork of every button.Layer. All layers have to
// share the same dimensions.
type Assets map[button.Layer][]byte

func (this Assets) Validate() error {
	for _, l := range button.AllLayers {
		if len(this[l]) == 0 {
			return fmt.Errorf("there is no artwork for layer %v", l)
		}
	}
	return nil
}

// icons composes the visible layers of a LayerSet into one tray icon and
// remembers every composition it did before.
type icons struct {
	assets Assets

	decoded map[button.Layer]image.Image
	cache   map[button.LayerSet][]byte
	mutex   sync.Mutex
}

func newIcons(assets Assets) *icons {
	return &icons{
		assets:  assets,
		decoded: make(map[button.Layer]image.Image),
		cache:   make(map[button.LayerSet][]byte),
	}
}

func (this *icons) of(layers button.LayerSet) ([]byte, error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if v, ok := this.cache[layers]; ok {
		return v, nil
	}

	canvas, err := this.compose(layers)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("cannot encode icon of %v: %w", layers, err)
	}
	result, err := toIcon(buf.Bytes(), canvas.Bounds())
	if err != nil {
		return nil, fmt.Errorf("cannot create icon of %v: %w", layers, err)
	}

	this.cache[layers] = result
	return result, nil
}

func (this *icons) compose(layers button.LayerSet) (*image.NRGBA, error) {
	var canvas *image.NRGBA
	for _, l := range layers.VisibleLayers() {
		img, err := this.layer(l)
		if err != nil {
			return nil, err
		}
		if canvas == nil {
			b := img.Bounds()
			canvas = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		} else if b := img.Bounds(); b.Dx() != canvas.Rect.Dx() || b.Dy() != canvas.Rect.Dy() {
			return nil, fmt.Errorf("artwork of layer %v is %dx%d but expected is %dx%d", l, b.Dx(), b.Dy(), canvas.Rect.Dx(), canvas.Rect.Dy())
		}
		draw.Draw(canvas, canvas.Rect, img, img.Bounds().Min, draw.Over)
	}
	if canvas == nil {
		return nil, fmt.Errorf("there are no visible layers")
	}
	return canvas, nil
}

func (this *icons) layer(l button.Layer) (image.Image, error) {
	if v, ok := this.decoded[l]; ok {
		return v, nil
	}
	plain := this.assets[l]
	if len(plain) == 0 {
		return nil, fmt.Errorf("there is no artwork for layer %v", l)
	}
	v, err := png.Decode(bytes.NewReader(plain))
	if err != nil {
		return nil, fmt.Errorf("cannot decode artwork of layer %v: %w", l, err)
	}
	this.decoded[l] = v
	return v, nil
}
