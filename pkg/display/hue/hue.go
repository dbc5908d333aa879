package hue

import (
	"fmt"
	"sync"
	"time"

	"github.com/amimof/huego"
	log "github.com/echocat/slf4g"

	"github.com/blaubaer/call-audio-button/pkg/common"
	"github.com/blaubaer/call-audio-button/pkg/credentials"
	"github.com/blaubaer/call-audio-button/pkg/display"
)

const appName = "github.com/blaubaer/call-audio-button"

// Hue colours the matching lights and groups of a Philips Hue bridge by the
// icon the button currently shows.
type Hue struct {
	conf         *Configuration
	saveConfFunc func() error
	store        credentials.Store

	lights      []huego.Light
	groups      []huego.Group
	credentials credentials.Credentials
	mutex       sync.Mutex
}

func (this *Hue) Update() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	bridge, err := this.bridge()
	if err != nil {
		return err
	}

	lights, err := this.discoverLights(bridge)
	if err != nil {
		return err
	}
	groups, err := this.discoverGroups(bridge)
	if err != nil {
		return err
	}

	this.lights = lights
	this.groups = groups

	log.With("lights", len(lights)).
		With("groups", len(groups)).
		Debug("Hue targets discovered.")

	return nil
}

func (this *Hue) discoverLights(bridge *huego.Bridge) (result []huego.Light, _ error) {
	if this.conf.Kinds.Has(KindLight) {
		candidates, err := bridge.GetLights()
		if err != nil {
			return nil, fmt.Errorf("cannot discover lights of bridge %s: %w", bridge.Host, err)
		}
		for _, candidate := range candidates {
			if this.conf.Name.MatchString(candidate.Name) {
				if candidate.State == nil {
					candidate.State = &huego.State{}
				}
				result = append(result, candidate)
			}
		}
	}
	return
}

func (this *Hue) discoverGroups(bridge *huego.Bridge) (result []huego.Group, _ error) {
	if this.conf.Kinds.Has(KindGroup) {
		candidates, err := bridge.GetGroups()
		if err != nil {
			return nil, fmt.Errorf("cannot discover groups of bridge %s: %w", bridge.Host, err)
		}
		for _, candidate := range candidates {
			if this.conf.Name.MatchString(candidate.Name) {
				if candidate.State == nil {
					candidate.State = &huego.State{}
				}
				result = append(result, candidate)
			}
		}
	}
	return
}

func (this *Hue) Ensure(ctx display.Context) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	target, err := this.targetOf(ctx)
	if err != nil {
		return err
	}

	bridge, err := this.bridge()
	if err != nil {
		return err
	}

	for i, v := range this.lights {
		if newState := target.ensure(v.State); newState != nil {
			if _, err := bridge.SetLightState(v.ID, *newState); err != nil {
				return fmt.Errorf("cannot switch to hue light state %v for light %q#%d: %w", target, v.Name, v.ID, err)
			}
			this.lights[i].State = newState
		}
	}
	for i, v := range this.groups {
		if newState := target.ensure(v.State); newState != nil {
			if _, err := bridge.SetGroupState(v.ID, *newState); err != nil {
				return fmt.Errorf("cannot switch to hue light state %v for group %q#%d: %w", target, v.Name, v.ID, err)
			}
			this.groups[i].State = newState
		}
	}
	return nil
}

func (this *Hue) targetOf(ctx display.Context) (LightState, error) {
	layers := ctx.Presentation().Layers
	icon, ok := layers.Icon()
	if !ok {
		return LightState{}, fmt.Errorf("there is not exactly one icon visible: %v", layers)
	}
	return this.conf.Icons.Of(icon)
}

func (this *Hue) Initialize(conf *Configuration, saveConfFunc func() error) error {
	this.conf = conf
	this.saveConfFunc = saveConfFunc
	if this.store == nil {
		this.store = credentials.SystemStore
	}

	v, err := this.resolveCredentials()
	if err != nil {
		return err
	}
	this.credentials = v

	if err := this.Update(); err != nil {
		return err
	}

	return nil
}

func (this *Hue) bridge() (*huego.Bridge, error) {
	v := this.credentials
	if v.HueBridge == "" || v.HueUser == "" {
		return nil, fmt.Errorf("not paired with hue bridge")
	}
	return huego.New(v.HueBridge, v.HueUser), nil
}

func (this *Hue) resolveCredentials() (credentials.Credentials, error) {
	if u := this.conf.User; u != "" {
		bridge, err := this.discoverBridge()
		if err != nil {
			return credentials.Credentials{}, err
		}

		return credentials.Credentials{
			HueBridge: bridge.Host,
			HueUser:   u,
		}, nil
	}

	if this.conf.Pair {
		return this.pair()
	}

	v, err := this.readCredentials()
	if err != nil {
		return credentials.Credentials{}, err
	}

	if !v.IsHueZero() {
		return v, nil
	}

	return this.pair()
}

func (this *Hue) discoverBridge() (*huego.Bridge, error) {
	if this.conf.Bridge != "" {
		return &huego.Bridge{
			Host: this.conf.Bridge,
		}, nil
	}

	result, err := huego.Discover()
	if err != nil {
		return nil, fmt.Errorf("cannot discover hue bridge: %w", err)
	}
	return result, nil
}

func (this *Hue) pair() (credentials.Credentials, error) {
	bridge, err := this.discoverBridge()
	if err != nil {
		return credentials.Credentials{}, err
	}

	for {
		log.With("bridge", bridge.Host).
			Info("Wait for hue link button been pressed...")
		user, err := bridge.CreateUser(appName)
		if apiErr, ok := common.AsError[*huego.APIError](err); ok && apiErr.Type == 101 {
			time.Sleep(1 * time.Second)
			continue
		} else if err != nil {
			return credentials.Credentials{}, fmt.Errorf("was not able to pair with %s: %w", bridge.Host, err)
		}

		v := credentials.Credentials{
			HueBridge: bridge.Host,
			HueUser:   user,
		}

		if err := this.storeCredentials(v); err != nil {
			log.WithError(err).
				Warn("Cannot store credentials. The app will work now, but next time the pairing might be required again.")
		}

		log.With("bridge", bridge.Host).
			Info("Successful paired.")
		return v, nil
	}
}

func (this *Hue) Dispose() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.lights = nil
	this.groups = nil
	return nil
}

func (this *Hue) GetType() display.Type {
	return display.TypeHue
}

func (this *Hue) readCredentials() (credentials.Credentials, error) {
	v, _, err := this.store.Read()
	if err != nil {
		return credentials.Credentials{}, err
	}

	if v.HueBridge == "" {
		v.HueBridge = this.conf.Bridge
	}
	if v.HueUser == "" {
		v.HueUser = this.conf.User
	}

	return v, nil
}

func (this *Hue) storeCredentials(v credentials.Credentials) error {
	existing, _, err := this.store.Read()
	if err != nil {
		return err
	}
	if err := existing.MergeFrom(credentials.Credentials{
		HueBridge: v.HueBridge,
		HueUser:   v.HueUser,
	}); err != nil {
		return err
	}

	supported, err := this.store.Write(existing)
	if err != nil {
		return err
	}
	if supported {
		return nil
	}

	this.conf.Bridge = v.HueBridge
	this.conf.User = v.HueUser
	if this.saveConfFunc == nil {
		return nil
	}
	return this.saveConfFunc()
}
