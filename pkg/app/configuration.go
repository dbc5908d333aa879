package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	actfacade "github.com/blaubaer/call-audio-button/pkg/activation/facade"
	"github.com/blaubaer/call-audio-button/pkg/audio"
	capfacade "github.com/blaubaer/call-audio-button/pkg/capability/facade"
	"github.com/blaubaer/call-audio-button/pkg/common"
	dispfacade "github.com/blaubaer/call-audio-button/pkg/display/facade"
)

const appDirectoryName = "call-audio-button"

func NewConfiguration() Configuration {
	return Configuration{
		CheckInterval:   time.Second,
		RefreshInterval: time.Minute,

		Capability: capfacade.NewConfiguration(),
		Endpoints:  audio.NewSelectors(),
		Activation: actfacade.NewConfiguration(),
		Display:    dispfacade.NewConfiguration(),
	}
}

type Configuration struct {
	PreventAutoSave bool `yaml:"preventAutoSave"`

	CheckInterval   time.Duration `yaml:"checkInterval,omitempty"`
	RefreshInterval time.Duration `yaml:"refreshInterval,omitempty"`

	Metrics MetricsConfiguration `yaml:"metrics,omitempty"`

	Capability capfacade.Configuration  `yaml:"capability,omitempty"`
	Endpoints  audio.Selectors          `yaml:"endpoints,omitempty"`
	Activation actfacade.Configuration  `yaml:"activation,omitempty"`
	Display    dispfacade.Configuration `yaml:"display,omitempty"`
}

type MetricsConfiguration struct {
	// Listen is the address the prometheus metrics are served on. Empty
	// disables the server.
	Listen string `yaml:"listen,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	common.Flag(using, "preventAutoSave", "If provided configuration will NOT automatically be saved upon changes.").
		BoolVar(&this.PreventAutoSave)
	common.Flag(using, "checkInterval", "How often the audio route facts are checked.").
		DurationVar(&this.CheckInterval)
	common.Flag(using, "refreshInterval", "How often the displays should be refreshed.").
		DurationVar(&this.RefreshInterval)
	common.Flag(using, "metrics.listen", "Address to serve prometheus metrics at, for example ':9120'. If empty no metrics are served.").
		StringVar(&this.Metrics.Listen)

	this.Capability.SetupConfiguration(using)
	this.Endpoints.SetupConfiguration(using)
	this.Activation.SetupConfiguration(using)
	this.Display.SetupConfiguration(using)
}

func (this *Configuration) loadFrom(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(this); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (this *Configuration) loadFromFile(fn string, ignoreNotFound bool) error {
	f, err := os.Open(fn)
	if os.IsNotExist(err) && ignoreNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot open configuration file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := this.loadFrom(f); err != nil {
		return fmt.Errorf("cannot load configuration file %q: %w", fn, err)
	}

	return nil
}

func (this *Configuration) saveTo(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(this); err != nil {
		return err
	}
	return enc.Close()
}

func (this *Configuration) saveToFile(fn string) error {
	_ = os.MkdirAll(filepath.Dir(fn), 0700)

	f, err := os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cannot open configuration file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := this.saveTo(f); err != nil {
		return fmt.Errorf("cannot write file %q: %w", fn, err)
	}

	return nil
}
