package main

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path"
	"runtime"
	"sync"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	log "github.com/echocat/slf4g"
	"github.com/echocat/slf4g/native"
	"github.com/echocat/slf4g/native/consumer"
	"github.com/echocat/slf4g/native/facade/value"
	"github.com/echocat/slf4g/native/formatter"
	"github.com/getlantern/systray"
	"gopkg.in/yaml.v3"

	"github.com/blaubaer/call-audio-button/pkg/app"
	"github.com/blaubaer/call-audio-button/pkg/button"
	"github.com/blaubaer/call-audio-button/pkg/common"
	"github.com/blaubaer/call-audio-button/pkg/display"
	dsystray "github.com/blaubaer/call-audio-button/pkg/display/systray"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

func main() {
	wf := &writerFacade{delegates: []io.Writer{os.Stderr}}
	buf := common.NewRingLineBuffer(2000, 4096)
	consumer.Default = consumer.NewWriter(wf)

	lv := value.NewProvider(native.DefaultProvider)
	lv.Consumer.Formatter.Codec = value.MappingFormatterCodec{
		"text": formatter.NewText(func(v *formatter.Text) {
			bv := true
			v.AllowMultiLineMessage = &bv
			v.MultiLineMessageAfterFields = &bv
		}),
		"json": formatter.NewJson(),
	}

	a := app.NewApp()

	cmd := kingpin.New("call-audio-button", "Shows and switches the audio route of the current call.")
	a.SetupConfiguration(cmd)

	cmd.Flag("log.level", "").
		Envar(common.Envar("log.level")).
		SetValue(lv.Level)
	cmd.Flag("log.format", "").
		Envar(common.Envar("log.format")).
		Default("text").
		SetValue(lv.Consumer.Formatter)
	cmd.Flag("log.color", "").
		Envar(common.Envar("log.color")).
		Default("auto").
		SetValue(lv.Consumer.Formatter.ColorMode)

	cmd.Command("run", "Runs the audio button in the system tray.").
		Default().
		Action(func(*kingpin.ParseContext) error {
			return run(a, wf, buf)
		})

	var facts route.Facts
	factsGiven := false
	output := "yaml"
	presentCmd := cmd.Command("present", "Evaluates the audio button once and prints it. Without any --fact.* flag the facts are read from the configured capability source.")
	for _, f := range []struct {
		name string
		help string
		to   *bool
	}{
		{"fact.bluetoothAvailable", "A bluetooth audio peripheral is connected.", &facts.BluetoothAvailable},
		{"fact.bluetoothAudioConnectedOrPending", "Bluetooth audio is streaming or about to.", &facts.BluetoothAudioConnectedOrPending},
		{"fact.speakerphoneOn", "The speakerphone is on.", &facts.SpeakerphoneOn},
		{"fact.microphoneMuted", "The microphone is muted.", &facts.MicrophoneMuted},
	} {
		presentCmd.Flag(f.name, f.help).
			IsSetByUser(&factsGiven).
			BoolVar(f.to)
	}
	presentCmd.Flag("output", "Format to print the result in.").
		Short('o').
		Default(output).
		EnumVar(&output, "yaml", "json")
	presentCmd.Action(func(*kingpin.ParseContext) error {
		return present(a, facts, factsGiven, output)
	})

	var mode route.AudioMode
	requestCmd := cmd.Command("request", "Requests an audio route, if it could currently be chosen with the button.")
	requestCmd.Arg("mode", "Route to request. All possible values: "+route.AllModes.String()).
		Required().
		SetValue(&mode)
	requestCmd.Action(func(*kingpin.ParseContext) error {
		if err := a.InitializeWithoutDisplays(); err != nil {
			return err
		}
		defer func() { _ = a.Dispose() }()
		return a.Request(mode)
	})

	kingpin.MustParse(cmd.Parse(os.Args[1:]))
}

func run(a *app.App, wf *writerFacade, buf *common.RingLineBuffer) error {
	assets, err := loadAssets()
	if err != nil {
		return err
	}
	if err := a.Initialize(); err != nil {
		return err
	}

	var rErr error
	systray.Run(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		tray := &dsystray.Systray{
			Assets: assets,
			Events: a.Interactions,
		}
		systray.SetTitle("Call audio")
		if err := tray.Initialize(); err != nil {
			rErr = err
			systray.Quit()
			return
		}
		a.OtherDisplays = append(a.OtherDisplays, tray)

		showLogMi := systray.AddMenuItem("Show Log", "Shows the recent log of this application.")
		quitMi := systray.AddMenuItem("Exit", "Exit the call audio button")

		go func() {
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			for {
				select {
				case <-showLogMi.ClickedCh:
					if err := showLog(buf); err != nil {
						log.WithError(err).
							Warn("Cannot show log.")
					}
				case <-c:
					log.Info("Terminated. Going down...")
					cancel()
					return
				case <-quitMi.ClickedCh:
					log.Info("Exit clicked. Going down...")
					cancel()
					return
				}
			}
		}()

		wf.set([]io.Writer{os.Stderr, buf})
		rErr = a.Run(ctx)
		systray.Quit()
	}, func() {
		if err := a.Dispose(); err != nil && rErr == nil {
			rErr = err
		}
	})
	return rErr
}

// presentation is what the present command prints.
type presentation struct {
	Facts        route.Facts         `yaml:"facts" json:"facts"`
	State        route.ControlState  `yaml:"state" json:"state"`
	Presentation button.Presentation `yaml:"presentation" json:"presentation"`
	Choices      route.Modes         `yaml:"choices" json:"choices"`
}

func present(a *app.App, facts route.Facts, factsGiven bool, output string) error {
	var ctx display.Context
	if factsGiven {
		ctx = display.Evaluate(facts)
	} else {
		if err := a.InitializeWithoutDisplays(); err != nil {
			return err
		}
		defer func() { _ = a.Dispose() }()
		var err error
		if ctx, err = a.Evaluate(); err != nil {
			return err
		}
	}

	v := presentation{
		Facts:        ctx.Facts(),
		State:        ctx.State(),
		Presentation: ctx.Presentation(),
		Choices:      button.Choices(ctx.State()),
	}
	if v.Choices == nil {
		v.Choices = route.Modes{}
	}

	switch output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}

func showLog(buf *common.RingLineBuffer) error {
	f, err := os.CreateTemp("", "call-audio-button-*.log")
	if err != nil {
		return fmt.Errorf("cannot create log file: %w", err)
	}
	if _, err := buf.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("cannot write log file %q: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot write log file %q: %w", f.Name(), err)
	}

	return openFile(f.Name())
}

func openFile(fn string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", fn)
	case "windows":
		c = exec.Command("cmd", "/c", "start", "", fn)
	default:
		c = exec.Command("xdg-open", fn)
	}
	if err := c.Start(); err != nil {
		return fmt.Errorf("cannot open %q: %w", fn, err)
	}
	go func() { _ = c.Wait() }()
	return nil
}

type writerFacade struct {
	delegates []io.Writer
	mutex     sync.RWMutex
}

func (this *writerFacade) Write(p []byte) (n int, err error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	for i, w := range this.delegates {
		var nn int
		if nn, err = w.Write(p); err != nil {
			return n, err
		}
		if i == 0 {
			n = nn
		} else if n != nn {
			return n, fmt.Errorf("the previous writer wrote %d, but the current one wrote %d bytes", n, nn)
		}
	}

	return
}

func (this *writerFacade) set(next []io.Writer) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.delegates = next
}

//go:embed assets/*.png
var assetsFs embed.FS

var assetFiles = map[button.Layer]string{
	button.LayerToggleIndicator: "toggle-indicator.png",
	button.LayerMoreIndicator:   "more-indicator.png",
	button.LayerBluetoothIcon:   "bluetooth-icon.png",
	button.LayerHandsetIcon:     "handset-icon.png",
	button.LayerSpeakerOnIcon:   "speaker-on-icon.png",
	button.LayerSpeakerOffIcon:  "speaker-off-icon.png",
}

func loadAssets() (dsystray.Assets, error) {
	result := make(dsystray.Assets, len(assetFiles))
	for l, fn := range assetFiles {
		b, err := assetsFs.ReadFile(path.Join("assets", fn))
		if err != nil {
			return nil, fmt.Errorf("cannot read artwork of layer %v: %w", l, err)
		}
		result[l] = b
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}
