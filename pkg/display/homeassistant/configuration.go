package homeassistant

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/blaubaer/call-audio-button/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		EntityId:         fmt.Sprintf("sensor.computer_%s_call_audio", computerId),
		DeadZoneInterval: time.Second * 60,
	}
}

var forbiddenComputerIdChars = regexp.MustCompile("[^a-z0-9_]")

func normalizeEntityIdPart(id string) string {
	id = strings.ToLower(id)
	id = strings.TrimSpace(id)
	id = strings.ReplaceAll(id, "-", "_")
	id = strings.ReplaceAll(id, ".", "_")
	id = forbiddenComputerIdChars.ReplaceAllString(id, "_")
	return id
}

var computerId = func() string {
	if result, err := os.Hostname(); err == nil {
		return normalizeEntityIdPart(result)
	}

	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("cannot generate entity id: %v", err))
	}

	return hex.EncodeToString(buf)
}()

type Configuration struct {
	Server   string `yaml:"server,omitempty"`
	Token    string `yaml:"token,omitempty"`
	EntityId string `yaml:"entityId"`

	// DeadZoneInterval is how long the last written state is trusted before
	// the entity is read again from Home Assistant, which is the source of
	// truth.
	DeadZoneInterval time.Duration `yaml:"deadZoneInterval,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	common.Flag(using, "display.homeAssistant.server", "URL of the Home Assistant instance.").
		StringVar(&this.Server)
	common.Flag(using, "display.homeAssistant.token", "Long life token to access the Home Assistant instance.").
		StringVar(&this.Token)
	common.Flag(using, "display.homeAssistant.entityId", "Entity ID to store the audio route to.").
		StringVar(&this.EntityId)
	common.Flag(using, "display.homeAssistant.deadZoneInterval", "Duration for how long a local state is used to compare to. To prevent too often check of the remote system.").
		DurationVar(&this.DeadZoneInterval)
}
