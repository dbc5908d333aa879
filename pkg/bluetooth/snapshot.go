package bluetooth

import (
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	busName        = "org.bluez"
	adapterIface   = "org.bluez.Adapter1"
	deviceIface    = "org.bluez.Device1"
	transportIface = "org.bluez.MediaTransport1"
)

// Profiles which carry call or media audio.
var audioProfiles = []string{
	"00001108", // Headset
	"0000110a", // A2DP source
	"0000110b", // A2DP sink
	"00001112", // Headset audio gateway
	"0000111e", // Handsfree
	"0000111f", // Handsfree audio gateway
}

type Adapter struct {
	Path    dbus.ObjectPath
	Powered bool
}

type Device struct {
	Path      dbus.ObjectPath
	Adapter   dbus.ObjectPath
	Address   string
	Alias     string
	Paired    bool
	Connected bool
	Audio     bool
}

func (this Device) String() string {
	if this.Alias != "" {
		return this.Alias + " (" + this.Address + ")"
	}
	return this.Address
}

type Transport struct {
	Path   dbus.ObjectPath
	Device dbus.ObjectPath
	// State is one of "idle", "pending" or "active".
	State string
}

// Snapshot is everything BlueZ reported at one point in time.
type Snapshot struct {
	Adapters   []Adapter
	Devices    []Device
	Transports []Transport
}

func (this Snapshot) adapterPowered(path dbus.ObjectPath) bool {
	for _, a := range this.Adapters {
		if a.Path == path {
			return a.Powered
		}
	}
	return false
}

// ConnectedAudioDevices returns the audio devices connected through a
// powered adapter.
func (this Snapshot) ConnectedAudioDevices() (result []Device) {
	for _, d := range this.Devices {
		if d.Connected && d.Audio && this.adapterPowered(d.Adapter) {
			result = append(result, d)
		}
	}
	return
}

// PairedAudioDevices returns the audio devices paired through a powered
// adapter, connected ones first.
func (this Snapshot) PairedAudioDevices() (result []Device) {
	for _, d := range this.Devices {
		if d.Paired && d.Audio && this.adapterPowered(d.Adapter) {
			result = append(result, d)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Connected && !result[j].Connected
	})
	return
}

// Available reports whether a bluetooth audio route could be offered.
func (this Snapshot) Available() bool {
	return len(this.ConnectedAudioDevices()) > 0
}

// AudioConnectedOrPending reports whether audio of a connected device is
// already streaming or about to.
func (this Snapshot) AudioConnectedOrPending() bool {
	connected := this.ConnectedAudioDevices()
	for _, t := range this.Transports {
		if t.State != "active" && t.State != "pending" {
			continue
		}
		for _, d := range connected {
			if d.Path == t.Device {
				return true
			}
		}
	}
	return false
}

type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

func parseSnapshot(objects managedObjects) (result Snapshot) {
	paths := make([]dbus.ObjectPath, 0, len(objects))
	for path := range objects {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	for _, path := range paths {
		ifaces := objects[path]
		if props, ok := ifaces[adapterIface]; ok {
			result.Adapters = append(result.Adapters, Adapter{
				Path:    path,
				Powered: boolOf(props, "Powered"),
			})
		}
		if props, ok := ifaces[deviceIface]; ok {
			result.Devices = append(result.Devices, Device{
				Path:      path,
				Adapter:   pathOf(props, "Adapter"),
				Address:   stringOf(props, "Address"),
				Alias:     stringOf(props, "Alias"),
				Paired:    boolOf(props, "Paired"),
				Connected: boolOf(props, "Connected"),
				Audio:     hasAudioProfile(stringsOf(props, "UUIDs")),
			})
		}
		if props, ok := ifaces[transportIface]; ok {
			result.Transports = append(result.Transports, Transport{
				Path:   path,
				Device: pathOf(props, "Device"),
				State:  stringOf(props, "State"),
			})
		}
	}
	return
}

func hasAudioProfile(uuids []string) bool {
	for _, uuid := range uuids {
		uuid = strings.ToLower(uuid)
		for _, p := range audioProfiles {
			if strings.HasPrefix(uuid, p) {
				return true
			}
		}
	}
	return false
}

func boolOf(props map[string]dbus.Variant, name string) bool {
	v, _ := props[name].Value().(bool)
	return v
}

func stringOf(props map[string]dbus.Variant, name string) string {
	v, _ := props[name].Value().(string)
	return v
}

func stringsOf(props map[string]dbus.Variant, name string) []string {
	v, _ := props[name].Value().([]string)
	return v
}

func pathOf(props map[string]dbus.Variant, name string) dbus.ObjectPath {
	v, _ := props[name].Value().(dbus.ObjectPath)
	return v
}
