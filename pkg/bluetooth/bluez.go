package bluetooth

import (
	"fmt"
	"slices"
	"sync"

	log "github.com/echocat/slf4g"
	"github.com/godbus/dbus/v5"
)

const (
	propsIface         = "org.freedesktop.DBus.Properties"
	propsSignal        = propsIface + ".PropertiesChanged"
	objectManagerIface = "org.freedesktop.DBus.ObjectManager"
	interfacesAdded    = objectManagerIface + ".InterfacesAdded"
	interfacesRemoved  = objectManagerIface + ".InterfacesRemoved"
)

// matchRules cover changed properties of every BlueZ object and objects
// (like a new MediaTransport1) that appear or disappear.
var matchRules = []string{
	"type='signal',interface='" + propsIface + "',member='PropertiesChanged',path_namespace='/org/bluez'",
	"type='signal',sender='" + busName + "',interface='" + objectManagerIface + "',member='InterfacesAdded',path='/'",
	"type='signal',sender='" + busName + "',interface='" + objectManagerIface + "',member='InterfacesRemoved',path='/'",
}

func isChangeSignal(sig *dbus.Signal) bool {
	if sig == nil {
		return false
	}
	switch sig.Name {
	case propsSignal, interfacesAdded, interfacesRemoved:
		return true
	default:
		return false
	}
}

// Bluez reads the bluetooth state from BlueZ over the system bus.
type Bluez struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal
	changes chan struct{}
	mutex   sync.RWMutex
}

func (this *Bluez) Initialize() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.conn != nil {
		return nil
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		return fmt.Errorf("cannot connect to system bus: %w", err)
	}

	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		_ = conn.Close()
		return fmt.Errorf("cannot list bus names: %w", err)
	}
	if !slices.Contains(names, busName) {
		_ = conn.Close()
		return fmt.Errorf("%s not found on system bus; is bluetooth.service running?", busName)
	}

	this.conn = conn
	this.changes = make(chan struct{}, 1)
	this.subscribe()
	return nil
}

func (this *Bluez) Dispose() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.conn == nil {
		return nil
	}
	err := this.conn.Close()
	this.conn = nil
	this.signals = nil
	return err
}

// Snapshot reads all adapters, devices and media transports at once.
func (this *Bluez) Snapshot() (Snapshot, error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	if this.conn == nil {
		return Snapshot{}, fmt.Errorf("not initialized")
	}

	var objects managedObjects
	if err := this.conn.Object(busName, "/").
		Call("org.freedesktop.DBus.ObjectManager.GetManagedObjects", 0).
		Store(&objects); err != nil {
		return Snapshot{}, fmt.Errorf("cannot read managed objects of %s: %w", busName, err)
	}
	return parseSnapshot(objects), nil
}

// Connect connects the given device. Success only means BlueZ accepted the
// request, the next Snapshot tells whether audio really arrived.
func (this *Bluez) Connect(device Device) error {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	if this.conn == nil {
		return fmt.Errorf("not initialized")
	}
	if err := this.conn.Object(busName, device.Path).Call(deviceIface+".Connect", 0).Err; err != nil {
		return fmt.Errorf("cannot connect %v: %w", device, err)
	}
	return nil
}

// Changes signals whenever BlueZ reports a changed property or an added or
// removed object. Several changes can collapse into one notification.
func (this *Bluez) Changes() <-chan struct{} {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	return this.changes
}

func (this *Bluez) subscribe() {
	for _, rule := range matchRules {
		if err := this.conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
			log.WithError(err).
				With("rule", rule).
				Warn("Cannot subscribe to bluetooth changes. Changes will only be noticed by polling.")
			return
		}
	}

	signals := make(chan *dbus.Signal, 16)
	this.conn.Signal(signals)
	this.signals = signals

	changes := this.changes
	go func() {
		for sig := range signals {
			if !isChangeSignal(sig) {
				continue
			}
			select {
			case changes <- struct{}{}:
			default:
			}
		}
	}()
}
