package homeassistant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/call-audio-button/pkg/credentials"
	"github.com/blaubaer/call-audio-button/pkg/display"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

type noStore struct{}

func (noStore) Read() (credentials.Credentials, bool, error) {
	return credentials.Credentials{}, false, nil
}

func (noStore) Write(credentials.Credentials) (bool, error) {
	return false, nil
}

type fakeServer struct {
	*httptest.Server

	mutex    sync.Mutex
	entities map[string]map[string]any
	requests []string
}

func newFakeServer(t *testing.T) *fakeServer {
	result := &fakeServer{entities: make(map[string]map[string]any)}
	result.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result.mutex.Lock()
		defer result.mutex.Unlock()

		result.requests = append(result.requests, r.Method+" "+r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		const prefix = "/api/states/"
		switch {
		case r.URL.Path == "/api/":
			_, _ = w.Write([]byte(`{"message":"API running."}`))
		case r.Method == "GET" && len(r.URL.Path) > len(prefix):
			v, ok := result.entities[r.URL.Path[len(prefix):]]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(v)
		case r.Method == "POST" && len(r.URL.Path) > len(prefix):
			var v map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&v))
			id := r.URL.Path[len(prefix):]
			v["entity_id"] = id
			_, existed := result.entities[id]
			result.entities[id] = v
			if existed {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusCreated)
			}
			_ = json.NewEncoder(w).Encode(v)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(result.Close)
	return result
}

func (this *fakeServer) takeRequests() []string {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	result := this.requests
	this.requests = nil
	return result
}

func givenHomeAssistant(t *testing.T, server *fakeServer) *HomeAssistant {
	conf := NewConfiguration()
	conf.Server = server.URL
	conf.Token = "secret"
	conf.EntityId = "sensor.test_call_audio"

	instance := &HomeAssistant{store: noStore{}}
	require.NoError(t, instance.Initialize(&conf, nil))
	server.takeRequests()
	return instance
}

func TestHomeAssistant_Ensure_createsEntity(t *testing.T) {
	server := newFakeServer(t)
	instance := givenHomeAssistant(t, server)

	require.NoError(t, instance.Ensure(display.Evaluate(route.Facts{SpeakerphoneOn: true})))

	assert.Equal(t, []string{
		"GET /api/states/sensor.test_call_audio",
		"POST /api/states/sensor.test_call_audio",
	}, server.takeRequests())

	actual := server.entities["sensor.test_call_audio"]
	assert.Equal(t, "speaker", actual["state"])
	attributes := actual["attributes"].(map[string]any)
	assert.Equal(t, "toggle", attributes["behavior"])
	assert.Equal(t, true, attributes["interactive"])
	assert.Equal(t, true, attributes["toggled_on"])
	assert.Equal(t, []any{"toggleIndicator", "speakerOnIcon"}, attributes["layers"])
	assert.Equal(t, []any{"default", "speaker"}, attributes["selectable"])
	assert.Equal(t, "mdi:phone-in-talk", attributes["icon"])
}

func TestHomeAssistant_Ensure_skipsWhileInDeadZone(t *testing.T) {
	server := newFakeServer(t)
	instance := givenHomeAssistant(t, server)
	ctx := display.Evaluate(route.Facts{BluetoothAvailable: true, BluetoothAudioConnectedOrPending: true})

	require.NoError(t, instance.Ensure(ctx))
	server.takeRequests()
	require.NoError(t, instance.Ensure(ctx))

	assert.Empty(t, server.takeRequests())
}

func TestHomeAssistant_Ensure_skipsEqualRemoteState(t *testing.T) {
	server := newFakeServer(t)
	instance := givenHomeAssistant(t, server)
	instance.conf.DeadZoneInterval = 0
	ctx := display.Evaluate(route.Facts{BluetoothAvailable: true})

	require.NoError(t, instance.Ensure(ctx))
	server.takeRequests()
	time.Sleep(time.Millisecond)
	require.NoError(t, instance.Ensure(ctx))

	assert.Equal(t, []string{
		"GET /api/states/sensor.test_call_audio",
	}, server.takeRequests())
}

func TestHomeAssistant_Ensure_updatesChangedState(t *testing.T) {
	server := newFakeServer(t)
	instance := givenHomeAssistant(t, server)

	require.NoError(t, instance.Ensure(display.Evaluate(route.Facts{})))
	require.NoError(t, instance.Ensure(display.Evaluate(route.Facts{SpeakerphoneOn: true})))

	assert.Equal(t, []string{
		"GET /api/states/sensor.test_call_audio",
		"POST /api/states/sensor.test_call_audio",
		"GET /api/states/sensor.test_call_audio",
		"POST /api/states/sensor.test_call_audio",
	}, server.takeRequests())
	assert.Equal(t, "speaker", server.entities["sensor.test_call_audio"]["state"])
	attributes := server.entities["sensor.test_call_audio"]["attributes"].(map[string]any)
	assert.Equal(t, "Call audio route", attributes["friendly_name"])
}

func TestNormalizeEntityIdPart(t *testing.T) {
	assert.Equal(t, "my_laptop_local", normalizeEntityIdPart(" My-Laptop.local "))
	assert.Equal(t, "a_b", normalizeEntityIdPart("a+b"))
}
