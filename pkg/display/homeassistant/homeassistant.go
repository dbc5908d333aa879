package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/call-audio-button/pkg/common"
	"github.com/blaubaer/call-audio-button/pkg/credentials"
	"github.com/blaubaer/call-audio-button/pkg/display"
)

const DefaultServer = "http://homeassistant.local:8123/"

// HomeAssistant mirrors the audio route as entity into Home Assistant. The
// state of the entity is the route, the attributes describe the button.
type HomeAssistant struct {
	conf         *Configuration
	saveConfFunc func() error
	store        credentials.Store
	mutex        sync.RWMutex

	lastState atomic.Pointer[state]

	client http.Client
}

func (this *HomeAssistant) Update() error {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	rsp, err := this.do("GET", "/api/")
	if err != nil {
		return err
	}
	defer func() {
		_ = rsp.Body.Close()
	}()
	if rsp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d - %s", rsp.StatusCode, rsp.Status)
	}

	return nil
}

func (this *HomeAssistant) Ensure(ctx display.Context) error {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	target := stateOf(ctx)
	logger := log.With("entityId", this.conf.EntityId)

	if v := this.lastState.Load(); v != nil {
		if v.timestamp.Add(this.conf.DeadZoneInterval).After(time.Now()) {
			if v.isEqualTo(&target) {
				logger.Debug("Entity is already in requested state (while dead zone timeout). No updated needed.")
				return nil
			}
		}
	}

	rsp, err := this.do("GET", "/api/states/"+this.conf.EntityId)
	if err != nil {
		return err
	}
	defer func() {
		_ = rsp.Body.Close()
	}()

	attributes := make(map[string]any)
	forceUpdate := false
	var current state

	switch rsp.StatusCode {
	case http.StatusOK:
		var gRsp stateGetResponse
		if err := json.NewDecoder(rsp.Body).Decode(&gRsp); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}

		if current, err = gRsp.getState(); err != nil {
			logger.WithError(err).Info("Cannot interpret current state of entity. It will be overwritten...")
			forceUpdate = true
		}
		if v := gRsp.Attributes; v != nil {
			attributes = v
		}

	case http.StatusNotFound:
		logger.Info("Entity not found. It will be created now...")
		forceUpdate = true
		attributes["icon"] = "mdi:phone-in-talk"
		attributes["friendly_name"] = "Call audio route"

	default:
		return fmt.Errorf("unexpected status code: %d - %s", rsp.StatusCode, rsp.Status)
	}

	if !forceUpdate && target.isEqualTo(&current) {
		logger.Debug("Entity is already in requested state. No updated needed.")
		this.lastState.Store(&target)
		return nil
	}

	target.attributes.applyTo(attributes)
	sReqB, err := json.Marshal(statePostRequest{
		State:      target.mode,
		Attributes: attributes,
	})
	if err != nil {
		return err
	}

	sRsp, err := this.do("POST", "/api/states/"+this.conf.EntityId, func(req *http.Request) error {
		req.Body = io.NopCloser(bytes.NewReader(sReqB))
		req.ContentLength = int64(len(sReqB))
		req.Header.Set("Content-Type", "application/json")
		return nil
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = sRsp.Body.Close()
	}()
	if sRsp.StatusCode != http.StatusOK && sRsp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %d - %s", sRsp.StatusCode, sRsp.Status)
	}

	logger.With("state", target.mode).
		Debug("Entity updated.")
	this.lastState.Store(&target)

	return nil
}

func (this *HomeAssistant) Initialize(conf *Configuration, saveConfFunc func() error) error {
	this.conf = conf
	this.saveConfFunc = saveConfFunc
	if this.store == nil {
		this.store = credentials.SystemStore
	}

	if err := this.Update(); err != nil {
		return err
	}

	return nil
}

func (this *HomeAssistant) loadCredentials() (credentials.Credentials, error) {
	v, _, err := this.store.Read()
	if err != nil {
		return credentials.Credentials{}, err
	}

	if v.HomeAssistantServer == "" {
		v.HomeAssistantServer = this.conf.Server
	}
	if v.HomeAssistantToken == "" {
		v.HomeAssistantToken = this.conf.Token
	}

	return v, nil
}

func (this *HomeAssistant) storeCredentials(cred credentials.Credentials) error {
	existing, _, err := this.store.Read()
	if err != nil {
		return err
	}
	if err := existing.MergeFrom(credentials.Credentials{
		HomeAssistantServer: cred.HomeAssistantServer,
		HomeAssistantToken:  cred.HomeAssistantToken,
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

	this.conf.Server = cred.HomeAssistantServer
	this.conf.Token = cred.HomeAssistantToken
	if this.saveConfFunc == nil {
		return nil
	}
	return this.saveConfFunc()
}

type resolveCredentialsReason uint

const (
	resolveCredentialsReasonDefault resolveCredentialsReason = iota
	resolveCredentialsReasonInvalidToken
)

func (this *HomeAssistant) resolveCredentials(reason resolveCredentialsReason) (credentials.Credentials, error) {
	fail := func(err error) (credentials.Credentials, error) {
		return credentials.Credentials{}, err
	}
	failf := func(msg string, args ...any) (credentials.Credentials, error) {
		return fail(fmt.Errorf(msg, args...))
	}

	cred, err := this.loadCredentials()
	if err != nil {
		return fail(err)
	}

	if reason == resolveCredentialsReasonDefault && cred.HomeAssistantServer != "" && cred.HomeAssistantToken != "" {
		return cred, nil
	}

	switch reason {
	case resolveCredentialsReasonInvalidToken:
		log.With("server", cred.HomeAssistantServer).
			Error("Home Assistant rejected the long live token.")
	default:
		log.Info("Server URL and long live token required to access Home Assistant.")
	}

	check := func() (serverOk, tokenOk bool, err error) {
		rsp, err := this.request(cred, "GET", "/api/")
		if err != nil {
			return false, false, err
		}
		_ = rsp.Body.Close()
		switch rsp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return true, false, nil
		case http.StatusOK:
			return true, true, nil
		default:
			return false, false, nil
		}
	}

	for {
		cred.HomeAssistantServer = ""
		cred.HomeAssistantToken = ""
		if err := (common.Prompt{Name: fmt.Sprintf("Server URL (empty = %s)", DefaultServer), CanBeEmpty: true}).AskStringIfZero(&cred.HomeAssistantServer); err != nil {
			return failf("cannot request server url: %w", err)
		}
		if cred.HomeAssistantServer == "" {
			cred.HomeAssistantServer = DefaultServer
		}
		if err := (common.Prompt{Name: "Token", Password: true}).AskStringIfZero(&cred.HomeAssistantToken); err != nil {
			return failf("cannot request token: %w", err)
		}

		serverOk, tokenOk, err := check()
		if err != nil {
			return fail(err)
		}
		if serverOk && tokenOk {
			if err := this.storeCredentials(cred); err != nil {
				return failf("cannot store credentials: %w", err)
			}
			return cred, nil
		}

		if !serverOk {
			log.With("server", cred.HomeAssistantServer).
				Error("Provided Home Assistant's server URL is invalid.")
		} else {
			log.With("server", cred.HomeAssistantServer).
				Error("Provided Home Assistant's long live token is invalid.")
		}
	}
}

func (this *HomeAssistant) request(cred credentials.Credentials, method, path string, cb ...func(req *http.Request) error) (*http.Response, error) {
	ctx, cancelFunc := context.WithTimeout(context.Background(), time.Second*60)
	defer cancelFunc()

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(cred.HomeAssistantServer, "/")+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Authorization", "Bearer "+cred.HomeAssistantToken)
	for _, cbi := range cb {
		if err := cbi(req); err != nil {
			return nil, err
		}
	}

	rsp, err := this.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to access %v: %w", req.URL, err)
	}

	// The body has to be read before the timeout is canceled.
	body, err := io.ReadAll(rsp.Body)
	_ = rsp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %v: %w", req.URL, err)
	}
	rsp.Body = io.NopCloser(bytes.NewReader(body))

	return rsp, nil
}

func (this *HomeAssistant) do(method, path string, cb ...func(req *http.Request) error) (*http.Response, error) {
	cred, err := this.resolveCredentials(resolveCredentialsReasonDefault)
	if err != nil {
		return nil, err
	}

	for {
		rsp, err := this.request(cred, method, path, cb...)
		if err != nil {
			return nil, err
		}

		switch rsp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			_ = rsp.Body.Close()
			if cred, err = this.resolveCredentials(resolveCredentialsReasonInvalidToken); err != nil {
				return nil, err
			}
		default:
			return rsp, nil
		}
	}
}

func (this *HomeAssistant) Dispose() error {
	this.lastState.Store(nil)
	return nil
}

func (this *HomeAssistant) GetType() display.Type {
	return display.TypeHomeAssistant
}
