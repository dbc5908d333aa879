//go:build windows

package credentials

import (
	"errors"
	"fmt"

	"github.com/danieljoos/wincred"
	log "github.com/echocat/slf4g"
	"golang.org/x/sys/windows"
)

// ReadFromStore reads the Credentials from the Windows Credential Manager. A
// missing entry leaves this untouched.
func (this *Credentials) ReadFromStore() (supported bool, err error) {
	c, err := wincred.GetGenericCredential(appName)
	if errors.Is(err, windows.ERROR_NOT_FOUND) {
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("cannot retrieve credentials %q from Windows Credential Manager: %w", appName, err)
	}

	var buf Credentials
	if err := buf.UnmarshalBinary(c.CredentialBlob); err != nil {
		log.WithError(err).
			With("target", appName).
			Error("Cannot unmarshal credentials from Windows Credential Manager. Assume it was empty.")
		return true, nil
	}

	*this = buf
	return true, nil
}

func (this *Credentials) WriteToStore() (supported bool, err error) {
	b, err := this.MarshalBinary()
	if err != nil {
		return true, fmt.Errorf("cannot marshal credentials: %w", err)
	}

	cred := wincred.NewGenericCredential(appName)
	cred.CredentialBlob = b
	if err := cred.Write(); err != nil {
		return true, fmt.Errorf("cannot store credentials %q to Windows Credential Manager: %w", appName, err)
	}

	return true, nil
}
