//go:build !windows

package credentials

// ReadFromStore does nothing, there is no credentials store supported on this
// platform.
func (this *Credentials) ReadFromStore() (supported bool, err error) {
	return false, nil
}

func (this *Credentials) WriteToStore() (supported bool, err error) {
	return false, nil
}
