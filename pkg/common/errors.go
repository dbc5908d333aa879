package common

import "errors"

var ErrUnsupported = errors.New("not supported on this platform")

func AsError[T error](err error) (T, bool) {
	var target T
	return target, errors.As(err, &target)
}
