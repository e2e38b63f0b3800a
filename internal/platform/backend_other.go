//go:build !linux && !windows

package platform

import (
	"errors"
	"runtime"
)

// ErrUnsupportedPlatform is returned by NewNativeBackend on platforms without
// a window-system backend.
var ErrUnsupportedPlatform = errors.New("unsupported platform: " + runtime.GOOS)

// NewNativeBackend reports that no backend exists for this platform.
func NewNativeBackend() (Backend, error) {
	return nil, ErrUnsupportedPlatform
}
