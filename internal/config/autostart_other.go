//go:build !linux && !windows

package config

import (
	"fmt"
	"runtime"
)

func NewAutostart() (Autostart, error) {
	return nil, fmt.Errorf("run at login is not supported on %s", runtime.GOOS)
}
