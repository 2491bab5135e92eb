//go:build !linux && !windows

package dmi

import "errors"

// ReadModel is not implemented on this platform; resolution falls back to
// product id matching only.
func ReadModel() (string, error) {
	return "", errors.New("dmi: model detection not implemented on this platform")
}
