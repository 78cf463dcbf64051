//go:build nocgo
// +build nocgo

package speech

import "errors"

// Stub device for builds without CGO audio support. playWAV always fails,
// so playback falls through to the external players.
type otoDevice struct{}

func newOtoDevice() *otoDevice {
	return &otoDevice{}
}

func (d *otoDevice) playWAV(*wavAudio) error {
	return errors.New("device playback not available in nocgo build")
}
