//go:build !nocgo
// +build !nocgo

package speech

import (
	"bytes"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoDevice plays decoded PCM through the default output device. The oto
// context is process-global and fixed to the sample rate of the first
// artifact played; later artifacts at a different rate fall back to the
// external players.
type otoDevice struct {
	mu         sync.Mutex
	ctx        *oto.Context
	sampleRate int
	channels   int
}

func newOtoDevice() *otoDevice {
	return &otoDevice{}
}

func (d *otoDevice) playWAV(audio *wavAudio) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureContext(audio.sampleRate, audio.channels); err != nil {
		return err
	}

	player := d.ctx.NewPlayer(bytes.NewReader(audio.pcm))
	defer player.Close()
	player.Play()

	// oto playback is asynchronous; block until the buffer drains so the
	// adapter stays quasi-blocking like the external players.
	deadline := time.Now().Add(time.Duration(audio.duration()*float64(time.Second)) + 2*time.Second)
	for player.IsPlaying() {
		if time.Now().After(deadline) {
			return fmt.Errorf("device playback stalled")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func (d *otoDevice) ensureContext(sampleRate, channels int) error {
	if d.ctx != nil {
		if d.sampleRate != sampleRate || d.channels != channels {
			return fmt.Errorf("audio context is %dHz/%dch, artifact is %dHz/%dch",
				d.sampleRate, d.channels, sampleRate, channels)
		}
		return nil
	}

	options := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}
	switch runtime.GOOS {
	case "darwin":
		options.BufferSize = 100 * time.Millisecond
	default:
		options.BufferSize = 50 * time.Millisecond
	}

	ctx, ready, err := oto.NewContext(options)
	if err != nil {
		return fmt.Errorf("failed to create audio context: %w", err)
	}
	<-ready

	d.ctx = ctx
	d.sampleRate = sampleRate
	d.channels = channels
	return nil
}
