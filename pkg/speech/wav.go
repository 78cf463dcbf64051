package speech

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// wavAudio is decoded 16-bit PCM pulled out of a RIFF/WAVE container, the
// only shape the in-process device path plays. Anything else falls through
// to the external players.
type wavAudio struct {
	pcm        []byte
	sampleRate int
	channels   int
}

var errNotWAV = errors.New("not a 16-bit PCM WAV file")

// decodeWAV walks the RIFF chunks of data and extracts the PCM payload.
func decodeWAV(data []byte) (*wavAudio, error) {
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errNotWAV
	}

	var audio wavAudio
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		// Compare in 64 bits: a size field near 2^32 must clamp, not wrap
		// negative on 32-bit platforms.
		size64 := int64(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if size64 > int64(len(data)-body) {
			// espeak and friends stream WAV and leave the size field
			// zeroed or short; take what is actually there.
			size64 = int64(len(data) - body)
		}
		size := int(size64)

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, errNotWAV
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			audio.channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			audio.sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if format != 1 || bits != 16 {
				return nil, fmt.Errorf("%w: format=%d bits=%d", errNotWAV, format, bits)
			}
		case "data":
			audio.pcm = data[body : body+size]
		}

		// Chunks are word aligned.
		pos = body + size
		if size%2 == 1 {
			pos++
		}
	}

	if len(audio.pcm) == 0 || audio.sampleRate == 0 || audio.channels == 0 {
		return nil, errNotWAV
	}
	return &audio, nil
}

// duration reports the PCM playing time in seconds.
func (w *wavAudio) duration() float64 {
	bytesPerSecond := w.sampleRate * w.channels * 2
	if bytesPerSecond == 0 {
		return 0
	}
	return float64(len(w.pcm)) / float64(bytesPerSecond)
}
