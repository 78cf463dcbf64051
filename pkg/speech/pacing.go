package speech

import (
	"strings"
	"time"
)

// Pacing models natural speech timing without measuring real audio: not
// every provider can report playback completion, so the hold is derived
// from text length instead.
type Pacing struct {
	// Floor is the minimum hold regardless of text length.
	Floor time.Duration

	// WordsPerSecond is the assumed speaking rate.
	WordsPerSecond float64

	// PausePerMark is added for each punctuation mark.
	PausePerMark time.Duration
}

// DefaultPacing returns the speaking-rate defaults.
func DefaultPacing() Pacing {
	return Pacing{
		Floor:          2 * time.Second,
		WordsPerSecond: 2.5,
		PausePerMark:   200 * time.Millisecond,
	}
}

const pauseMarks = ".,;:!?"

// Hold returns how long a caller should wait for text to have plausibly
// finished playing: max(Floor, words/rate + marks*PausePerMark). Monotone
// in word count for equal punctuation, and never below the floor.
func (p Pacing) Hold(text string) time.Duration {
	wps := p.WordsPerSecond
	if wps <= 0 {
		wps = DefaultPacing().WordsPerSecond
	}

	words := len(strings.Fields(text))
	speaking := time.Duration(float64(words) / wps * float64(time.Second))
	speaking += time.Duration(countMarks(text)) * p.PausePerMark

	if speaking < p.Floor {
		return p.Floor
	}
	return speaking
}

func countMarks(text string) int {
	n := 0
	for _, r := range text {
		if strings.ContainsRune(pauseMarks, r) {
			n++
		}
	}
	return n
}
