package speech

import (
	"strings"
	"testing"
	"time"
)

func TestPacingHold(t *testing.T) {
	p := DefaultPacing()

	tests := []struct {
		name string
		text string
		want time.Duration
	}{
		{
			name: "empty text gets the floor",
			text: "",
			want: 2 * time.Second,
		},
		{
			name: "short text gets the floor",
			text: "hi",
			want: 2 * time.Second,
		},
		{
			name: "ten words no punctuation",
			text: strings.TrimSpace(strings.Repeat("word ", 10)),
			want: 4 * time.Second,
		},
		{
			name: "punctuation adds pauses",
			text: strings.TrimSpace(strings.Repeat("word ", 10)) + ".",
			want: 4*time.Second + 200*time.Millisecond,
		},
		{
			name: "every pause mark counts",
			text: strings.TrimSpace(strings.Repeat("word ", 10)) + ", and? done!",
			// 12 words, 3 marks
			want: time.Duration(12.0/2.5*float64(time.Second)) + 600*time.Millisecond,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Hold(tt.text); got != tt.want {
				t.Errorf("Hold(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestPacingHoldMonotoneInWordCount(t *testing.T) {
	p := DefaultPacing()
	prev := time.Duration(0)
	for words := 1; words <= 50; words += 7 {
		text := strings.TrimSpace(strings.Repeat("word ", words))
		hold := p.Hold(text)
		if hold < prev {
			t.Errorf("Hold decreased at %d words: %v < %v", words, hold, prev)
		}
		if hold < p.Floor {
			t.Errorf("Hold below floor at %d words: %v", words, hold)
		}
		prev = hold
	}
}

func TestPacingZeroRateFallsBack(t *testing.T) {
	p := Pacing{Floor: time.Second}
	text := strings.TrimSpace(strings.Repeat("word ", 100))
	hold := p.Hold(text)
	if hold <= p.Floor {
		t.Errorf("Expected long text to exceed the floor with fallback rate, got %v", hold)
	}
}
