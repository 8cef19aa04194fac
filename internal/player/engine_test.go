package player

import (
	"testing"

	"github.com/faiface/beep"
)

func TestNeedsSpeakerInit(t *testing.T) {
	tests := []struct {
		name   string
		active beep.SampleRate
		next   beep.SampleRate
		want   bool
	}{
		{"first track ever", 0, 44100, true},
		{"same rate", 44100, 44100, false},
		{"mp3 then flac at 48k", 44100, 48000, true},
		{"back to the first rate", 48000, 44100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsSpeakerInit(tt.active, tt.next); got != tt.want {
				t.Errorf("needsSpeakerInit(%d, %d) = %v, want %v", tt.active, tt.next, got, tt.want)
			}
		})
	}
}

func TestSourceExt(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"/music/a.MP3", ".mp3"},
		{"https://cdn.example.com/track.flac?sig=abc", ".flac"},
		{"relative/path/song.wav", ".wav"},
		{"noextension", ""},
	}
	for _, tt := range tests {
		if got := sourceExt(tt.src); got != tt.want {
			t.Errorf("sourceExt(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
