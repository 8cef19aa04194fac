package player

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// SupportedFormats returns the playable file extensions.
func SupportedFormats() []string {
	return []string{".mp3", ".wav", ".flac"}
}

// IsSupported checks whether a media location has a playable extension.
func IsSupported(src string) bool {
	ext := sourceExt(src)
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// sourceExt extracts the lowercase extension from a file path or URL.
func sourceExt(src string) string {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		if u, err := url.Parse(src); err == nil {
			return strings.ToLower(path.Ext(u.Path))
		}
	}
	return strings.ToLower(filepath.Ext(src))
}

// decodeAudio decodes a media stream based on the source's extension.
func decodeAudio(r io.ReadSeekCloser, src string) (beep.StreamSeekCloser, beep.Format, error) {
	switch sourceExt(src) {
	case ".mp3":
		return mp3.Decode(r)
	case ".wav":
		return wav.Decode(r)
	case ".flac":
		return flac.Decode(r)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported media format %q", sourceExt(src))
	}
}
