// Package lyrics parses plain or LRC-timestamped lyric text and resolves the
// active line for a playback position.
package lyrics

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Placeholder is shown when a track has no lyric resource or it failed to
// load. That situation is not an error state.
const Placeholder = "No lyrics available"

// Line is one timestamped lyric line.
type Line struct {
	At   float64 // offset from track start, seconds
	Text string
}

// Lyrics is a parsed lyric resource. Either Synced is true and Lines is
// populated, or the raw text is rendered as-is via Plain.
type Lyrics struct {
	Synced bool
	Lines  []Line
	Plain  string
}

// Parse classifies raw lyric text. Text containing at least one [mm:ss]
// marker parses as synced LRC; anything else is plain text.
func Parse(raw string) Lyrics {
	lines := parseLRC(raw)
	if len(lines) > 0 {
		return Lyrics{Synced: true, Lines: lines}
	}
	return Lyrics{Plain: raw}
}

func parseLRC(raw string) []Line {
	var out []Line
	for _, row := range strings.Split(raw, "\n") {
		row = strings.TrimRight(row, "\r")
		at, text, ok := parseLRCRow(row)
		if !ok {
			continue
		}
		out = append(out, Line{At: at, Text: strings.TrimSpace(text)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

// parseLRCRow matches `[m:ss]` or `[m:ss.fff]` followed by the line text.
func parseLRCRow(row string) (float64, string, bool) {
	if !strings.HasPrefix(row, "[") {
		return 0, "", false
	}
	end := strings.IndexByte(row, ']')
	if end < 0 {
		return 0, "", false
	}
	stamp := row[1:end]
	colon := strings.IndexByte(stamp, ':')
	if colon < 0 {
		return 0, "", false
	}
	minutes, err := strconv.Atoi(stamp[:colon])
	if err != nil || minutes < 0 {
		return 0, "", false
	}
	secPart := stamp[colon+1:]
	frac := 0.0
	if dot := strings.IndexByte(secPart, '.'); dot >= 0 {
		f, err := strconv.ParseFloat("0."+secPart[dot+1:], 64)
		if err != nil {
			return 0, "", false
		}
		frac = f
		secPart = secPart[:dot]
	}
	seconds, err := strconv.Atoi(secPart)
	if err != nil || seconds < 0 {
		return 0, "", false
	}
	return float64(minutes)*60 + float64(seconds) + frac, row[end+1:], true
}

// ActiveIndex returns the index of the line with the greatest offset that is
// <= t, or -1 when t is before the first line. Negative times clamp to 0.
// Linear scan; lyric files stay well under a thousand lines.
func (l Lyrics) ActiveIndex(t float64) int {
	if !l.Synced {
		return -1
	}
	if t < 0 {
		t = 0
	}
	idx := -1
	for i, line := range l.Lines {
		if t >= line.At {
			idx = i
		} else {
			break
		}
	}
	return idx
}

// Loader fetches lyric resources over HTTP or from the local filesystem.
type Loader struct {
	client *http.Client
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Load resolves the lyric resource for a track. Failures of any kind return
// the plain placeholder; the caller never sees an error.
func (ld *Loader) Load(ctx context.Context, url string) Lyrics {
	if url == "" {
		return Lyrics{Plain: Placeholder}
	}
	raw, err := ld.fetch(ctx, url)
	if err != nil {
		ld.logger.Warn("lyrics load failed", "url", url, "error", err)
		return Lyrics{Plain: Placeholder}
	}
	if strings.TrimSpace(raw) == "" {
		return Lyrics{Plain: Placeholder}
	}
	return Parse(raw)
}

func (ld *Loader) fetch(ctx context.Context, url string) (string, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", err
		}
		resp, err := ld.client.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	data, err := os.ReadFile(url)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
