// Package tui renders the terminal player: queue pane, now-playing bar,
// and a lyrics or visualizer side pane.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/omnimedia/omnihub/internal/catalog"
	"github.com/omnimedia/omnihub/internal/domain"
	"github.com/omnimedia/omnihub/internal/player"
	"github.com/omnimedia/omnihub/internal/queue"
)

// sidePane selects what renders next to the queue
type sidePane int

const (
	paneLyrics sidePane = iota
	paneVisualizer
	paneNone
)

const tickInterval = 100 * time.Millisecond

type tickMsg time.Time

// App is the root bubbletea model.
type App struct {
	transport *player.Transport
	queue     *queue.Model
	viz       *player.Visualizer
	catalog   *catalog.Service
	events    <-chan player.Event
	logger    *slog.Logger

	keys   KeyMap
	styles Styles

	width  int
	height int

	cursor    int
	filtering bool
	filter    textinput.Model
	pane      sidePane

	progress    progress.Model
	status      string
	statusUntil time.Time
}

// NewApp wires the player UI over the transport and queue.
func NewApp(transport *player.Transport, q *queue.Model, viz *player.Visualizer, cat *catalog.Service, events <-chan player.Event, accent string, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	styles := NewStyles(accent)

	filter := textinput.New()
	filter.Placeholder = "filter queue"
	filter.Prompt = "/"
	filter.CharLimit = 64

	prog := progress.New(
		progress.WithSolidFill(accent),
		progress.WithoutPercentage(),
	)

	return &App{
		transport: transport,
		queue:     q,
		viz:       viz,
		catalog:   cat,
		events:    events,
		logger:    logger,
		keys:      DefaultKeyMap(),
		styles:    styles,
		cursor:    maxInt(q.Index(), 0),
		filter:    filter,
		pane:      paneLyrics,
		progress:  prog,
	}
}

func (a *App) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.progress.Width = maxInt(msg.Width-30, 10)
		return a, nil

	case tickMsg:
		a.drainEvents()
		if a.status != "" && time.Now().After(a.statusUntil) {
			a.status = ""
		}
		return a, tick()

	case tea.KeyMsg:
		if a.filtering {
			return a.updateFiltering(msg)
		}
		return a.updateBrowsing(msg)
	}
	return a, nil
}

// drainEvents pushes any pending backend events through the transport
// without blocking the render loop.
func (a *App) drainEvents() {
	for {
		select {
		case ev, ok := <-a.events:
			if !ok {
				return
			}
			if note := a.transport.HandleEvent(ev); note != "" {
				a.setStatusNote(note)
			}
		default:
			return
		}
	}
}

func (a *App) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Escape):
		a.filtering = false
		a.filter.SetValue("")
		a.filter.Blur()
		return a, nil
	case msg.Type == tea.KeyEnter:
		a.filtering = false
		a.filter.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(msg)
	a.cursor = 0
	return a, cmd
}

func (a *App) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := a.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, keys.Down):
		if a.cursor < len(a.visibleItems())-1 {
			a.cursor++
		}

	case key.Matches(msg, keys.Enter):
		if idx, ok := a.queueIndexAtCursor(); ok {
			a.transport.JumpTo(idx)
			a.clearFilter()
		}

	case key.Matches(msg, keys.Toggle):
		a.transport.Toggle()

	case key.Matches(msg, keys.Next):
		a.transport.Next()

	case key.Matches(msg, keys.Previous):
		a.transport.Previous()

	case key.Matches(msg, keys.SeekBack):
		a.transport.SeekBy(-5 * time.Second)

	case key.Matches(msg, keys.SeekFwd):
		a.transport.SeekBy(5 * time.Second)

	case key.Matches(msg, keys.VolUp):
		a.nudgeVolume(0.05)

	case key.Matches(msg, keys.VolDown):
		a.nudgeVolume(-0.05)

	case key.Matches(msg, keys.Mute):
		if a.transport.ToggleMute() {
			a.setStatusNote("Muted")
		} else {
			a.setStatusNote("Unmuted")
		}

	case key.Matches(msg, keys.Loop):
		if a.transport.ToggleLoop() {
			a.setStatusNote("Loop on")
		} else {
			a.setStatusNote("Loop off")
		}

	case key.Matches(msg, keys.Shuffle):
		a.queue.Shuffle()
		a.cursor = 0
		a.clearFilter()
		a.setStatusNote("Queue shuffled")

	case key.Matches(msg, keys.Remove):
		if idx, ok := a.queueIndexAtCursor(); ok {
			a.queue.RemoveAt(idx)
			if a.cursor >= len(a.visibleItems()) && a.cursor > 0 {
				a.cursor--
			}
		}

	case key.Matches(msg, keys.Clear):
		a.transport.Stop()
		a.queue.Clear()
		a.cursor = 0
		a.clearFilter()
		a.setStatusNote("Queue cleared")

	case key.Matches(msg, keys.Favorite):
		if a.catalog != nil {
			if idx, ok := a.queueIndexAtCursor(); ok {
				id := a.queue.Items()[idx].ID
				if a.catalog.ToggleFavoriteTrack(id) {
					a.setStatusNote("Added to favorites")
				} else {
					a.setStatusNote("Removed from favorites")
				}
			}
		}

	case key.Matches(msg, keys.Filter):
		a.filtering = true
		a.filter.Focus()
		return a, textinput.Blink

	case key.Matches(msg, keys.Lyrics):
		a.togglePane(paneLyrics)

	case key.Matches(msg, keys.Visualizer):
		a.togglePane(paneVisualizer)

	case key.Matches(msg, keys.Escape):
		a.clearFilter()
	}
	return a, nil
}

func (a *App) togglePane(p sidePane) {
	if a.pane == p {
		a.pane = paneNone
		return
	}
	a.pane = p
}

func (a *App) nudgeVolume(delta float64) {
	v := a.transport.Volume() + delta
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	if err := a.transport.SetVolume(v); err == nil {
		a.setStatusNote(fmt.Sprintf("Volume %d%%", int(v*100+0.5)))
	}
}

func (a *App) setStatusNote(note string) {
	a.status = note
	a.statusUntil = time.Now().Add(4 * time.Second)
}

func (a *App) clearFilter() {
	a.filter.SetValue("")
	a.filtering = false
	a.filter.Blur()
	a.cursor = clampInt(a.cursor, 0, maxInt(a.queue.Len()-1, 0))
}

// queueEntry pairs a visible track with its real queue index, so filtered
// views map back correctly even with duplicate entries.
type queueEntry struct {
	index int
	track domain.Track
}

// filterQueue narrows the queue by a fuzzy query, keeping original indices.
func filterQueue(items []domain.Track, query string) []queueEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]queueEntry, len(items))
		for i, t := range items {
			out[i] = queueEntry{index: i, track: t}
		}
		return out
	}
	targets := make([]string, len(items))
	for i, t := range items {
		targets[i] = strings.ToLower(t.DisplayTitle() + " " + t.DisplayArtist())
	}
	matches := fuzzy.Find(strings.ToLower(query), targets)
	out := make([]queueEntry, 0, len(matches))
	for _, m := range matches {
		out = append(out, queueEntry{index: m.Index, track: items[m.Index]})
	}
	return out
}

// visibleItems returns the queue narrowed by the active filter.
func (a *App) visibleItems() []queueEntry {
	return filterQueue(a.queue.Items(), a.filter.Value())
}

// queueIndexAtCursor maps the cursor in the (possibly filtered) view back
// to the real queue index.
func (a *App) queueIndexAtCursor() (int, bool) {
	visible := a.visibleItems()
	if a.cursor < 0 || a.cursor >= len(visible) {
		return 0, false
	}
	return visible[a.cursor].index, true
}

func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}

	sideWidth := 0
	if a.pane != paneNone {
		sideWidth = a.width * 2 / 5
	}
	queueWidth := a.width - sideWidth

	bottomHeight := 5
	bodyHeight := maxInt(a.height-bottomHeight, 3)

	queuePane := a.renderQueue(queueWidth-4, bodyHeight-2)
	body := a.styles.ActivePane.Width(queueWidth - 2).Height(bodyHeight - 2).Render(queuePane)

	if a.pane != paneNone {
		var side string
		switch a.pane {
		case paneVisualizer:
			side = a.viz.Render(sideWidth-4, bodyHeight-2)
		default:
			side = a.renderLyrics(bodyHeight - 2)
		}
		sideBox := a.styles.InactivePane.Width(sideWidth - 2).Height(bodyHeight - 2).Render(side)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, sideBox)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, a.renderNowPlaying())
}

func (a *App) renderQueue(width, height int) string {
	var b strings.Builder

	if a.filtering || a.filter.Value() != "" {
		b.WriteString(a.filter.View())
		b.WriteString("\n")
		height--
	}

	entries := a.visibleItems()
	if len(entries) == 0 {
		b.WriteString(a.styles.Dim.Render("Queue is empty"))
		return b.String()
	}

	playingIdx := a.queue.Index()

	first, last := viewportRange(a.cursor, len(entries), maxInt(height, 1))
	for i := first; i < last; i++ {
		t := entries[i].track
		line := fmt.Sprintf("%s — %s", t.DisplayTitle(), t.DisplayArtist())
		if a.catalog != nil && a.catalog.IsFavoriteTrack(t.ID) {
			line = "★ " + line
		}
		if width > 4 {
			line = truncateLine(line, width)
		}

		switch {
		case i == a.cursor:
			line = a.styles.Selected.Render(line)
		case entries[i].index == playingIdx:
			line = a.styles.Playing.Render("▶ " + line)
		default:
			line = a.styles.Subtitle.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderLyrics(height int) string {
	lyr := a.transport.Lyrics()
	active := a.transport.ActiveLyricIndex()

	if !lyr.Synced {
		text := lyr.Plain
		if text == "" {
			text = "No lyrics available"
		}
		return a.styles.Dim.Render(text)
	}

	var b strings.Builder
	first, last := viewportRange(maxInt(active, 0), len(lyr.Lines), maxInt(height, 1))
	for i := first; i < last; i++ {
		if i == active {
			b.WriteString(a.styles.LyricActive.Render(lyr.Lines[i].Text))
		} else {
			b.WriteString(a.styles.LyricOther.Render(lyr.Lines[i].Text))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderNowPlaying() string {
	var title, artist string
	if t := a.transport.Current(); t != nil {
		title = t.DisplayTitle()
		artist = t.DisplayArtist()
	} else {
		title = "Nothing queued"
	}

	pos := a.transport.Position()
	dur := a.transport.Duration()
	percent := 0.0
	if dur > 0 {
		percent = float64(pos) / float64(dur)
	}

	head := a.styles.Title.Render(title)
	if artist != "" {
		head += a.styles.Subtitle.Render("  " + artist)
	}

	flags := []string{a.transport.Status().String()}
	if a.transport.Loop() {
		flags = append(flags, "loop")
	}
	if a.transport.Muted() {
		flags = append(flags, "muted")
	}
	flags = append(flags, fmt.Sprintf("vol %d%%", int(a.transport.Volume()*100+0.5)))
	head += a.styles.Dim.Render("  [" + strings.Join(flags, " · ") + "]")

	bar := fmt.Sprintf("%s %s %s",
		formatClock(pos), a.progress.ViewAs(percent), formatClock(dur))

	status := ""
	if a.status != "" {
		status = a.styles.Status.Render(a.status)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, head, bar, status)
	return a.styles.InactivePane.Width(a.width - 2).Render(content)
}

// truncateLine shortens a line to at most width cells, by runes so a
// multibyte title never splits mid-character.
func truncateLine(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

// viewportRange returns a [first,last) window of size at most height that
// keeps the cursor visible.
func viewportRange(cursor, total, height int) (int, int) {
	if total <= height {
		return 0, total
	}
	first := cursor - height/2
	if first < 0 {
		first = 0
	}
	if first+height > total {
		first = total - height
	}
	return first, first + height
}

func formatClock(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
