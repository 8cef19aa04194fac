// Package queue implements the playback queue: an ordered track list plus a
// cursor, persisted through the store after every mutation so a reload
// reconstructs the exact same order and position.
package queue

import (
	"log/slog"
	"math/rand"
	"sync"

	"github.com/omnimedia/omnihub/internal/domain"
	"github.com/omnimedia/omnihub/internal/store"
)

// Model is the cursor-tracked queue driving playback. The cursor is -1 when
// nothing is loaded and otherwise always within [0, len(items)-1].
type Model struct {
	st     *store.Store
	logger *slog.Logger

	mu      sync.RWMutex
	items   []domain.Track
	current int
}

// New restores the queue from the store. A stored cursor of -1 with a
// non-empty queue snaps to 0, matching how the player page initializes.
func New(st *store.Store, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{st: st, logger: logger, current: -1}

	snap, _ := st.GetQueue()
	m.items = snap.Items
	m.current = snap.Current
	if m.current >= len(m.items) {
		m.current = len(m.items) - 1
	}
	if m.current < 0 && len(m.items) > 0 {
		m.current = 0
	}
	if len(m.items) == 0 {
		m.current = -1
	}
	return m
}

func (m *Model) persistLocked() {
	m.st.SaveQueue(store.QueueSnapshot{Items: m.items, Current: m.current})
	if t := m.currentLocked(); t != nil {
		m.st.SaveCurrentTrack(*t)
	}
}

func (m *Model) currentLocked() *domain.Track {
	if m.current < 0 || m.current >= len(m.items) {
		return nil
	}
	t := m.items[m.current]
	return &t
}

// Current returns a copy of the track under the cursor, or nil.
func (m *Model) Current() *domain.Track {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentLocked()
}

// Items returns a copy of the queued tracks.
func (m *Model) Items() []domain.Track {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Track, len(m.items))
	copy(out, m.items)
	return out
}

// Index returns the cursor position (-1 when nothing is loaded).
func (m *Model) Index() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Len returns the number of queued tracks.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Append adds a track to the end. Appending to an empty queue does not move
// the cursor; playback is not auto-started.
func (m *Model) Append(t domain.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, t)
	m.persistLocked()
}

// PrependAndPlay inserts the track at position 0 and moves the cursor there.
// This is the "play now" path when a track is picked from a catalog list.
func (m *Model) PrependAndPlay(t domain.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]domain.Track{t}, m.items...)
	m.current = 0
	m.persistLocked()
}

// Reorder removes the item at from and reinserts it at to. If the moved item
// is the current track the cursor follows it. When another item moves across
// the cursor the cursor is intentionally left alone; the stored position can
// then point at a different track than before the move.
func (m *Model) Reorder(from, to int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if from < 0 || from >= len(m.items) || to < 0 || to >= len(m.items) || from == to {
		return
	}
	item := m.items[from]
	m.items = append(m.items[:from], m.items[from+1:]...)

	rest := make([]domain.Track, 0, len(m.items)+1)
	rest = append(rest, m.items[:to]...)
	rest = append(rest, item)
	rest = append(rest, m.items[to:]...)
	m.items = rest

	if m.current == from {
		m.current = to
	}
	m.persistLocked()
}

// Shuffle reorders the queue with Fisher-Yates and resets the cursor to 0
// (-1 when the queue is empty).
func (m *Model) Shuffle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.items) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		m.items[i], m.items[j] = m.items[j], m.items[i]
	}
	if len(m.items) == 0 {
		m.current = -1
	} else {
		m.current = 0
	}
	m.persistLocked()
}

// Clear empties the queue and resets the cursor to -1.
func (m *Model) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.current = -1
	m.persistLocked()
}

// RemoveAt removes the item at index. Removing an item before the cursor
// shifts the cursor down with it; removing the current item re-clamps the
// cursor into range, or to -1 when the queue empties.
func (m *Model) RemoveAt(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.items) {
		return
	}
	m.items = append(m.items[:index], m.items[index+1:]...)

	switch {
	case len(m.items) == 0:
		m.current = -1
	case index < m.current:
		m.current--
	case index == m.current && m.current >= len(m.items):
		m.current = len(m.items) - 1
	}
	m.persistLocked()
}

// Advance moves the cursor forward by one, clamped at the last index.
// Reports whether the cursor moved.
func (m *Model) Advance() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current >= len(m.items)-1 {
		return false
	}
	m.current++
	m.persistLocked()
	return true
}

// Retreat moves the cursor back by one, clamped at 0. Reports whether the
// cursor moved.
func (m *Model) Retreat() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current <= 0 {
		return false
	}
	m.current--
	m.persistLocked()
	return true
}

// JumpTo moves the cursor to index. Out-of-range indexes are no-ops.
func (m *Model) JumpTo(index int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.items) {
		return false
	}
	m.current = index
	m.persistLocked()
	return true
}

// Replace swaps the queue contents wholesale, cursor at start. Used when a
// playlist is played into a fresh queue.
func (m *Model) Replace(tracks []domain.Track, start int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make([]domain.Track, len(tracks))
	copy(m.items, tracks)
	if len(m.items) == 0 {
		m.current = -1
	} else {
		if start < 0 || start >= len(m.items) {
			start = 0
		}
		m.current = start
	}
	m.persistLocked()
}
