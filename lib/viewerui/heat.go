// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewerui

import "time"

// DefaultHeatDecay is how long a row glows after a change when the
// model is given no highlight duration.
const DefaultHeatDecay = 2 * time.Second

// heatTickInterval is the re-render interval while any row is hot.
const heatTickInterval = 100 * time.Millisecond

// HeatKind distinguishes changes for colour selection.
type HeatKind int

const (
	// HeatPut marks a created or updated item.
	HeatPut HeatKind = iota
	// HeatRemove marks a scene that lost geometries.
	HeatRemove
)

type heatEntry struct {
	ignition time.Time
	kind     HeatKind
}

// HeatTracker maps row keys to ignition times. Heat starts at 1 and
// decays linearly to 0 over the tracker's decay duration.
type HeatTracker struct {
	decay   time.Duration
	entries map[string]heatEntry
}

// NewHeatTracker returns an empty tracker. A non-positive decay
// selects [DefaultHeatDecay].
func NewHeatTracker(decay time.Duration) *HeatTracker {
	if decay <= 0 {
		decay = DefaultHeatDecay
	}
	return &HeatTracker{decay: decay, entries: make(map[string]heatEntry)}
}

// Ignite records a change to key, restarting its decay.
func (tracker *HeatTracker) Ignite(key string, kind HeatKind, now time.Time) {
	tracker.entries[key] = heatEntry{ignition: now, kind: kind}
}

// Heat returns the intensity of key at now, in [0, 1].
func (tracker *HeatTracker) Heat(key string, now time.Time) float64 {
	entry, exists := tracker.entries[key]
	if !exists {
		return 0
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed >= tracker.decay {
		return 0
	}
	return 1 - float64(elapsed)/float64(tracker.decay)
}

// Kind returns the kind of key's last ignition.
func (tracker *HeatTracker) Kind(key string) HeatKind {
	return tracker.entries[key].kind
}

// HasHot reports whether any key is still hot, dropping the ones that
// have fully decayed.
func (tracker *HeatTracker) HasHot(now time.Time) bool {
	hot := false
	for key, entry := range tracker.entries {
		if now.Sub(entry.ignition) < tracker.decay {
			hot = true
			continue
		}
		delete(tracker.entries, key)
	}
	return hot
}
