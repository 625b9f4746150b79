// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewerui

import (
	"testing"
	"time"
)

func TestHeatDecay(t *testing.T) {
	tracker := NewHeatTracker(time.Second)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if tracker.Heat("a", start) != 0 {
		t.Error("unignited key has heat")
	}
	tracker.Ignite("a", HeatPut, start)
	if heat := tracker.Heat("a", start.Add(250*time.Millisecond)); heat != 0.75 {
		t.Errorf("heat at 250ms = %v, want 0.75", heat)
	}
	if !tracker.HasHot(start.Add(500 * time.Millisecond)) {
		t.Error("HasHot false while a key is warm")
	}
	if tracker.HasHot(start.Add(time.Second)) {
		t.Error("HasHot true after decay")
	}
	if len(tracker.entries) != 0 {
		t.Errorf("decayed entries not collected: %d left", len(tracker.entries))
	}
}

func TestHeatReignite(t *testing.T) {
	tracker := NewHeatTracker(0)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tracker.Ignite("a", HeatPut, start)
	tracker.Ignite("a", HeatRemove, start.Add(DefaultHeatDecay-time.Millisecond))
	if tracker.Kind("a") != HeatRemove {
		t.Error("reignite did not replace the kind")
	}
	if tracker.Heat("a", start.Add(DefaultHeatDecay)) == 0 {
		t.Error("reignite did not restart the decay")
	}
}
