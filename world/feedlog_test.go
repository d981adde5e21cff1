package world

import (
	"testing"

	"agar/protocol"
)

func spawnAt(id protocol.EntityID, x float64) protocol.FeedSpawn {
	return protocol.FeedSpawn{
		ID:       id,
		Color:    protocol.FeedBlue,
		Position: protocol.Vec3{X: x},
	}
}

func TestIncrementalViewCompactsSpawnDespawn(t *testing.T) {
	l := NewFeedLog()
	l.Spawn(spawnAt(1, 10))
	l.Spawn(spawnAt(2, 20))
	l.Despawn(1)

	events := l.IncrementalView(0)
	if len(events) != 1 {
		t.Fatalf("IncrementalView(0) returned %d events, want 1", len(events))
	}
	if events[0].Spawn == nil || events[0].Spawn.ID != 2 {
		t.Fatalf("expected only the spawn of feed 2, got %+v", events[0])
	}
}

func TestIncrementalViewKeepsDespawnOfOlderSpawn(t *testing.T) {
	l := NewFeedLog()
	l.Spawn(spawnAt(1, 10))
	l.Spawn(spawnAt(2, 20))

	cursor := l.Len()
	l.Despawn(1)
	l.Spawn(spawnAt(3, 30))

	events := l.IncrementalView(cursor)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Despawn == nil || events[0].Despawn.ID != 1 {
		t.Fatalf("expected despawn of feed 1 to survive compaction, got %+v", events[0])
	}
	if events[1].Spawn == nil || events[1].Spawn.ID != 3 {
		t.Fatalf("expected spawn of feed 3, got %+v", events[1])
	}
}

func TestIncrementalViewClampsCursor(t *testing.T) {
	l := NewFeedLog()
	l.Spawn(spawnAt(1, 10))

	if events := l.IncrementalView(100); len(events) != 0 {
		t.Fatalf("cursor past the log end should yield no events, got %d", len(events))
	}
}

func TestSnapshotViewReplayMatchesLiveSet(t *testing.T) {
	l := NewFeedLog()
	l.Spawn(spawnAt(1, 10))
	l.Spawn(spawnAt(2, 20))
	l.Spawn(spawnAt(3, 30))
	l.Despawn(2)

	// A fresh client that applies SnapshotView must end up holding exactly
	// the live set.
	mirror := make(map[protocol.EntityID]*Feed)
	for _, e := range l.SnapshotView() {
		if e.Spawn == nil {
			t.Fatalf("snapshot view must contain only spawns, got %+v", e)
		}
		mirror[e.Spawn.ID] = FeedFromWire(*e.Spawn)
	}

	if len(mirror) != l.Live() {
		t.Fatalf("replayed %d feeds, server has %d live", len(mirror), l.Live())
	}
	for _, id := range []protocol.EntityID{1, 3} {
		if _, ok := mirror[id]; !ok {
			t.Errorf("feed %d missing from replayed mirror", id)
		}
	}
	if _, ok := mirror[2]; ok {
		t.Errorf("despawned feed 2 present in replayed mirror")
	}
}

func TestFullReplayReproducesSnapshot(t *testing.T) {
	l := NewFeedLog()
	l.Spawn(spawnAt(1, 10))
	l.Spawn(spawnAt(2, 20))
	l.Despawn(1)
	l.Spawn(spawnAt(4, 40))
	l.Despawn(2)

	replayed := make(map[protocol.EntityID]struct{})
	for _, e := range l.IncrementalView(0) {
		switch {
		case e.Spawn != nil:
			replayed[e.Spawn.ID] = struct{}{}
		case e.Despawn != nil:
			delete(replayed, e.Despawn.ID)
		}
	}

	if len(replayed) != l.Live() {
		t.Fatalf("replay yields %d live feeds, snapshot has %d", len(replayed), l.Live())
	}
	if _, ok := replayed[4]; !ok {
		t.Fatalf("feed 4 should be live after replay")
	}
}

func TestLenOnlyGrows(t *testing.T) {
	l := NewFeedLog()
	l.Spawn(spawnAt(1, 10))
	before := l.Len()
	l.Despawn(1)
	if l.Len() != before+1 {
		t.Fatalf("Len after despawn = %d, want %d", l.Len(), before+1)
	}
	if l.Live() != 0 {
		t.Fatalf("Live after despawn = %d, want 0", l.Live())
	}
}
