package world

import (
	"log"

	"agar/protocol"
)

// FeedLog is the append-only record of feed spawn/despawn events. The live
// set is maintained incrementally on every append, never by replay; replaying
// the whole event sequence must always reproduce it exactly.
type FeedLog struct {
	events   []protocol.FeedEvent
	snapshot map[protocol.EntityID]protocol.FeedSpawn
}

func NewFeedLog() *FeedLog {
	return &FeedLog{
		snapshot: make(map[protocol.EntityID]protocol.FeedSpawn),
	}
}

// Len is the total event count. It only grows, and it is the cursor space
// clients use to request history.
func (l *FeedLog) Len() uint64 {
	return uint64(len(l.events))
}

// Live is the number of currently live feeds.
func (l *FeedLog) Live() int {
	return len(l.snapshot)
}

func (l *FeedLog) Spawn(s protocol.FeedSpawn) {
	l.events = append(l.events, protocol.FeedEvent{Spawn: &s})
	l.snapshot[s.ID] = s
}

// Despawn records the removal of a live feed. Despawning an id that is not
// live is a bookkeeping bug, not a runtime condition.
func (l *FeedLog) Despawn(id protocol.EntityID) {
	if _, ok := l.snapshot[id]; !ok {
		log.Fatalf("despawn of feed %d which is not live", id)
	}
	l.events = append(l.events, protocol.FeedEvent{Despawn: &protocol.FeedDespawn{ID: id}})
	delete(l.snapshot, id)
}

// SnapshotView returns the whole live set as spawn events, for clients
// starting from cursor 0.
func (l *FeedLog) SnapshotView() []protocol.FeedEvent {
	events := make([]protocol.FeedEvent, 0, len(l.snapshot))
	for id := range l.snapshot {
		s := l.snapshot[id]
		events = append(events, protocol.FeedEvent{Spawn: &s})
	}
	return events
}

// IncrementalView returns the minimal event set a client at the given cursor
// must apply to converge on the live set. A despawn cancels a spawn of the
// same id inside the window (the feed nets to "never existed"); a despawn for
// an id spawned before the window is kept, since the client still holds it.
func (l *FeedLog) IncrementalView(from uint64) []protocol.FeedEvent {
	if from > uint64(len(l.events)) {
		from = uint64(len(l.events))
	}

	var events []protocol.FeedEvent
	spawned := make(map[protocol.EntityID]int)
	for _, e := range l.events[from:] {
		switch {
		case e.Spawn != nil:
			spawned[e.Spawn.ID] = len(events)
			events = append(events, e)
		case e.Despawn != nil:
			if i, ok := spawned[e.Despawn.ID]; ok {
				events[i] = protocol.FeedEvent{}
				delete(spawned, e.Despawn.ID)
			} else {
				events = append(events, e)
			}
		}
	}

	compacted := events[:0]
	for _, e := range events {
		if e.Spawn != nil || e.Despawn != nil {
			compacted = append(compacted, e)
		}
	}
	return compacted
}
