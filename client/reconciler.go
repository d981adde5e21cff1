package client

import (
	"agar/protocol"
	"agar/world"
)

// MirroredAgar is a locally mirrored agar plus the highest frame already
// applied to it. Updates at or below that frame are stale and skipped.
type MirroredAgar struct {
	world.Agar
	Frame uint32
}

type MirroredBall struct {
	world.Ball
	Frame uint32
}

// Hooks is the appeared/updated/gone stream the rendering layer consumes.
// Nil hooks are fine.
type Hooks struct {
	Appeared func(id protocol.EntityID)
	Updated  func(id protocol.EntityID)
	Gone     func(id protocol.EntityID)
}

// Reconciler merges frame-stamped server messages into a local mirror of the
// world. It never simulates; every mutation is a reaction to a message. It
// tolerates duplicated, reordered and lost state frames.
type Reconciler struct {
	agars map[protocol.EntityID]*MirroredAgar
	balls map[protocol.EntityID]*MirroredBall
	feeds map[protocol.EntityID]*world.Feed

	// feedCursor is how much feed history this client has consumed.
	feedCursor uint64

	hooks Hooks
}

func NewReconciler(hooks Hooks) *Reconciler {
	return &Reconciler{
		agars: make(map[protocol.EntityID]*MirroredAgar),
		balls: make(map[protocol.EntityID]*MirroredBall),
		feeds: make(map[protocol.EntityID]*world.Feed),
		hooks: hooks,
	}
}

type pendingAgar struct {
	frame  uint32
	update protocol.AgarUpdate
}

type pendingBall struct {
	frame  uint32
	update protocol.BallUpdate
}

// Reconcile applies one batch of state messages (everything that arrived
// since the last pass). New entities seen anywhere in the batch are buffered
// and materialized once at the end, so the same new id in several messages
// spawns exactly one mirror entity. The returned request is non-nil when the
// server reported more feed history than the client holds; at most one
// request is issued per pass, with the pre-pass cursor.
func (r *Reconciler) Reconcile(batch []*protocol.GameState) *protocol.FeedRequest {
	agarSpawns := make(map[protocol.EntityID]pendingAgar)
	ballSpawns := make(map[protocol.EntityID]pendingBall)
	var request *protocol.FeedRequest

	for _, msg := range batch {
		r.applyAgars(msg, agarSpawns)
		r.applyBalls(msg, ballSpawns)

		if msg.FeedCount > r.feedCursor {
			if request == nil {
				request = &protocol.FeedRequest{Cursor: r.feedCursor}
			}
			r.feedCursor = msg.FeedCount
		}
	}

	for id, p := range agarSpawns {
		if _, ok := r.agars[id]; ok {
			continue
		}
		r.agars[id] = &MirroredAgar{
			Agar:  *world.AgarFromWire(p.update),
			Frame: p.frame,
		}
		if r.hooks.Appeared != nil {
			r.hooks.Appeared(id)
		}
	}
	for id, p := range ballSpawns {
		if _, ok := r.balls[id]; ok {
			continue
		}
		r.balls[id] = &MirroredBall{
			Ball:  *world.BallFromWire(p.update),
			Frame: p.frame,
		}
		if r.hooks.Appeared != nil {
			r.hooks.Appeared(id)
		}
	}

	return request
}

func (r *Reconciler) applyAgars(msg *protocol.GameState, spawns map[protocol.EntityID]pendingAgar) {
	if msg.Agars == nil {
		return
	}

	incoming := make(map[protocol.EntityID]protocol.AgarUpdate, len(msg.Agars))
	for id, u := range msg.Agars {
		incoming[id] = u
	}

	for id, m := range r.agars {
		update, present := incoming[id]
		if present {
			// Consume even when stale, so it isn't treated as new below.
			delete(incoming, id)
			if m.Frame >= msg.Frame {
				continue
			}
			m.Agar = *world.AgarFromWire(update)
			m.Frame = msg.Frame
			if r.hooks.Updated != nil {
				r.hooks.Updated(id)
			}
			continue
		}

		// Absent from a newer frame: the server is authoritative on
		// existence. Absent from a stale frame proves nothing.
		if m.Frame < msg.Frame {
			delete(r.agars, id)
			if r.hooks.Gone != nil {
				r.hooks.Gone(id)
			}
		}
	}

	// Whatever is left is new. Last write in the batch wins.
	for id, update := range incoming {
		spawns[id] = pendingAgar{frame: msg.Frame, update: update}
	}
}

func (r *Reconciler) applyBalls(msg *protocol.GameState, spawns map[protocol.EntityID]pendingBall) {
	if msg.Balls == nil {
		return
	}

	incoming := make(map[protocol.EntityID]protocol.BallUpdate, len(msg.Balls))
	for id, u := range msg.Balls {
		incoming[id] = u
	}

	for id, m := range r.balls {
		update, present := incoming[id]
		if present {
			delete(incoming, id)
			if m.Frame >= msg.Frame {
				continue
			}
			m.Ball = *world.BallFromWire(update)
			m.Frame = msg.Frame
			if r.hooks.Updated != nil {
				r.hooks.Updated(id)
			}
			continue
		}

		if m.Frame < msg.Frame {
			delete(r.balls, id)
			if r.hooks.Gone != nil {
				r.hooks.Gone(id)
			}
		}
	}

	for id, update := range incoming {
		spawns[id] = pendingBall{frame: msg.Frame, update: update}
	}
}

// ApplyFeedEvents merges a feed backfill response. A despawn for a feed this
// client never saw is fine: the compaction kept it because some client may
// still hold the stale copy.
func (r *Reconciler) ApplyFeedEvents(events []protocol.FeedEvent) {
	for _, e := range events {
		switch {
		case e.Spawn != nil:
			r.feeds[e.Spawn.ID] = world.FeedFromWire(*e.Spawn)
			if r.hooks.Appeared != nil {
				r.hooks.Appeared(e.Spawn.ID)
			}
		case e.Despawn != nil:
			if _, ok := r.feeds[e.Despawn.ID]; !ok {
				continue
			}
			delete(r.feeds, e.Despawn.ID)
			if r.hooks.Gone != nil {
				r.hooks.Gone(e.Despawn.ID)
			}
		}
	}
}

func (r *Reconciler) Agar(id protocol.EntityID) *MirroredAgar {
	return r.agars[id]
}

func (r *Reconciler) ForEachAgar(callback func(protocol.EntityID, *MirroredAgar)) {
	for id, a := range r.agars {
		callback(id, a)
	}
}

func (r *Reconciler) ForEachBall(callback func(protocol.EntityID, *MirroredBall)) {
	for id, b := range r.balls {
		callback(id, b)
	}
}

func (r *Reconciler) ForEachFeed(callback func(protocol.EntityID, *world.Feed)) {
	for id, f := range r.feeds {
		callback(id, f)
	}
}

func (r *Reconciler) FeedCursor() uint64 {
	return r.feedCursor
}
