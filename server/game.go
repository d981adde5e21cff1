package server

import (
	"log"
	"math/rand"

	"agar/protocol"
	"agar/world"
)

type Mode string

const (
	ModeAgar  Mode = "agar"
	ModeBalls Mode = "balls"
)

const ballSpeed = 100.0

// Game is the authoritative server state: the world, the feed history, the
// frame counter and the connection registry, all owned by the tick loop.
// Nothing here locks; exactly one goroutine touches it.
type Game struct {
	world   *world.World
	feedLog *world.FeedLog
	// pawns maps a connection handle to the entity it controls. Login
	// creates the mapping; it is never reassigned without a new login.
	pawns      map[string]protocol.EntityID
	frame      uint32
	mode       Mode
	feedTarget int
	rng        *rand.Rand
}

func NewGame(mode Mode, feedTarget int, rng *rand.Rand) *Game {
	return &Game{
		world:      world.NewWorld(),
		feedLog:    world.NewFeedLog(),
		pawns:      make(map[string]protocol.EntityID),
		mode:       mode,
		feedTarget: feedTarget,
		rng:        rng,
	}
}

// Login spawns an entity for the connection and maps the handle to it. A
// repeated login from the same handle re-acks the existing entity.
func (g *Game) Login(handle string) protocol.EntityID {
	if id, ok := g.pawns[handle]; ok {
		return id
	}

	id := g.world.NextID()
	pos := world.Vec3{
		X: g.rng.Float64() * world.WorldWidth,
		Y: g.rng.Float64() * world.WorldHeight,
		Z: 1,
	}
	switch g.mode {
	case ModeBalls:
		g.world.AddBall(id, &world.Ball{
			Position: pos,
			Velocity: world.Vec3{
				X: (g.rng.Float64()*2 - 1) * ballSpeed,
				Y: (g.rng.Float64()*2 - 1) * ballSpeed,
			},
		})
	default:
		a := world.NewAgar()
		a.Position = pos
		g.world.AddAgar(id, a)
	}

	g.pawns[handle] = id
	log.Printf("login %s -> entity %d", handle, id)
	return id
}

// Disconnect despawns whatever entity the handle controls. Unknown handles
// are fine: the connection may drop before it ever logs in.
func (g *Game) Disconnect(handle string) {
	id, ok := g.pawns[handle]
	if !ok {
		return
	}
	delete(g.pawns, handle)
	g.world.RemoveAgar(id)
	g.world.RemoveBall(id)
	log.Printf("disconnect %s, despawned entity %d", handle, id)
}

// SetInput overwrites the raw input of the handle's entity. A handle with no
// mapped entity is a no-op, not an error: input can race ahead of login.
func (g *Game) SetInput(handle string, v protocol.Vec2) {
	id, ok := g.pawns[handle]
	if !ok {
		return
	}
	if a, ok := g.world.Agars[id]; ok {
		a.Input = world.Vec2FromWire(v)
	} else if b, ok := g.world.Balls[id]; ok {
		b.Velocity = world.InputVelocity(world.Vec2FromWire(v), ballSpeed)
	}
}

// FeedEvents answers a backfill request. Cursor 0 means "from scratch" and
// gets the compacted live set; anything else gets the incremental window.
func (g *Game) FeedEvents(cursor uint64) []protocol.FeedEvent {
	if cursor == 0 {
		return g.feedLog.SnapshotView()
	}
	return g.feedLog.IncrementalView(cursor)
}

// Tick runs one simulation step in fixed order: simulate, collide, refill,
// then build the frame-stamped broadcast. Inputs were already applied when
// the caller drained its inbox. The frame counter advances once per tick,
// after the snapshot is stamped.
func (g *Game) Tick(dt float64) *protocol.GameState {
	world.Step(g.world, dt)
	world.Collide(g.world, g.feedLog)
	if g.mode == ModeAgar {
		g.refillFeeds()
	}

	state := &protocol.GameState{
		Frame:     g.frame,
		FeedCount: g.feedLog.Len(),
	}
	switch g.mode {
	case ModeBalls:
		state.Balls = make(map[protocol.EntityID]protocol.BallUpdate, len(g.world.Balls))
		for id, b := range g.world.Balls {
			state.Balls[id] = b.ToWire()
		}
	default:
		state.Agars = make(map[protocol.EntityID]protocol.AgarUpdate, len(g.world.Agars))
		for id, a := range g.world.Agars {
			state.Agars[id] = a.ToWire()
		}
	}
	g.frame++
	return state
}

// refillFeeds tops the live feed count back up to the target. Level
// triggered: runs every tick and spawns however many are missing.
func (g *Game) refillFeeds() {
	for g.feedLog.Live() < g.feedTarget {
		id := g.world.NextID()
		f := &world.Feed{
			Color: protocol.FeedColor(g.rng.Intn(3)),
			Position: world.Vec3{
				X: g.rng.Float64() * world.WorldWidth,
				Y: g.rng.Float64() * world.WorldHeight,
			},
		}
		g.world.AddFeed(id, f)
		g.feedLog.Spawn(f.ToWire(id))
	}
}
