package world

import (
	"log"

	"agar/protocol"
)

// World is the in-memory entity arena: one typed map per entity kind, all
// keyed by the server-assigned id. Only the tick loop mutates it.
type World struct {
	Agars map[protocol.EntityID]*Agar
	Feeds map[protocol.EntityID]*Feed
	Balls map[protocol.EntityID]*Ball

	nextID protocol.EntityID
}

func NewWorld() *World {
	return &World{
		Agars: make(map[protocol.EntityID]*Agar),
		Feeds: make(map[protocol.EntityID]*Feed),
		Balls: make(map[protocol.EntityID]*Ball),
	}
}

// NextID hands out ids unique for the lifetime of the process.
func (w *World) NextID() protocol.EntityID {
	w.nextID++
	return w.nextID
}

func (w *World) AddAgar(id protocol.EntityID, a *Agar) {
	if _, ok := w.Agars[id]; ok {
		log.Fatalf("agar %d already exists", id)
	}
	w.Agars[id] = a
}

func (w *World) RemoveAgar(id protocol.EntityID) {
	delete(w.Agars, id)
}

func (w *World) AddFeed(id protocol.EntityID, f *Feed) {
	if _, ok := w.Feeds[id]; ok {
		log.Fatalf("feed %d already exists", id)
	}
	w.Feeds[id] = f
}

func (w *World) RemoveFeed(id protocol.EntityID) {
	delete(w.Feeds, id)
}

func (w *World) AddBall(id protocol.EntityID, b *Ball) {
	if _, ok := w.Balls[id]; ok {
		log.Fatalf("ball %d already exists", id)
	}
	w.Balls[id] = b
}

func (w *World) RemoveBall(id protocol.EntityID) {
	delete(w.Balls, id)
}
