package world

import (
	"testing"

	"agar/protocol"
)

func addFeed(w *World, l *FeedLog, pos Vec3) protocol.EntityID {
	id := w.NextID()
	f := &Feed{Color: protocol.FeedGreen, Position: pos}
	w.AddFeed(id, f)
	l.Spawn(f.ToWire(id))
	return id
}

func TestCollideConsumesNearbyFeed(t *testing.T) {
	w := NewWorld()
	l := NewFeedLog()
	a := NewAgar()
	a.Radius = 5
	a.MaxVelocity = MaxVelocity(5)
	a.Position = Vec3{X: 100, Y: 100}
	w.AddAgar(w.NextID(), a)

	feedID := addFeed(w, l, Vec3{X: 103, Y: 100}) // distance 3 < radius 5

	maxVelBefore := a.MaxVelocity
	Collide(w, l)

	if _, ok := w.Feeds[feedID]; ok {
		t.Fatalf("feed %d should be consumed", feedID)
	}
	if a.Radius != 5+GrowthStep {
		t.Fatalf("radius = %f, want %f", a.Radius, 5+GrowthStep)
	}
	if a.MaxVelocity >= maxVelBefore {
		t.Fatalf("max velocity should decrease on growth: before=%f after=%f", maxVelBefore, a.MaxVelocity)
	}
	if a.MaxVelocity != MaxVelocity(a.Radius) {
		t.Fatalf("max velocity %f out of sync with radius %f", a.MaxVelocity, a.Radius)
	}
	if l.Live() != 0 {
		t.Fatalf("feed log still has %d live feeds", l.Live())
	}
}

func TestCollideIgnoresDistantFeed(t *testing.T) {
	w := NewWorld()
	l := NewFeedLog()
	a := NewAgar()
	a.Position = Vec3{X: 100, Y: 100}
	w.AddAgar(w.NextID(), a)

	feedID := addFeed(w, l, Vec3{X: 500, Y: 500})

	Collide(w, l)

	if _, ok := w.Feeds[feedID]; !ok {
		t.Fatalf("distant feed should survive")
	}
	if a.Radius != AgarInitRadius {
		t.Fatalf("radius changed without a collision: %f", a.Radius)
	}
}

func TestCollideResolvesAllQualifyingFeedsInOneTick(t *testing.T) {
	w := NewWorld()
	l := NewFeedLog()
	a := NewAgar()
	a.Radius = 20
	a.MaxVelocity = MaxVelocity(20)
	a.Position = Vec3{X: 100, Y: 100}
	w.AddAgar(w.NextID(), a)

	addFeed(w, l, Vec3{X: 105, Y: 100})
	addFeed(w, l, Vec3{X: 100, Y: 110})
	addFeed(w, l, Vec3{X: 95, Y: 95})
	far := addFeed(w, l, Vec3{X: 900, Y: 900})

	Collide(w, l)

	if len(w.Feeds) != 1 {
		t.Fatalf("%d feeds left, want 1", len(w.Feeds))
	}
	if _, ok := w.Feeds[far]; !ok {
		t.Fatalf("far feed should be the survivor")
	}
	if a.Radius != 20+3*GrowthStep {
		t.Fatalf("radius = %f, want %f", a.Radius, 20+3*GrowthStep)
	}
}

func TestGrowthIsMonotonic(t *testing.T) {
	a := NewAgar()
	prev := a.Radius
	for i := 0; i < 50; i++ {
		a.Grow()
		if a.Radius < prev {
			t.Fatalf("radius decreased: %f -> %f", prev, a.Radius)
		}
		if a.MaxVelocity != MaxVelocity(a.Radius) {
			t.Fatalf("max velocity invariant broken at radius %f", a.Radius)
		}
		prev = a.Radius
	}
}
