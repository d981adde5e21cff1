package world

import "agar/protocol"

// Feed is a stationary consumable. Immutable once spawned; only removed.
type Feed struct {
	Color    protocol.FeedColor
	Position Vec3
}

func (f *Feed) ToWire(id protocol.EntityID) protocol.FeedSpawn {
	return protocol.FeedSpawn{
		ID:       id,
		Color:    f.Color,
		Position: f.Position.ToWire(),
	}
}

func FeedFromWire(s protocol.FeedSpawn) *Feed {
	return &Feed{
		Color:    s.Color,
		Position: Vec3FromWire(s.Position),
	}
}
