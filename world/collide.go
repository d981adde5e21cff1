package world

// Collide resolves agar/feed consumption for one tick. A feed closer to an
// agar's center than the agar's radius is consumed: removed from the world,
// despawned in the log, and the agar grows. O(agars × feeds); feed counts
// are capped so a spatial index isn't worth it.
func Collide(w *World, feedLog *FeedLog) {
	for _, a := range w.Agars {
		for id, f := range w.Feeds {
			if a.Position.DistanceTo(f.Position) >= a.Radius {
				continue
			}
			w.RemoveFeed(id)
			feedLog.Despawn(id)
			a.Grow()
		}
	}
}
