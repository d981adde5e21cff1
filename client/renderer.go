package client

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"agar/protocol"
	"agar/world"
)

const feedRadius = 5

var (
	backgroundColor = color.RGBA{77, 77, 77, 255}
	ownColor        = color.RGBA{218, 212, 94, 255}
	otherColor      = color.RGBA{208, 70, 72, 255}
	ballColor       = color.RGBA{109, 170, 44, 255}

	feedColors = map[protocol.FeedColor]color.RGBA{
		protocol.FeedRed:   {210, 60, 60, 255},
		protocol.FeedGreen: {60, 210, 60, 255},
		protocol.FeedBlue:  {60, 60, 210, 255},
	}
)

// Renderer draws the mirrored world as plain circles, easing every entity
// toward its latest authoritative position so ~30Hz updates don't look
// jumpy at 60fps.
type Renderer struct {
	smoothed map[protocol.EntityID]world.Vec3
}

func NewRenderer() *Renderer {
	return &Renderer{
		smoothed: make(map[protocol.EntityID]world.Vec3),
	}
}

// Forget drops render state for a despawned entity.
func (r *Renderer) Forget(id protocol.EntityID) {
	delete(r.smoothed, id)
}

func (r *Renderer) Draw(screen *ebiten.Image, rec *Reconciler, playerID protocol.EntityID, loggedIn bool) {
	screen.Fill(backgroundColor)

	camera := world.Vec3{X: world.WorldWidth / 2, Y: world.WorldHeight / 2}
	if loggedIn {
		if own := rec.Agar(playerID); own != nil {
			camera = r.ease(playerID, own.Position)
		}
	}
	offsetX := world.WindowWidth/2 - camera.X
	offsetY := world.WindowHeight/2 - camera.Y

	rec.ForEachFeed(func(id protocol.EntityID, f *world.Feed) {
		vector.DrawFilledCircle(
			screen,
			float32(f.Position.X+offsetX),
			float32(f.Position.Y+offsetY),
			feedRadius,
			feedColors[f.Color],
			true,
		)
	})

	rec.ForEachAgar(func(id protocol.EntityID, a *MirroredAgar) {
		pos := r.ease(id, a.Position)
		c := otherColor
		if loggedIn && id == playerID {
			c = ownColor
		}
		vector.DrawFilledCircle(
			screen,
			float32(pos.X+offsetX),
			float32(pos.Y+offsetY),
			float32(a.Radius),
			c,
			true,
		)
		debugString := fmt.Sprintf("%d\n(%0.0f,%0.0f)", id, a.Position.X, a.Position.Y)
		ebitenutil.DebugPrintAt(screen, debugString, int(pos.X+offsetX), int(pos.Y+offsetY+a.Radius))
	})

	rec.ForEachBall(func(id protocol.EntityID, b *MirroredBall) {
		pos := r.ease(id, b.Position)
		c := ballColor
		if loggedIn && id == playerID {
			c = ownColor
		}
		vector.DrawFilledCircle(
			screen,
			float32(pos.X+offsetX),
			float32(pos.Y+offsetY),
			15,
			c,
			true,
		)
	})

	ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %0.02f, FPS: %0.02f", ebiten.ActualTPS(), ebiten.ActualFPS()))
}

// ease advances the drawn position a quarter of the way toward the
// authoritative one each frame.
func (r *Renderer) ease(id protocol.EntityID, target world.Vec3) world.Vec3 {
	current, ok := r.smoothed[id]
	if !ok {
		r.smoothed[id] = target
		return target
	}
	next := world.Vec3{
		X: lerp(current.X, target.X, 0.25),
		Y: lerp(current.Y, target.Y, 0.25),
		Z: target.Z,
	}
	r.smoothed[id] = next
	return next
}

func lerp(v0, v1, t float64) float64 {
	return (1-t)*v0 + t*v1
}
