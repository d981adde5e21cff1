package client

import (
	"context"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"nhooyr.io/websocket"

	"agar/protocol"
	"agar/world"
)

// loginRetryTicks is how many frames to wait before re-sending Login when no
// ack has arrived. The ack can be lost; login is retried until it sticks.
const loginRetryTicks = 60

type Game struct {
	reconciler *Reconciler
	renderer   *Renderer

	playerID protocol.EntityID
	loggedIn bool
	retry    int

	lastInput world.Vec2

	inbound  chan *protocol.Envelope
	outbound chan *protocol.ClientMessage
}

func NewGame() *Game {
	renderer := NewRenderer()
	g := &Game{
		renderer: renderer,
		inbound:  make(chan *protocol.Envelope, 1024),
		outbound: make(chan *protocol.ClientMessage, 1024),
	}
	g.reconciler = NewReconciler(Hooks{
		Gone: renderer.Forget,
	})
	g.send(&protocol.ClientMessage{Login: &protocol.Login{}})
	g.retry = loginRetryTicks
	return g
}

// Update drains everything the network delivered since the last frame before
// any local logic runs, so the mirror is consistent for the rest of the
// frame.
func (g *Game) Update() error {
	var batch []*protocol.GameState
	for len(g.inbound) > 0 {
		envelope := <-g.inbound
		switch {
		case envelope.State != nil:
			batch = append(batch, envelope.State)

		case envelope.Client != nil && envelope.Client.LoginAck != nil:
			g.playerID = envelope.Client.LoginAck.ID
			g.loggedIn = true

		case envelope.Client != nil && envelope.Client.FeedResponse != nil:
			g.reconciler.ApplyFeedEvents(envelope.Client.FeedResponse.Events)

		default:
			log.Printf("protocol violation: %+v", envelope)
		}
	}

	if request := g.reconciler.Reconcile(batch); request != nil {
		g.send(&protocol.ClientMessage{FeedRequest: request})
	}

	if !g.loggedIn {
		g.retry--
		if g.retry <= 0 {
			g.send(&protocol.ClientMessage{Login: &protocol.Login{}})
			g.retry = loginRetryTicks
		}
	}

	g.handleInput()
	return nil
}

// handleInput reports the cursor position whenever it changes. Fire and
// forget: no ack is awaited.
func (g *Game) handleInput() {
	x, y := ebiten.CursorPosition()
	input := world.Vec2{X: float64(x), Y: float64(y)}
	if input == g.lastInput {
		return
	}
	g.lastInput = input
	g.send(&protocol.ClientMessage{
		Input: &protocol.Input{Vector: input.ToWire()},
	})
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.reconciler, g.playerID, g.loggedIn)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return world.WindowWidth, world.WindowHeight
}

func (g *Game) send(msg *protocol.ClientMessage) {
	select {
	case g.outbound <- msg:
	default:
		log.Printf("outbound buffer full, dropping %+v", msg)
	}
}

// ReadMessages feeds server frames into the game until the connection dies.
func (g *Game) ReadMessages(ctx context.Context, c *websocket.Conn) {
	for {
		envelope, err := protocol.Read(ctx, c)
		if err != nil {
			log.Println(err)
			return
		}
		g.enqueue(envelope)
	}
}

// enqueue hands a received envelope to the update loop. When the buffer is
// full a state frame is droppable, the next broadcast supersedes it, but a
// reply (login ack, feed backfill) is not: the cursor was already adopted at
// request time, so losing the response would strand the mirror. Replies wait
// for the drain loop instead.
func (g *Game) enqueue(envelope *protocol.Envelope) {
	select {
	case g.inbound <- envelope:
		return
	default:
	}
	if envelope.State != nil {
		log.Printf("inbound buffer full, dropping frame %d", envelope.State.Frame)
		return
	}
	g.inbound <- envelope
}

// WriteMessages drains the outbound queue onto the connection.
func (g *Game) WriteMessages(ctx context.Context, c *websocket.Conn) {
	for msg := range g.outbound {
		if err := protocol.Write(ctx, c, &protocol.Envelope{Client: msg}); err != nil {
			log.Println(err)
			return
		}
	}
}
