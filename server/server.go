package server

import (
	"context"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"net/http/pprof"

	"github.com/segmentio/ksuid"
	"nhooyr.io/websocket"

	"agar/protocol"
	"agar/utils"
)

type subscriber struct {
	Messages chan *protocol.Envelope
	Handle   string
	// done is closed when the reader exits, which is the only reliable
	// disconnect signal: the request context belongs to a hijacked
	// connection and is never cancelled.
	done chan struct{}
	c    *websocket.Conn
}

// event is one inbound item for the tick loop: either a client message or a
// disconnect notice. All state mutation happens on the tick goroutine.
type event struct {
	msg  *protocol.ClientMessage
	gone bool
	sub  *subscriber
}

type Server struct {
	game        *Game
	subscribers map[*subscriber]struct{}
	mu          sync.RWMutex
	serveMux    http.ServeMux
	events      chan *event
	tickRate    int
}

func NewServer(cfg *utils.Config) *Server {
	s := &Server{
		game: NewGame(
			Mode(cfg.Server.Mode),
			cfg.Server.FeedTarget,
			rand.New(rand.NewSource(time.Now().UnixNano())),
		),
		subscribers: make(map[*subscriber]struct{}),
		events:      make(chan *event, 1024),
		tickRate:    cfg.Server.TickRate,
	}

	go func() {
		tick := time.NewTicker(time.Second / time.Duration(s.tickRate))
		defer tick.Stop()
		for range tick.C {
			s.onTick()
		}
	}()

	s.serveMux.HandleFunc("/", s.onConnection)
	s.serveMux.HandleFunc("/debug/pprof/", pprof.Index)
	s.serveMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	s.serveMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	s.serveMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	s.serveMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return s
}

// onTick drains the inbox first so the simulation sees a consistent input
// snapshot, then steps the world and broadcasts the post-tick state.
func (s *Server) onTick() {
	for len(s.events) > 0 {
		s.onEvent(<-s.events)
	}

	state := s.game.Tick(1.0 / float64(s.tickRate))
	s.publish(&protocol.Envelope{State: state})
}

func (s *Server) onEvent(e *event) {
	if e.gone {
		s.game.Disconnect(e.sub.Handle)
		return
	}

	switch {
	case e.msg.Login != nil:
		id := s.game.Login(e.sub.Handle)
		s.reply(e.sub, &protocol.ClientMessage{
			LoginAck: &protocol.LoginAck{ID: id},
		})

	case e.msg.Input != nil:
		s.game.SetInput(e.sub.Handle, e.msg.Input.Vector)

	case e.msg.FeedRequest != nil:
		s.reply(e.sub, &protocol.ClientMessage{
			FeedResponse: &protocol.FeedResponse{
				Events: s.game.FeedEvents(e.msg.FeedRequest.Cursor),
			},
		})

	default:
		// LoginAck/FeedResponse are server-to-client only.
		log.Printf("protocol violation from %s: %+v", e.sub.Handle, e.msg)
	}
}

func (s *Server) reply(sub *subscriber, msg *protocol.ClientMessage) {
	select {
	case sub.Messages <- &protocol.Envelope{Client: msg}:
	default:
		log.Printf("dropping reply to %s: send buffer full", sub.Handle)
	}
}

// publish broadcasts the state frame to every subscriber. Best effort: a
// subscriber that cannot keep up loses this frame, the next tick supersedes
// it anyway.
func (s *Server) publish(e *protocol.Envelope) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for sub := range s.subscribers {
		select {
		case sub.Messages <- e:
		default:
		}
	}
}

func (s *Server) addSubscriber(sub *subscriber) {
	s.mu.Lock()
	s.subscribers[sub] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) removeSubscriber(sub *subscriber) {
	s.mu.Lock()
	delete(s.subscribers, sub)
	s.mu.Unlock()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.serveMux.ServeHTTP(w, r)
}

func (s *Server) onConnection(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "")

	if err := s.handleConnection(r.Context(), c); err != nil {
		log.Println(err)
	}
}

func (s *Server) handleConnection(ctx context.Context, c *websocket.Conn) error {
	sub := &subscriber{
		Messages: make(chan *protocol.Envelope, 1024),
		Handle:   ksuid.New().String(),
		done:     make(chan struct{}),
		c:        c,
	}
	s.addSubscriber(sub)
	defer s.removeSubscriber(sub)

	go func() {
		defer func() {
			s.events <- &event{gone: true, sub: sub}
			close(sub.done)
		}()

		for {
			envelope, err := protocol.Read(ctx, c)
			if err != nil {
				log.Println(err)
				return
			}
			if envelope.Client == nil {
				// State frames are server-to-client only.
				log.Printf("protocol violation from %s: state-shaped message", sub.Handle)
				continue
			}
			s.events <- &event{msg: envelope.Client, sub: sub}
		}
	}()

	for {
		select {
		case msg := <-sub.Messages:
			if err := protocol.Write(ctx, c, msg); err != nil {
				log.Println(err)
			}
		case <-sub.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Run starts the server with the address from config.toml, overridable by
// the first argument.
func Run(args []string) error {
	log.SetFlags(log.LstdFlags | log.Llongfile)

	cfg, err := utils.ReadTOML("config.toml")
	if err != nil {
		cfg = utils.Default()
	}
	if len(args) > 1 {
		cfg.Server.Address = args[1]
	}

	l, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return err
	}
	log.Printf("Listening on http://%v", l.Addr())

	server := NewServer(cfg)
	s := &http.Server{
		Handler:      server,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- s.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		log.Println(err)
	case sig := <-sigs:
		log.Printf("terminating: %v", sig)
	}

	return s.Shutdown(context.Background())
}
