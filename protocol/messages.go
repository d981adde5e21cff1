package protocol

// EntityID is assigned by the server and never reused while a client may
// still reference it. It is the only join key between server state and the
// client's mirror.
type EntityID = uint32

type Vec2 struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
}

type Vec3 struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	Z float64 `msgpack:"z"`
}

type FeedColor uint8

const (
	FeedRed FeedColor = iota
	FeedGreen
	FeedBlue
)

// AgarState mirrors the simulated agar attributes. Input is the raw player
// vector; it is clamped to MaxVelocity when converted into motion, not here.
type AgarState struct {
	Radius      float64 `msgpack:"radius"`
	Input       Vec2    `msgpack:"input"`
	MaxVelocity float64 `msgpack:"maxVelocity"`
}

type AgarUpdate struct {
	Agar     AgarState `msgpack:"agar"`
	Position Vec3      `msgpack:"position"`
}

type BallUpdate struct {
	Velocity Vec3 `msgpack:"velocity"`
	Position Vec3 `msgpack:"position"`
}

// GameState is the per-tick broadcast. Frame is the sole ordering key for
// reconciliation; FeedCount tells clients how long the feed history is so
// they can ask for the part they are missing.
type GameState struct {
	Frame uint32 `msgpack:"frame"`
	// Exactly one of Agars/Balls is non-nil, depending on the game mode.
	// An empty-but-present map is meaningful: it despawns everything.
	Agars     map[EntityID]AgarUpdate `msgpack:"agars"`
	Balls     map[EntityID]BallUpdate `msgpack:"balls"`
	FeedCount uint64                  `msgpack:"feedCount"`
}

type FeedSpawn struct {
	ID       EntityID  `msgpack:"id"`
	Color    FeedColor `msgpack:"color"`
	Position Vec3      `msgpack:"position"`
}

type FeedDespawn struct {
	ID EntityID `msgpack:"id"`
}

// FeedEvent is one entry of the append-only feed history. Exactly one of
// Spawn or Despawn is set.
type FeedEvent struct {
	Spawn   *FeedSpawn   `msgpack:"spawn,omitempty"`
	Despawn *FeedDespawn `msgpack:"despawn,omitempty"`
}

type Login struct{}

type LoginAck struct {
	ID EntityID `msgpack:"id"`
}

type Input struct {
	Vector Vec2 `msgpack:"vector"`
}

type FeedRequest struct {
	Cursor uint64 `msgpack:"cursor"`
}

type FeedResponse struct {
	Events []FeedEvent `msgpack:"events"`
}

// ClientMessage is the reliable request/response exchange, used in both
// directions. Exactly one field is set.
type ClientMessage struct {
	Login        *Login        `msgpack:"login,omitempty"`
	LoginAck     *LoginAck     `msgpack:"loginAck,omitempty"`
	Input        *Input        `msgpack:"input,omitempty"`
	FeedRequest  *FeedRequest  `msgpack:"feedRequest,omitempty"`
	FeedResponse *FeedResponse `msgpack:"feedResponse,omitempty"`
}

// Envelope is the top-level wire frame. State rides the best-effort path
// (dropped for slow receivers), Client the reliable one.
type Envelope struct {
	Client *ClientMessage `msgpack:"client,omitempty"`
	State  *GameState     `msgpack:"state,omitempty"`
}
