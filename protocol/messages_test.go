package protocol

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

// The reconciler relies on "empty but present" being distinguishable from
// "absent": an empty agar map despawns everything, a nil one says nothing.
func TestEmptyAgarSetSurvivesRoundTrip(t *testing.T) {
	in := &Envelope{
		State: &GameState{
			Frame: 3,
			Agars: map[EntityID]AgarUpdate{},
		},
	}

	b, err := msgpack.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Envelope
	if err := msgpack.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}

	if out.State == nil {
		t.Fatal("state frame lost")
	}
	if out.State.Agars == nil {
		t.Fatal("empty agar set decoded as nil")
	}
	if out.State.Balls != nil {
		t.Fatalf("nil ball set decoded as %+v", out.State.Balls)
	}
}

func TestClientMessageTagging(t *testing.T) {
	b, err := msgpack.Marshal(&Envelope{
		Client: &ClientMessage{FeedRequest: &FeedRequest{Cursor: 42}},
	})
	if err != nil {
		t.Fatal(err)
	}
	var out Envelope
	if err := msgpack.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out.Client == nil || out.Client.FeedRequest == nil {
		t.Fatalf("feed request lost: %+v", out)
	}
	if out.Client.FeedRequest.Cursor != 42 {
		t.Fatalf("cursor = %d, want 42", out.Client.FeedRequest.Cursor)
	}
	if out.Client.Login != nil || out.Client.Input != nil {
		t.Fatalf("unexpected fields set: %+v", out.Client)
	}
}
