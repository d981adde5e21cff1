package protocol

import (
	"context"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"nhooyr.io/websocket"
)

// Read reads the next binary frame from the connection and decodes it.
// Non-binary frames are a protocol violation and reported as an error.
func Read(ctx context.Context, c *websocket.Conn) (*Envelope, error) {
	messageType, reader, err := c.Reader(ctx)
	if err != nil {
		return nil, err
	}
	if messageType != websocket.MessageBinary {
		// Drain so the connection stays usable.
		_, _ = io.Copy(io.Discard, reader)
		return nil, fmt.Errorf("unexpected message type: %v", messageType)
	}

	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	var e Envelope
	if err := msgpack.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &e, nil
}

// Write encodes the envelope and sends it as one binary frame.
func Write(ctx context.Context, c *websocket.Conn, e *Envelope) error {
	b, err := msgpack.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return c.Write(ctx, websocket.MessageBinary, b)
}
