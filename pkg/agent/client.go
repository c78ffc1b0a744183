package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultConverseURL is the production converse endpoint.
const DefaultConverseURL = "wss://agent.deepgram.com/v1/agent/converse"

// maxMessageSize bounds inbound messages; TTS chunks can be large.
const maxMessageSize = 1 << 24

// Dial opens a websocket to the agent service, authenticating via the
// token subprotocol.
func Dial(ctx context.Context, url, apiKey string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		Subprotocols:     []string{"token", apiKey},
		HandshakeTimeout: 10 * time.Second,
	}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dialing agent (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dialing agent: %w", err)
	}
	conn.SetReadLimit(maxMessageSize)
	return conn, nil
}
