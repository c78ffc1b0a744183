package bridge

// Telephony media-stream events. Inbound events arrive one JSON object per
// websocket text message; outbound commands use the same envelope.

type TelephonyEvent struct {
	Event          string        `json:"event"`
	SequenceNumber string        `json:"sequenceNumber,omitempty"`
	StreamSid      string        `json:"streamSid,omitempty"`
	Start          *StartPayload `json:"start,omitempty"`
	Media          *MediaPayload `json:"media,omitempty"`
}

type StartPayload struct {
	StreamSid        string            `json:"streamSid"`
	AccountSid       string            `json:"accountSid,omitempty"`
	CallSid          string            `json:"callSid,omitempty"`
	Tracks           []string          `json:"tracks,omitempty"`
	MediaFormat      *MediaFormat      `json:"mediaFormat,omitempty"`
	CustomParameters map[string]string `json:"customParameters,omitempty"`
}

type MediaFormat struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sampleRate"`
	Channels   int    `json:"channels"`
}

type MediaPayload struct {
	Track     string `json:"track,omitempty"`
	Chunk     string `json:"chunk,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	// Payload is base64-encoded mu-law audio.
	Payload string `json:"payload"`
}

// Inbound event names.
const (
	EventStart = "start"
	EventMedia = "media"
	EventStop  = "stop"
)

// EventClear flushes audio buffered downstream of the telephony provider.
// Sent when the caller starts speaking over the agent.
const EventClear = "clear"

// OutEvent is an outbound telephony command.
type OutEvent struct {
	Event     string    `json:"event"`
	StreamSid string    `json:"streamSid,omitempty"`
	Media     *OutMedia `json:"media,omitempty"`
}

type OutMedia struct {
	Payload string `json:"payload"`
}
