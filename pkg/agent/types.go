// Package agent speaks the voice-agent converse protocol: one websocket
// carrying binary PCM audio in both directions plus JSON control events,
// including the function-call request/response exchange.
package agent

// Control event types seen on the text side of the connection.
const (
	TypeSettings             = "Settings"
	TypeWelcome              = "Welcome"
	TypeUserStartedSpeaking  = "UserStartedSpeaking"
	TypeFunctionCallRequest  = "FunctionCallRequest"
	TypeFunctionCallResponse = "FunctionCallResponse"
	TypeError                = "Error"
)

// Event is the envelope every control message shares.
type Event struct {
	Type string `json:"type"`
}

// FunctionCall is one entry of a FunctionCallRequest. Arguments is a JSON
// object encoded as a string. Entries with ClientSide false are handled
// inside the agent service and must be ignored by the bridge.
type FunctionCall struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Arguments  string `json:"arguments"`
	ClientSide bool   `json:"client_side"`
}

// FunctionCallRequest asks the client to run one or more tools.
type FunctionCallRequest struct {
	Event
	Functions []FunctionCall `json:"functions"`
}

// FunctionCallResponse returns a tool result, correlated by ID. Content is
// a JSON document encoded as a string.
type FunctionCallResponse struct {
	Event
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// FunctionDef declares a tool in the Settings message.
type FunctionDef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  Schema `json:"parameters"`
}

// Schema is the JSON-schema subset the agent service accepts for tool
// parameters.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Items       *Property `json:"items,omitempty"`
	Minimum     *int      `json:"minimum,omitempty"`
}
