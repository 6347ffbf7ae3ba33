package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypePing = "ping"

	// Server -> Client
	TypeGenerationStarted  = "generation_started"
	TypeSlotGenerated      = "slot_generated"
	TypeGenerationComplete = "generation_complete"
	TypeError              = "error"
	TypePong               = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage encodes payload into a typed envelope.
func NewMessage(msgType string, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// Server Messages (outgoing)

type GenerationStartedPayload struct {
	GameID  string `json:"game_id"`
	Pending int    `json:"pending"`
}

type SlotGeneratedPayload struct {
	GameID       string `json:"game_id"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	QuestionID   string `json:"question_id"`
	Value        int    `json:"value"`
	Completed    int    `json:"completed"`
	Total        int    `json:"total"`
	Failed       bool   `json:"failed"`
	Sentinel     bool   `json:"sentinel"`
}

type GenerationCompletePayload struct {
	GameID    string `json:"game_id"`
	Mode      string `json:"mode"`
	Generated int    `json:"generated"`
	Sentinel  int    `json:"sentinel"`
	Failed    int    `json:"failed"`
	Error     string `json:"error,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
