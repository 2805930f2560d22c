package types

import "encoding/json"

// Envelope is the wire-format frame exchanged through the relay. Payload holds
// the JSON body of the event named by Event.
type Envelope struct {
	ID        string          `json:"id"`
	Sender    ParticipantID   `json:"sender"`
	Token     LandscapeToken  `json:"landscapeToken"`
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}
