package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotSavedMessage announces that a draft snapshot was written. It
// carries only the storage key and save revision; consumers fetch the
// payload itself from the shared database.
type SnapshotSavedMessage struct {
	Key      string    `json:"key"`
	Revision int64     `json:"revision"`
	SavedAt  time.Time `json:"savedAt"`
}

func NewSnapshotSavedMessage(key string, revision int64) *SnapshotSavedMessage {
	return &SnapshotSavedMessage{
		Key:      key,
		Revision: revision,
		SavedAt:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *SnapshotSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotSavedMessageFromJSON creates a message from JSON bytes.
func SnapshotSavedMessageFromJSON(data []byte) (*SnapshotSavedMessage, error) {
	var msg SnapshotSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
