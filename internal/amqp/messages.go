package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SnapshotChangedMessage announces that the snapshot under Key was written.
// It carries no record payload; consumers read the medium if they need it.
type SnapshotChangedMessage struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Operation string    `json:"operation"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSnapshotChangedMessage stamps a fresh id and the current time.
func NewSnapshotChangedMessage(key, operation string) *SnapshotChangedMessage {
	return &SnapshotChangedMessage{
		ID:        uuid.NewString(),
		Key:       key,
		Operation: operation,
		Timestamp: time.Now().UTC(),
	}
}

func (m *SnapshotChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotChangedMessageFromJSON decodes and checks a message body.
func SnapshotChangedMessageFromJSON(data []byte) (*SnapshotChangedMessage, error) {
	var msg SnapshotChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Key == "" || msg.Operation == "" {
		return nil, fmt.Errorf("message %q: key and operation are required", msg.ID)
	}
	if _, err := uuid.Parse(msg.ID); err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}
	return &msg, nil
}
