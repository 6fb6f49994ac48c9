package amqp

import (
	"encoding/json"
	"time"

	"pjes/internal/core"
)

// ExportEventMessage is the wire form of a dashboard download, published for
// the audit worker.
type ExportEventMessage struct {
	Kind      string    `json:"kind"`
	FileName  string    `json:"file_name"`
	Selection string    `json:"selection,omitempty"`
	Rows      int       `json:"rows"`
	ClientIP  string    `json:"client_ip,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExportEventMessage builds a message from ev. A zero CreatedAt is
// stamped with the current time.
func NewExportEventMessage(ev core.ExportEvent) *ExportEventMessage {
	ts := ev.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return &ExportEventMessage{
		Kind:      ev.Kind,
		FileName:  ev.FileName,
		Selection: ev.Selection,
		Rows:      ev.Rows,
		ClientIP:  ev.ClientIP,
		Timestamp: ts,
	}
}

// Event converts the message back into the domain type.
func (m *ExportEventMessage) Event() core.ExportEvent {
	return core.ExportEvent{
		Kind:      m.Kind,
		FileName:  m.FileName,
		Selection: m.Selection,
		Rows:      m.Rows,
		ClientIP:  m.ClientIP,
		CreatedAt: m.Timestamp,
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExportEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportEventMessageFromJSON creates a message from JSON bytes
func ExportEventMessageFromJSON(data []byte) (*ExportEventMessage, error) {
	var msg ExportEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
