package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReportRequestMessage asks the worker to run the report once.
type ReportRequestMessage struct {
	RequestID   string    `json:"request_id"`
	PrintOnly   bool      `json:"print_only,omitempty"` // skip the summary sheet write
	RequestedAt time.Time `json:"requested_at"`
}

// NewReportRequestMessage creates a request with a fresh id
func NewReportRequestMessage(printOnly bool) *ReportRequestMessage {
	return &ReportRequestMessage{
		RequestID:   uuid.NewString(),
		PrintOnly:   printOnly,
		RequestedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRequestMessageFromJSON creates a message from JSON bytes
func ReportRequestMessageFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReportCompletedMessage announces the outcome of a request.
type ReportCompletedMessage struct {
	RequestID   string    `json:"request_id"`
	RunID       string    `json:"run_id,omitempty"`
	Source      string    `json:"source,omitempty"`
	NetIncome   string    `json:"net_income,omitempty"`
	IssueCount  int       `json:"issue_count"`
	Error       string    `json:"error,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// ToJSON converts the message to JSON bytes
func (m *ReportCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportCompletedMessageFromJSON creates a message from JSON bytes
func ReportCompletedMessageFromJSON(data []byte) (*ReportCompletedMessage, error) {
	var msg ReportCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
