package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"opsdeck/internal/domain"
)

// Publisher emits domain events after the upstream backend accepted an
// action. Publishing is best-effort: callers log failures and move on.
type Publisher interface {
	Publish(ctx context.Context, event interface{}) error
	Close() error
}

type RestockSubmittedEvent struct {
	SessionID   string                  `json:"session_id"`
	Requests    []domain.RestockRequest `json:"requests"`
	RequestedBy string                  `json:"requested_by"`
	OccurredAt  time.Time               `json:"occurred_at"`
}

type IssueReportedEvent struct {
	IssueID     int64     `json:"issue_id"`
	EquipmentID int64     `json:"equipment_id"`
	ItemName    string    `json:"item_name"`
	ReportedBy  string    `json:"reported_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type RecordArchivedEvent struct {
	Entity     string    `json:"entity"` // "equipment-category" or "storage-location"
	EntityID   int64     `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MemoryPublisher is the fallback when no broker is configured. It keeps
// events around so tests can inspect them.
type MemoryPublisher struct {
	mu     sync.Mutex
	logger *zap.Logger
	events []interface{}
}

func NewMemoryPublisher(logger *zap.Logger) *MemoryPublisher {
	return &MemoryPublisher{
		logger: logger,
		events: make([]interface{}, 0),
	}
}

func (p *MemoryPublisher) Publish(_ context.Context, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
	p.logger.Debug("event published (in-memory)", zap.Any("event", event))
	return nil
}

func (p *MemoryPublisher) Close() error {
	return nil
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]interface{}, len(p.events))
	copy(out, p.events)
	return out
}

func eventType(event interface{}) string {
	switch event.(type) {
	case RestockSubmittedEvent:
		return "RestockSubmitted"
	case IssueReportedEvent:
		return "IssueReported"
	case RecordArchivedEvent:
		return "RecordArchived"
	default:
		return "Unknown"
	}
}
