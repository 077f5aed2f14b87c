package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryPublisherKeepsEvents(t *testing.T) {
	p := NewMemoryPublisher(zap.NewNop())

	err := p.Publish(context.Background(), IssueReportedEvent{
		IssueID:    1,
		ItemName:   "Tent",
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	published := p.Events()
	require.Len(t, published, 1)
	assert.Equal(t, "Tent", published[0].(IssueReportedEvent).ItemName)
}

func TestEventTypeNames(t *testing.T) {
	assert.Equal(t, "RestockSubmitted", eventType(RestockSubmittedEvent{}))
	assert.Equal(t, "IssueReported", eventType(IssueReportedEvent{}))
	assert.Equal(t, "RecordArchived", eventType(RecordArchivedEvent{}))
	assert.Equal(t, "Unknown", eventType(struct{}{}))
}
