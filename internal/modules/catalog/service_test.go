package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"opsdeck/internal/domain"
	"opsdeck/internal/events"
)

type fakeArchiver struct {
	categories []int64
	locations  []int64
	err        error
}

func (a *fakeArchiver) ArchiveCategory(_ context.Context, id int64) error {
	if a.err != nil {
		return a.err
	}
	a.categories = append(a.categories, id)
	return nil
}

func (a *fakeArchiver) ArchiveLocation(_ context.Context, id int64) error {
	if a.err != nil {
		return a.err
	}
	a.locations = append(a.locations, id)
	return nil
}

type recordingNotifier struct {
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(title, _ string) { n.successes = append(n.successes, title) }
func (n *recordingNotifier) Error(title, _ string)   { n.failures = append(n.failures, title) }

type recordingAudit struct {
	records []*domain.AuditRecord
}

func (a *recordingAudit) Record(_ context.Context, rec *domain.AuditRecord) error {
	a.records = append(a.records, rec)
	return nil
}

func TestArchiveCategoryRecordsAcceptedAction(t *testing.T) {
	archiver := &fakeArchiver{}
	notifier := &recordingNotifier{}
	audit := &recordingAudit{}
	publisher := events.NewMemoryPublisher(zap.NewNop())
	svc := NewService(archiver, notifier, audit, publisher, zap.NewNop())

	err := svc.ArchiveCategory(context.Background(), 7, "alice")
	require.NoError(t, err)

	assert.Equal(t, []int64{7}, archiver.categories)
	assert.Len(t, notifier.successes, 1)

	require.Len(t, audit.records, 1)
	assert.Equal(t, domain.AuditCategoryArchived, audit.records[0].Kind)
	assert.Equal(t, "alice", audit.records[0].Actor)

	published := publisher.Events()
	require.Len(t, published, 1)
	event := published[0].(events.RecordArchivedEvent)
	assert.Equal(t, "equipment-category", event.Entity)
	assert.Equal(t, int64(7), event.EntityID)
}

func TestArchiveLocationRecordsAcceptedAction(t *testing.T) {
	archiver := &fakeArchiver{}
	audit := &recordingAudit{}
	svc := NewService(archiver, &recordingNotifier{}, audit, nil, zap.NewNop())

	err := svc.ArchiveLocation(context.Background(), 3, "bob")
	require.NoError(t, err)

	assert.Equal(t, []int64{3}, archiver.locations)
	require.Len(t, audit.records, 1)
	assert.Equal(t, domain.AuditLocationArchived, audit.records[0].Kind)
}

func TestArchiveFailureWritesNothing(t *testing.T) {
	archiver := &fakeArchiver{err: errors.New("backend down")}
	notifier := &recordingNotifier{}
	audit := &recordingAudit{}
	svc := NewService(archiver, notifier, audit, nil, zap.NewNop())

	err := svc.ArchiveCategory(context.Background(), 7, "alice")
	require.Error(t, err)

	assert.Empty(t, notifier.successes)
	assert.Empty(t, audit.records, "rejected actions never reach the audit log")
}
