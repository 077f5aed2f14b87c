package restock

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"opsdeck/internal/domain"
)

type fakeBackend struct {
	mu       sync.Mutex
	restocks []domain.RestockRequest
	issues   []domain.IssueReport

	restockErr func(req domain.RestockRequest) error
	issueErr   func(report domain.IssueReport) error
}

func (b *fakeBackend) CreateRestockRequest(_ context.Context, req domain.RestockRequest) error {
	if b.restockErr != nil {
		if err := b.restockErr(req); err != nil {
			return err
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.restocks = append(b.restocks, req)
	return nil
}

func (b *fakeBackend) CreateIssue(_ context.Context, report domain.IssueReport) (*domain.Issue, error) {
	if b.issueErr != nil {
		if err := b.issueErr(report); err != nil {
			return nil, err
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issues = append(b.issues, report)
	return &domain.Issue{ID: int64(len(b.issues)), ItemName: report.ItemName}, nil
}

func (b *fakeBackend) restockCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.restocks)
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(title, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, title)
}

func (n *recordingNotifier) Error(title, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, title)
}

func staticCandidates(candidates ...Candidate) CandidateFunc {
	return func(context.Context) ([]Candidate, error) {
		return candidates, nil
	}
}

func defaultCandidates() CandidateFunc {
	return staticCandidates(
		Candidate{EquipmentID: 1, Name: "Tripod", Status: "active", StockQuantity: 7},
		Candidate{EquipmentID: 2, Name: "Softbox", Status: "active", StockQuantity: 2},
		Candidate{EquipmentID: 3, Name: "Reflector", Status: "broken", StockQuantity: 0},
	)
}

func newTestService(backend *fakeBackend, notifier *recordingNotifier, candidates CandidateFunc) *Service {
	return NewService(backend, notifier, candidates, nil, nil, nil, zap.NewNop())
}

func TestSuggestedQuantity(t *testing.T) {
	assert.Equal(t, 3, SuggestedQuantity(7))
	assert.Equal(t, 10, SuggestedQuantity(0))
	assert.Equal(t, 1, SuggestedQuantity(9))
	assert.Equal(t, 1, SuggestedQuantity(10))
	assert.Equal(t, 1, SuggestedQuantity(25))
}

func TestStartFiltersUnkeyedCandidates(t *testing.T) {
	candidates := staticCandidates(
		Candidate{EquipmentID: 1, Name: "Tripod", Status: "active", StockQuantity: 7},
		Candidate{EquipmentID: 0, Name: "Mystery cable", Status: "active"},
	)
	svc := newTestService(&fakeBackend{}, &recordingNotifier{}, candidates)

	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, StateSelecting, sess.State)
	require.Len(t, sess.Candidates, 1)
	assert.Equal(t, "Tripod", sess.Candidates[0].Name)
}

func TestToggleRejectsUnknownItem(t *testing.T) {
	svc := newTestService(&fakeBackend{}, &recordingNotifier{}, defaultCandidates())
	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)

	_, err = svc.Toggle(sess.ID, 99)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestSelectAllTogglesWholeSet(t *testing.T) {
	svc := newTestService(&fakeBackend{}, &recordingNotifier{}, defaultCandidates())
	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)

	sess, err = svc.SelectAll(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, sess.selectionCount())

	// a second call on a fully selected set clears it
	sess, err = svc.SelectAll(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, sess.selectionCount())
}

func TestAdvanceWithEmptySelectionStays(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestService(&fakeBackend{}, notifier, defaultCandidates())
	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrEmptySelection)

	current, err := svc.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, StateSelecting, current.State)
	assert.Len(t, notifier.failures, 1)
	assert.Empty(t, notifier.successes)
}

func TestQuantityCoercionBlocksOneAdvance(t *testing.T) {
	backend := &fakeBackend{}
	notifier := &recordingNotifier{}
	svc := newTestService(backend, notifier, staticCandidates(
		Candidate{EquipmentID: 1, Name: "Tripod", Status: "active", StockQuantity: 7},
	))
	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)

	_, err = svc.Toggle(sess.ID, 1)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)

	// quantity left at zero: the first advance substitutes the suggestion
	// and stops
	sess, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, StateSpecifyingQuantity, sess.State)
	assert.Equal(t, 3, sess.Quantities[1])
	assert.Equal(t, []int64{1}, sess.Adjusted)
	assert.Len(t, notifier.failures, 1)
	assert.Equal(t, 0, backend.restockCount(), "nothing submitted while blocked")

	// the second advance goes through with the substituted value
	sess, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, sess.State)
	require.Equal(t, 1, backend.restockCount())
	assert.Equal(t, 3, backend.restocks[0].Quantity)
}

func TestBackPreservesDraft(t *testing.T) {
	svc := newTestService(&fakeBackend{}, &recordingNotifier{}, defaultCandidates())
	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)

	_, err = svc.Toggle(sess.ID, 1)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)
	_, err = svc.SetQuantity(sess.ID, 1, 5)
	require.NoError(t, err)

	sess, err = svc.Back(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, StateSelecting, sess.State)
	assert.True(t, sess.Selected[1])

	sess, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, StateSpecifyingQuantity, sess.State)
	assert.Equal(t, 5, sess.Quantities[1], "entered quantity survives the round trip")
}

func TestSetQuantityRejectsNegative(t *testing.T) {
	svc := newTestService(&fakeBackend{}, &recordingNotifier{}, defaultCandidates())
	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)

	_, err = svc.Toggle(sess.ID, 1)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)

	_, err = svc.SetQuantity(sess.ID, 1, -4)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestSubmitSuccessResetsToIdle(t *testing.T) {
	backend := &fakeBackend{}
	notifier := &recordingNotifier{}
	refreshed := false
	svc := NewService(backend, notifier, staticCandidates(
		Candidate{EquipmentID: 1, Name: "Tripod", Status: "active", StockQuantity: 7},
		Candidate{EquipmentID: 2, Name: "Softbox", Status: "active", StockQuantity: 2},
	), nil, nil, func(context.Context) { refreshed = true }, zap.NewNop())

	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)
	_, err = svc.SelectAll(sess.ID)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)
	_, err = svc.SetQuantity(sess.ID, 1, 4)
	require.NoError(t, err)
	_, err = svc.SetQuantity(sess.ID, 2, 8)
	require.NoError(t, err)

	sess, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)

	assert.Equal(t, StateIdle, sess.State)
	assert.Empty(t, sess.Quantities, "draft cleared after acceptance")
	assert.Equal(t, 0, sess.selectionCount())
	assert.Equal(t, 2, backend.restockCount())
	assert.Len(t, notifier.successes, 1)
	assert.Empty(t, notifier.failures)
	assert.True(t, refreshed)
}

func TestSubmitPartialFailure(t *testing.T) {
	backend := &fakeBackend{
		restockErr: func(req domain.RestockRequest) error {
			if req.ItemName == "Softbox" {
				return errors.New("backend rejected softbox")
			}
			return nil
		},
	}
	notifier := &recordingNotifier{}
	svc := newTestService(backend, notifier, staticCandidates(
		Candidate{EquipmentID: 1, Name: "Tripod", Status: "active", StockQuantity: 7},
		Candidate{EquipmentID: 2, Name: "Softbox", Status: "active", StockQuantity: 2},
		Candidate{EquipmentID: 4, Name: "Stand", Status: "active", StockQuantity: 5},
	))

	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)
	_, err = svc.SelectAll(sess.ID)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)
	for _, id := range []int64{1, 2, 4} {
		_, err = svc.SetQuantity(sess.ID, id, 6)
		require.NoError(t, err)
	}

	sess, err = svc.Advance(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrSubmitFailed)

	// one failure notification for the whole batch, never a success
	assert.Len(t, notifier.failures, 1)
	assert.Empty(t, notifier.successes)
	require.NotNil(t, sess)
	assert.Equal(t, StateSpecifyingQuantity, sess.State)
	assert.Equal(t, 6, sess.Quantities[2], "quantities retained for retry")
}

func TestBrokenItemsRouteThroughReporting(t *testing.T) {
	svc := newTestService(&fakeBackend{}, &recordingNotifier{}, defaultCandidates())
	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)

	_, err = svc.Toggle(sess.ID, 3) // Reflector, status broken
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)
	_, err = svc.SetQuantity(sess.ID, 3, 2)
	require.NoError(t, err)

	sess, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, StateReportingBroken, sess.State)
}

func TestSkipBrokenSubmitsWithoutIssues(t *testing.T) {
	backend := &fakeBackend{}
	svc := newTestService(backend, &recordingNotifier{}, defaultCandidates())
	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)

	_, err = svc.Toggle(sess.ID, 3)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)
	_, err = svc.SetQuantity(sess.ID, 3, 2)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)

	sess, err = svc.SkipBroken(context.Background(), sess.ID)
	require.NoError(t, err)

	assert.Equal(t, StateIdle, sess.State)
	assert.Equal(t, 1, backend.restockCount())
	assert.Empty(t, backend.issues)
}

func TestReportBrokenFilesIssuesThenSubmits(t *testing.T) {
	backend := &fakeBackend{}
	svc := newTestService(backend, &recordingNotifier{}, defaultCandidates())
	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)

	_, err = svc.Toggle(sess.ID, 3)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)
	_, err = svc.SetQuantity(sess.ID, 3, 2)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)

	sess, err = svc.ReportBroken(context.Background(), sess.ID, map[int64]string{3: "lens cracked"})
	require.NoError(t, err)

	assert.Equal(t, StateIdle, sess.State)
	require.Len(t, backend.issues, 1)
	assert.Equal(t, "lens cracked", backend.issues[0].Description)
	require.NotNil(t, backend.issues[0].EquipmentID)
	assert.Equal(t, int64(3), *backend.issues[0].EquipmentID)
	assert.Equal(t, "alice", backend.issues[0].ReportedBy)
	assert.Equal(t, 1, backend.restockCount())
}

func TestReportBrokenFailureStaysInReporting(t *testing.T) {
	backend := &fakeBackend{
		issueErr: func(domain.IssueReport) error {
			return errors.New("issue endpoint down")
		},
	}
	notifier := &recordingNotifier{}
	svc := newTestService(backend, notifier, defaultCandidates())
	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)

	_, err = svc.Toggle(sess.ID, 3)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)
	_, err = svc.SetQuantity(sess.ID, 3, 2)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), sess.ID)
	require.NoError(t, err)

	sess, err = svc.ReportBroken(context.Background(), sess.ID, nil)
	assert.ErrorIs(t, err, ErrReportFailed)

	require.NotNil(t, sess)
	assert.Equal(t, StateReportingBroken, sess.State)
	assert.Len(t, notifier.failures, 1)
	assert.Equal(t, 0, backend.restockCount(), "submission never starts on a failed report")
}

func TestCancelRemovesSession(t *testing.T) {
	svc := newTestService(&fakeBackend{}, &recordingNotifier{}, defaultCandidates())
	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(sess.ID))

	_, err = svc.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.Cancel(sess.ID), ErrSessionNotFound)
}

func TestOperationsRejectWrongState(t *testing.T) {
	svc := newTestService(&fakeBackend{}, &recordingNotifier{}, defaultCandidates())
	sess, err := svc.Start(context.Background(), "alice")
	require.NoError(t, err)

	_, err = svc.SetQuantity(sess.ID, 1, 3)
	assert.ErrorIs(t, err, ErrInvalidState, "quantity edits need the quantity step")

	_, err = svc.SkipBroken(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Back(sess.ID)
	assert.ErrorIs(t, err, ErrInvalidState, "nothing before the selection step")
}
