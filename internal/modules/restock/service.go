package restock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"opsdeck/internal/domain"
	"opsdeck/internal/events"
	"opsdeck/internal/upstream"
)

// Backend is the slice of the upstream client the workflow needs.
type Backend interface {
	CreateRestockRequest(ctx context.Context, req domain.RestockRequest) error
	CreateIssue(ctx context.Context, report domain.IssueReport) (*domain.Issue, error)
}

// Notifier receives the workflow's user-facing outcomes.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// AuditLog records accepted actions. Nil disables auditing.
type AuditLog interface {
	Record(ctx context.Context, rec *domain.AuditRecord) error
}

// CandidateFunc supplies the restockable problem items a new session starts
// from.
type CandidateFunc func(ctx context.Context) ([]Candidate, error)

// RefreshFunc re-runs the dashboard data pipeline after a successful
// submission.
type RefreshFunc func(ctx context.Context)

// Service drives restock workflow sessions. One mutex guards the session
// map and all state transitions; it is released around backend fan-outs so a
// slow upstream never blocks other sessions.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session

	backend    Backend
	notifier   Notifier
	candidates CandidateFunc
	audit      AuditLog
	publisher  events.Publisher
	refresh    RefreshFunc
	logger     *zap.Logger
}

func NewService(
	backend Backend,
	notifier Notifier,
	candidates CandidateFunc,
	audit AuditLog,
	publisher events.Publisher,
	refresh RefreshFunc,
	logger *zap.Logger,
) *Service {
	return &Service{
		sessions:   make(map[string]*Session),
		backend:    backend,
		notifier:   notifier,
		candidates: candidates,
		audit:      audit,
		publisher:  publisher,
		refresh:    refresh,
		logger:     logger,
	}
}

/* ---------- SESSION LIFECYCLE ---------- */

func (s *Service) Start(ctx context.Context, requestedBy string) (*Session, error) {
	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}

	// Items the backend knows only by name cannot be keyed into a selection.
	keyed := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.EquipmentID != 0 {
			keyed = append(keyed, c)
		}
	}

	now := time.Now()
	sess := &Session{
		ID:          uuid.New().String(),
		State:       StateSelecting,
		RequestedBy: requestedBy,
		Candidates:  keyed,
		Selected:    make(map[int64]bool),
		Quantities:  make(map[int64]int),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	out := sess.clone()
	s.mu.Unlock()

	return out, nil
}

func (s *Service) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess.clone(), nil
}

func (s *Service) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

/* ---------- SELECTING ---------- */

func (s *Service) Toggle(id string, equipmentID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.State != StateSelecting {
		return nil, ErrInvalidState
	}
	if _, ok := sess.findCandidate(equipmentID); !ok {
		return nil, ErrUnknownItem
	}

	sess.Selected[equipmentID] = !sess.Selected[equipmentID]
	sess.UpdatedAt = time.Now()
	return sess.clone(), nil
}

// SelectAll toggles the whole candidate set in one step: everything gets
// selected unless everything already was, in which case the selection is
// cleared.
func (s *Service) SelectAll(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.State != StateSelecting {
		return nil, ErrInvalidState
	}

	allSelected := len(sess.Candidates) > 0
	for _, c := range sess.Candidates {
		if !sess.Selected[c.EquipmentID] {
			allSelected = false
			break
		}
	}

	for _, c := range sess.Candidates {
		sess.Selected[c.EquipmentID] = !allSelected
	}
	sess.UpdatedAt = time.Now()
	return sess.clone(), nil
}

/* ---------- SPECIFYING QUANTITY ---------- */

func (s *Service) SetQuantity(id string, equipmentID int64, quantity int) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.State != StateSpecifyingQuantity {
		return nil, ErrInvalidState
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if !sess.Selected[equipmentID] {
		return nil, ErrUnknownItem
	}

	sess.Quantities[equipmentID] = quantity
	sess.UpdatedAt = time.Now()
	return sess.clone(), nil
}

// Back steps the flow one state backwards. Selection and entered quantities
// survive the trip; going back is not a reset.
func (s *Service) Back(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	switch sess.State {
	case StateSpecifyingQuantity:
		sess.State = StateSelecting
	case StateReportingBroken:
		sess.State = StateSpecifyingQuantity
	default:
		return nil, ErrInvalidState
	}

	sess.Adjusted = nil
	sess.UpdatedAt = time.Now()
	return sess.clone(), nil
}

/* ---------- ADVANCE ---------- */

func (s *Service) Advance(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()

	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	switch sess.State {
	case StateSelecting:
		if sess.selectionCount() == 0 {
			s.mu.Unlock()
			s.notifier.Error("Nothing selected", "Select at least one item to restock.")
			return nil, ErrEmptySelection
		}
		sess.State = StateSpecifyingQuantity
		sess.Adjusted = nil
		sess.UpdatedAt = time.Now()
		out := sess.clone()
		s.mu.Unlock()
		return out, nil

	case StateSpecifyingQuantity:
		// Soft validation: zero/blank quantities are filled with the
		// suggested default and the advance stops here so the user reviews
		// the substituted values. The next advance goes through.
		coerced := make([]int64, 0)
		for _, c := range sess.selectedCandidates() {
			if sess.Quantities[c.EquipmentID] <= 0 {
				sess.Quantities[c.EquipmentID] = SuggestedQuantity(c.StockQuantity)
				coerced = append(coerced, c.EquipmentID)
			}
		}
		if len(coerced) > 0 {
			sess.Adjusted = coerced
			sess.UpdatedAt = time.Now()
			out := sess.clone()
			s.mu.Unlock()
			s.notifier.Error(
				"Quantities adjusted",
				fmt.Sprintf("%d item(s) had no quantity and were set to a suggested amount. Review and continue.", len(coerced)),
			)
			return out, nil
		}

		sess.Adjusted = nil
		for _, c := range sess.selectedCandidates() {
			if c.hasProblemStatus() {
				sess.State = StateReportingBroken
				sess.UpdatedAt = time.Now()
				out := sess.clone()
				s.mu.Unlock()
				return out, nil
			}
		}
		return s.beginSubmit(ctx, sess)

	default:
		s.mu.Unlock()
		return nil, ErrInvalidState
	}
}

/* ---------- REPORTING BROKEN ---------- */

// SkipBroken proceeds straight to submission without reporting anything.
func (s *Service) SkipBroken(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()

	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if sess.State != StateReportingBroken {
		s.mu.Unlock()
		return nil, ErrInvalidState
	}
	return s.beginSubmit(ctx, sess)
}

// ReportBroken files one issue per broken selected item, then proceeds to
// submission. A partially failed batch surfaces a single aggregate error and
// keeps the session in ReportingBroken; nothing is retried automatically.
func (s *Service) ReportBroken(ctx context.Context, id string, descriptions map[int64]string) (*Session, error) {
	s.mu.Lock()

	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if sess.State != StateReportingBroken {
		s.mu.Unlock()
		return nil, ErrInvalidState
	}

	broken := make([]Candidate, 0)
	for _, c := range sess.selectedCandidates() {
		if c.hasProblemStatus() {
			broken = append(broken, c)
		}
	}
	sessionID := sess.ID
	reportedBy := sess.RequestedBy
	s.mu.Unlock()

	if len(broken) == 0 {
		// Nothing left to report (the broken items vanished); fall through
		// to submission.
		return s.resumeSubmit(ctx, sessionID)
	}

	type outcome struct {
		candidate Candidate
		issue     *domain.Issue
		err       error
	}
	outcomes := make([]outcome, len(broken))

	var wg sync.WaitGroup
	for i, c := range broken {
		wg.Add(1)
		go func(i int, c Candidate) {
			defer wg.Done()
			description := descriptions[c.EquipmentID]
			if description == "" {
				description = fmt.Sprintf("Reported as %s during restock", c.Status)
			}
			equipmentID := c.EquipmentID
			issue, err := s.backend.CreateIssue(ctx, domain.IssueReport{
				EquipmentID: &equipmentID,
				ItemName:    c.Name,
				Description: description,
				ReportedBy:  reportedBy,
				Status:      "open",
			})
			outcomes[i] = outcome{candidate: c, issue: issue, err: err}
		}(i, c)
	}
	wg.Wait()

	failed := 0
	var firstErr error
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			if firstErr == nil {
				firstErr = o.err
			}
		}
	}

	if firstErr != nil {
		s.notifier.Error(
			"Issue reporting failed",
			fmt.Sprintf("%d of %d report(s) failed: %s", failed, len(broken), upstream.Message(firstErr)),
		)
		sessionSnapshot, err := s.Get(sessionID)
		if err != nil {
			return nil, err
		}
		return sessionSnapshot, fmt.Errorf("%w: %s", ErrReportFailed, upstream.Message(firstErr))
	}

	for _, o := range outcomes {
		s.recordIssueReported(ctx, sessionID, reportedBy, o.candidate, o.issue)
	}

	return s.resumeSubmit(ctx, sessionID)
}

/* ---------- SUBMISSION ---------- */

// resumeSubmit re-acquires the session and submits. Used after an unlocked
// fan-out phase.
func (s *Service) resumeSubmit(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return s.beginSubmit(ctx, sess)
}

// beginSubmit fans out one restock request per selected item. The whole
// batch has an all-or-nothing perceived outcome: any rejection produces one
// failure notification and drops the session back to SpecifyingQuantity with
// quantities retained. Called with the lock held; releases it.
func (s *Service) beginSubmit(ctx context.Context, sess *Session) (*Session, error) {
	sess.State = StateSubmitting
	sess.UpdatedAt = time.Now()

	sessionID := sess.ID
	requestedBy := sess.RequestedBy
	items := sess.selectedCandidates()
	requests := make([]domain.RestockRequest, len(items))
	for i, c := range items {
		requests[i] = domain.RestockRequest{
			ItemName:    c.Name,
			Quantity:    sess.Quantities[c.EquipmentID],
			RequestedBy: requestedBy,
		}
	}
	s.mu.Unlock()

	errs := make([]error, len(requests))
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req domain.RestockRequest) {
			defer wg.Done()
			errs[i] = s.backend.CreateRestockRequest(ctx, req)
		}(i, req)
	}
	wg.Wait()

	var firstErr error
	for _, err := range errs {
		if err != nil {
			firstErr = err
			break
		}
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		// Cancelled while the batch was in flight; discard the result.
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	if firstErr != nil {
		sess.State = StateSpecifyingQuantity
		sess.UpdatedAt = time.Now()
		out := sess.clone()
		s.mu.Unlock()

		s.notifier.Error("Restock request failed", upstream.Message(firstErr))
		return out, fmt.Errorf("%w: %s", ErrSubmitFailed, upstream.Message(firstErr))
	}

	// Terminal success: the draft is discarded and the session returns to
	// Idle.
	sess.Selected = make(map[int64]bool)
	sess.Quantities = make(map[int64]int)
	sess.Adjusted = nil
	sess.State = StateIdle
	sess.UpdatedAt = time.Now()
	out := sess.clone()
	s.mu.Unlock()

	s.notifier.Success("Restock requested", fmt.Sprintf("Submitted %d restock request(s).", len(requests)))
	s.recordRestockSubmitted(ctx, sessionID, requestedBy, items, requests)

	if s.refresh != nil {
		s.refresh(ctx)
	}
	return out, nil
}

/* ---------- AUDIT & EVENTS ---------- */

func (s *Service) recordRestockSubmitted(
	ctx context.Context,
	sessionID, requestedBy string,
	items []Candidate,
	requests []domain.RestockRequest,
) {
	if s.audit != nil {
		for i, c := range items {
			err := s.audit.Record(ctx, &domain.AuditRecord{
				Kind:        domain.AuditRestockRequested,
				EquipmentID: c.EquipmentID,
				ItemName:    c.Name,
				Quantity:    requests[i].Quantity,
				Actor:       requestedBy,
				Key:         fmt.Sprintf("restock:%s:%d", sessionID, c.EquipmentID),
			})
			if err != nil {
				s.logger.Warn("audit write failed", zap.Error(err))
			}
		}
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, events.RestockSubmittedEvent{
			SessionID:   sessionID,
			Requests:    requests,
			RequestedBy: requestedBy,
			OccurredAt:  time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("event publish failed", zap.Error(err))
		}
	}
}

func (s *Service) recordIssueReported(
	ctx context.Context,
	sessionID, reportedBy string,
	candidate Candidate,
	issue *domain.Issue,
) {
	if s.audit != nil {
		err := s.audit.Record(ctx, &domain.AuditRecord{
			Kind:        domain.AuditIssueReported,
			EquipmentID: candidate.EquipmentID,
			ItemName:    candidate.Name,
			Actor:       reportedBy,
			Key:         fmt.Sprintf("issue:%s:%d", sessionID, candidate.EquipmentID),
		})
		if err != nil {
			s.logger.Warn("audit write failed", zap.Error(err))
		}
	}

	if s.publisher != nil {
		event := events.IssueReportedEvent{
			EquipmentID: candidate.EquipmentID,
			ItemName:    candidate.Name,
			ReportedBy:  reportedBy,
			OccurredAt:  time.Now().UTC(),
		}
		if issue != nil {
			event.IssueID = issue.ID
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("event publish failed", zap.Error(err))
		}
	}
}
