package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"opsdeck/internal/domain"
	"opsdeck/internal/events"
)

// Archiver is the slice of the upstream client the module needs.
type Archiver interface {
	ArchiveCategory(ctx context.Context, id int64) error
	ArchiveLocation(ctx context.Context, id int64) error
}

// Notifier receives user-facing outcomes.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// AuditLog records accepted actions. Nil disables auditing.
type AuditLog interface {
	Record(ctx context.Context, rec *domain.AuditRecord) error
}

// Service forwards archive actions to the backend and records accepted
// ones. Archiving is a soft delete: the record survives upstream with an
// archived status.
type Service struct {
	archiver  Archiver
	notifier  Notifier
	audit     AuditLog
	publisher events.Publisher
	logger    *zap.Logger
}

func NewService(
	archiver Archiver,
	notifier Notifier,
	audit AuditLog,
	publisher events.Publisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		archiver:  archiver,
		notifier:  notifier,
		audit:     audit,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) ArchiveCategory(ctx context.Context, id int64, actor string) error {
	if err := s.archiver.ArchiveCategory(ctx, id); err != nil {
		return err
	}

	s.notifier.Success("Category archived", fmt.Sprintf("Category %d is no longer active.", id))
	s.record(ctx, domain.AuditCategoryArchived, "equipment-category", id, actor)
	return nil
}

func (s *Service) ArchiveLocation(ctx context.Context, id int64, actor string) error {
	if err := s.archiver.ArchiveLocation(ctx, id); err != nil {
		return err
	}

	s.notifier.Success("Location archived", fmt.Sprintf("Location %d is no longer active.", id))
	s.record(ctx, domain.AuditLocationArchived, "storage-location", id, actor)
	return nil
}

func (s *Service) record(ctx context.Context, kind domain.AuditKind, entity string, id int64, actor string) {
	if s.audit != nil {
		err := s.audit.Record(ctx, &domain.AuditRecord{
			Kind:  kind,
			Actor: actor,
			Key:   fmt.Sprintf("%s:%s:%d:%d", kind, entity, id, time.Now().UnixNano()),
		})
		if err != nil {
			s.logger.Warn("audit write failed", zap.Error(err))
		}
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, events.RecordArchivedEvent{
			Entity:     entity,
			EntityID:   id,
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("event publish failed", zap.Error(err))
		}
	}
}
