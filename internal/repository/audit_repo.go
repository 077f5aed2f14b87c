package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"opsdeck/internal/domain"
)

var ErrDuplicateRecord = errors.New("audit record already exists")

// AuditRepository appends accepted actions to the local audit log. It is the
// only thing this service persists; everything else lives upstream.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Migrate() error {
	return r.db.AutoMigrate(&domain.AuditRecord{})
}

func (r *AuditRepository) Record(ctx context.Context, rec *domain.AuditRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRecord
		}
		return err
	}
	return nil
}

func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var records []domain.AuditRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}
