package domain

import "time"

type AuditKind string

const (
	AuditRestockRequested AuditKind = "restock_requested"
	AuditIssueReported    AuditKind = "issue_reported"
	AuditCategoryArchived AuditKind = "category_archived"
	AuditLocationArchived AuditKind = "location_archived"
)

// AuditRecord is an append-only row written after the upstream backend
// accepted an action. Workflow drafts never reach this table.
type AuditRecord struct {
	ID          int64     `gorm:"primaryKey;column:id" json:"id"`
	Kind        AuditKind `gorm:"column:kind;index" json:"kind"`
	EquipmentID int64     `gorm:"column:equipment_id" json:"equipment_id"`
	ItemName    string    `gorm:"column:item_name" json:"item_name"`
	Quantity    int       `gorm:"column:quantity" json:"quantity"`
	Actor       string    `gorm:"column:actor" json:"actor"`
	Key         string    `gorm:"column:key;uniqueIndex" json:"key"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies table name for GORM
func (AuditRecord) TableName() string {
	return "audit_records"
}
