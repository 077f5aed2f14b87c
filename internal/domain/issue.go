package domain

import "time"

// Issue is a user-submitted report that a piece of equipment is broken or
// damaged. Issues are immutable once created; the backend owns them.
type Issue struct {
	ID          int64     `json:"id"`
	EquipmentID *int64    `json:"equipment_id"` // nullable: an issue may describe an item known only by name
	ItemName    string    `json:"item_name"`
	Description string    `json:"description"`
	ReportedBy  string    `json:"reported_by"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// IssueReport is the creation payload for POST /equipment-issues.
type IssueReport struct {
	EquipmentID *int64 `json:"equipment_id"`
	ItemName    string `json:"item_name"`
	Description string `json:"description"`
	ReportedBy  string `json:"reported_by"`
	Status      string `json:"status"`
}
