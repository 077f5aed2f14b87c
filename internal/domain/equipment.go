package domain

import "strings"

// Equipment status values as reported by the inventory backend.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
	StatusBroken   = "broken"
	StatusDamaged  = "damaged"
	StatusProblem  = "problem"
)

type EquipmentItem struct {
	ID            int64  `json:"equipment_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	CategoryName  string `json:"category_name"`
	LocationName  string `json:"location_name"`
	StockQuantity int    `json:"stock_quantity"`
	Status        string `json:"status"`
}

// HasProblemStatus reports whether the item's status marks it as unusable.
// The backend is not consistent about casing, so the check is case-insensitive.
func (e EquipmentItem) HasProblemStatus() bool {
	switch strings.ToLower(strings.TrimSpace(e.Status)) {
	case StatusBroken, StatusDamaged, StatusProblem:
		return true
	}
	return false
}

// IsArchived reports whether the item was soft-deleted. Archived items are
// excluded from operational views.
func (e EquipmentItem) IsArchived() bool {
	return strings.EqualFold(strings.TrimSpace(e.Status), StatusArchived)
}
