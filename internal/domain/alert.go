package domain

// LowStockAlert is a backend-derived indicator that an item's quantity is at
// or below its reorder threshold. Read-only on this side.
type LowStockAlert struct {
	EquipmentID   int64  `json:"equipment_id"`
	Name          string `json:"name"`
	CategoryName  string `json:"category_name"`
	LocationName  string `json:"location_name"`
	StockQuantity int    `json:"stock_quantity"`
	Threshold     int    `json:"threshold,omitempty"`
}

// OverstockAlert is the mirror indicator for quantities above a healthy
// maximum.
type OverstockAlert struct {
	EquipmentID   int64  `json:"equipment_id"`
	Name          string `json:"name"`
	CategoryName  string `json:"category_name"`
	StockQuantity int    `json:"stock_quantity"`
	Ceiling       int    `json:"ceiling,omitempty"`
}

// RestockRequest is the creation payload for POST /lowstock-requests.
type RestockRequest struct {
	ItemName    string `json:"item_name"`
	Quantity    int    `json:"quantity"`
	RequestedBy string `json:"requested_by"`
}
