package restock

type StartSessionRequest struct {
	RequestedBy string `json:"requested_by" validate:"required"`
}

type ToggleRequest struct {
	EquipmentID int64 `json:"equipment_id" validate:"required"`
}

type QuantityRequest struct {
	EquipmentID int64 `json:"equipment_id" validate:"required"`
	Quantity    int   `json:"quantity"`
}

type BrokenItemReport struct {
	EquipmentID int64  `json:"equipment_id" validate:"required"`
	Description string `json:"description"`
}

type ReportBrokenRequest struct {
	Items []BrokenItemReport `json:"items"`
}
