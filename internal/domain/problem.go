package domain

// Where a ProblemItem came from.
const (
	ProblemSourceIssue    = "issue"
	ProblemSourceLowStock = "low_stock"
	ProblemSourceStatus   = "status"
)

// ProblemItem is the aggregated, de-duplicated view combining server-reported
// issues and heuristic status signals. When any issue exists, issues take
// absolute precedence and the heuristic path is suppressed.
type ProblemItem struct {
	EquipmentID      int64  `json:"equipment_id"`
	Name             string `json:"name"`
	CategoryName     string `json:"category_name,omitempty"`
	LocationName     string `json:"location_name,omitempty"`
	StockQuantity    int    `json:"stock_quantity"`
	Status           string `json:"status,omitempty"`
	Source           string `json:"source"`
	IssueID          int64  `json:"issue_id,omitempty"`
	IssueDescription string `json:"issue_description,omitempty"`
	ReportedBy       string `json:"reported_by,omitempty"`
}
