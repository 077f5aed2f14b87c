package dashboard

import "opsdeck/internal/domain"

// BuildProblemItems merges equipment records, low-stock alerts and reported
// issues into one problem-items view.
//
// When any issue exists, issues win outright: one entry per issue, equipment
// matched by id for display fields, and the status heuristic is skipped for
// the whole pass. Otherwise low-stock items are inserted first, then every
// equipment record whose status marks it broken/damaged/problem; later
// insertions overwrite earlier ones sharing an equipment id, and output order
// is insertion order.
func BuildProblemItems(
	equipment []domain.EquipmentItem,
	lowStock []domain.LowStockAlert,
	issues []domain.Issue,
) []domain.ProblemItem {
	if len(issues) > 0 {
		return problemsFromIssues(equipment, issues)
	}

	order := make([]int64, 0, len(lowStock))
	byID := make(map[int64]domain.ProblemItem, len(lowStock))

	insert := func(item domain.ProblemItem) {
		if _, seen := byID[item.EquipmentID]; !seen {
			order = append(order, item.EquipmentID)
		}
		byID[item.EquipmentID] = item
	}

	for _, alert := range lowStock {
		insert(domain.ProblemItem{
			EquipmentID:   alert.EquipmentID,
			Name:          alert.Name,
			CategoryName:  alert.CategoryName,
			LocationName:  alert.LocationName,
			StockQuantity: alert.StockQuantity,
			Source:        domain.ProblemSourceLowStock,
		})
	}

	for _, eq := range equipment {
		if !eq.HasProblemStatus() {
			continue
		}
		insert(domain.ProblemItem{
			EquipmentID:   eq.ID,
			Name:          eq.Name,
			CategoryName:  eq.CategoryName,
			LocationName:  eq.LocationName,
			StockQuantity: eq.StockQuantity,
			Status:        eq.Status,
			Source:        domain.ProblemSourceStatus,
		})
	}

	out := make([]domain.ProblemItem, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

func problemsFromIssues(equipment []domain.EquipmentItem, issues []domain.Issue) []domain.ProblemItem {
	out := make([]domain.ProblemItem, 0, len(issues))
	for _, issue := range issues {
		item := domain.ProblemItem{
			Name:             issue.ItemName,
			Source:           domain.ProblemSourceIssue,
			IssueID:          issue.ID,
			IssueDescription: issue.Description,
			ReportedBy:       issue.ReportedBy,
		}
		if issue.EquipmentID != nil {
			item.EquipmentID = *issue.EquipmentID
			// Absence of a matching equipment record is not an error; the
			// issue's own item name stands in.
			if eq, ok := findEquipment(equipment, *issue.EquipmentID); ok {
				item.Name = eq.Name
				item.CategoryName = eq.CategoryName
				item.LocationName = eq.LocationName
				item.StockQuantity = eq.StockQuantity
				item.Status = eq.Status
			}
		}
		out = append(out, item)
	}
	return out
}

func findEquipment(equipment []domain.EquipmentItem, id int64) (domain.EquipmentItem, bool) {
	for _, eq := range equipment {
		if eq.ID == id {
			return eq, true
		}
	}
	return domain.EquipmentItem{}, false
}
