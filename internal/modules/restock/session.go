package restock

import (
	"time"

	"opsdeck/internal/domain"
)

type State string

const (
	StateIdle               State = "idle"
	StateSelecting          State = "selecting"
	StateSpecifyingQuantity State = "specifying_quantity"
	StateReportingBroken    State = "reporting_broken"
	StateSubmitting         State = "submitting"
)

// restockTarget is the stock level suggested quantities aim for.
const restockTarget = 10

// SuggestedQuantity is the default restock amount for an item at the given
// stock level: top up to the target, but always at least one.
func SuggestedQuantity(stockQuantity int) int {
	if q := restockTarget - stockQuantity; q > 1 {
		return q
	}
	return 1
}

// Candidate is one restockable problem item, captured when the session
// starts. The set is a snapshot: concurrent backend changes do not mutate a
// running session.
type Candidate struct {
	EquipmentID   int64  `json:"equipment_id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	StockQuantity int    `json:"stock_quantity"`
}

func (c Candidate) hasProblemStatus() bool {
	return domain.EquipmentItem{Status: c.Status}.HasProblemStatus()
}

// Session is one guided restock flow. Selection and quantities form the
// draft request; the draft is discarded on submit or cancel and never
// persisted.
type Session struct {
	ID          string         `json:"id"`
	State       State          `json:"state"`
	RequestedBy string         `json:"requested_by"`
	Candidates  []Candidate    `json:"candidates"`
	Selected    map[int64]bool `json:"selected"`
	Quantities  map[int64]int  `json:"quantities"`
	// Adjusted lists the equipment ids whose quantities the last advance
	// coerced to a suggested default.
	Adjusted  []int64   `json:"adjusted,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// selectedCandidates returns the selected candidates in candidate order.
// Selected ids that no longer resolve to a candidate are skipped, so an item
// vanishing mid-flow degrades to a missing row, never a failure.
func (s *Session) selectedCandidates() []Candidate {
	out := make([]Candidate, 0, len(s.Selected))
	for _, c := range s.Candidates {
		if s.Selected[c.EquipmentID] {
			out = append(out, c)
		}
	}
	return out
}

func (s *Session) selectionCount() int {
	n := 0
	for _, selected := range s.Selected {
		if selected {
			n++
		}
	}
	return n
}

func (s *Session) findCandidate(equipmentID int64) (Candidate, bool) {
	for _, c := range s.Candidates {
		if c.EquipmentID == equipmentID {
			return c, true
		}
	}
	return Candidate{}, false
}

// clone returns a copy safe to hand to handlers while the service keeps
// mutating the original.
func (s *Session) clone() *Session {
	copied := *s

	copied.Candidates = append([]Candidate(nil), s.Candidates...)
	copied.Selected = make(map[int64]bool, len(s.Selected))
	for id, v := range s.Selected {
		copied.Selected[id] = v
	}
	copied.Quantities = make(map[int64]int, len(s.Quantities))
	for id, v := range s.Quantities {
		copied.Quantities[id] = v
	}
	copied.Adjusted = append([]int64(nil), s.Adjusted...)

	return &copied
}
