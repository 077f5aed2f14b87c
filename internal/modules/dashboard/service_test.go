package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"opsdeck/internal/domain"
)

type fakeSource struct {
	equipment    []domain.EquipmentItem
	lowStock     []domain.LowStockAlert
	overstock    []domain.OverstockAlert
	issues       []domain.Issue
	lowStockErr  error
	equipmentErr error
}

func (f *fakeSource) ListEquipment(context.Context) ([]domain.EquipmentItem, int, error) {
	return f.equipment, len(f.equipment), f.equipmentErr
}

func (f *fakeSource) ListLowStock(context.Context) ([]domain.LowStockAlert, int, error) {
	return f.lowStock, len(f.lowStock), f.lowStockErr
}

func (f *fakeSource) ListOverstock(context.Context) ([]domain.OverstockAlert, int, error) {
	return f.overstock, len(f.overstock), nil
}

func (f *fakeSource) ListIssues(context.Context) ([]domain.Issue, int, error) {
	return f.issues, len(f.issues), nil
}

func TestSnapshotAssemblesAllSources(t *testing.T) {
	source := &fakeSource{
		equipment: []domain.EquipmentItem{
			{ID: 1, Name: "Tent", StockQuantity: 2, Status: "broken"},
			{ID: 2, Name: "Old lamp", Status: "archived"},
		},
		lowStock:  []domain.LowStockAlert{{EquipmentID: 3, Name: "Stove", StockQuantity: 1}},
		overstock: []domain.OverstockAlert{{EquipmentID: 4, Name: "Chairs", StockQuantity: 90}},
	}
	svc := NewService(source, nil, time.Minute, zap.NewNop())

	snap := svc.Snapshot(context.Background())

	assert.Len(t, snap.Equipment, 1, "archived items are excluded")
	assert.Len(t, snap.LowStock, 1)
	assert.Len(t, snap.Overstock, 1)
	assert.Len(t, snap.ProblemItems, 2, "low-stock stove plus broken tent")
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestFailingSourceDegradesToEmpty(t *testing.T) {
	source := &fakeSource{
		equipment: []domain.EquipmentItem{
			{ID: 1, Name: "Tent", StockQuantity: 2, Status: "broken"},
		},
		lowStockErr: errors.New("boom"),
	}
	svc := NewService(source, nil, time.Minute, zap.NewNop())

	snap := svc.Snapshot(context.Background())

	assert.Empty(t, snap.LowStock, "failed source settles as empty")
	assert.Len(t, snap.Equipment, 1, "other sources are unaffected")
	assert.Len(t, snap.ProblemItems, 1)
}
