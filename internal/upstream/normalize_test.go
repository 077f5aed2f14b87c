package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"opsdeck/internal/domain"
)

func TestDecodeListBareArray(t *testing.T) {
	raw := []byte(`[{"equipment_id":1,"name":"Tent"},{"equipment_id":2,"name":"Stove"}]`)

	list := DecodeList[domain.EquipmentItem](raw)

	assert.Len(t, list.Items, 2)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "Tent", list.Items[0].Name)
}

func TestDecodeListDataEnvelope(t *testing.T) {
	raw := []byte(`{"data":[{"equipment_id":5,"name":"Lamp"}],"total":42}`)

	list := DecodeList[domain.EquipmentItem](raw)

	assert.Len(t, list.Items, 1)
	assert.Equal(t, 42, list.Total)
}

func TestDecodeListDataEnvelopeMetaTotal(t *testing.T) {
	raw := []byte(`{"data":[{"equipment_id":5}],"meta":{"total":17}}`)

	list := DecodeList[domain.EquipmentItem](raw)

	assert.Equal(t, 17, list.Total)
}

func TestDecodeListDataEnvelopePaginationTotal(t *testing.T) {
	raw := []byte(`{"data":[{"equipment_id":5}],"pagination":{"total":9}}`)

	list := DecodeList[domain.EquipmentItem](raw)

	assert.Equal(t, 9, list.Total)
}

func TestDecodeListDataEnvelopeTotalPrecedence(t *testing.T) {
	// top-level total wins over meta and pagination
	raw := []byte(`{"data":[{"equipment_id":5}],"total":3,"meta":{"total":17},"pagination":{"total":9}}`)

	list := DecodeList[domain.EquipmentItem](raw)

	assert.Equal(t, 3, list.Total)
}

func TestDecodeListDataEnvelopeWithoutTotals(t *testing.T) {
	raw := []byte(`{"data":[{"equipment_id":5},{"equipment_id":6}]}`)

	list := DecodeList[domain.EquipmentItem](raw)

	assert.Equal(t, 2, list.Total)
}

func TestDecodeListItemsEnvelope(t *testing.T) {
	raw := []byte(`{"items":[{"equipment_id":7,"name":"Cooler"}]}`)

	list := DecodeList[domain.EquipmentItem](raw)

	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Total)
}

func TestDecodeListItemsEnvelopeWithTotal(t *testing.T) {
	raw := []byte(`{"items":[{"equipment_id":7}],"total":30}`)

	list := DecodeList[domain.EquipmentItem](raw)

	assert.Equal(t, 30, list.Total)
}

func TestDecodeListDataWinsOverItems(t *testing.T) {
	raw := []byte(`{"data":[{"equipment_id":1}],"items":[{"equipment_id":2},{"equipment_id":3}]}`)

	list := DecodeList[domain.EquipmentItem](raw)

	assert.Len(t, list.Items, 1)
	assert.Equal(t, int64(1), list.Items[0].ID)
}

func TestDecodeListUnknownShape(t *testing.T) {
	for _, raw := range []string{
		`{"message":"nope"}`,
		`{"data":123}`,
		`{"items":"not-a-list"}`,
		`"just a string"`,
		`null`,
		`42`,
		`{not json at all`,
		``,
	} {
		list := DecodeList[domain.EquipmentItem]([]byte(raw))
		assert.NotNil(t, list.Items, "input %q", raw)
		assert.Empty(t, list.Items, "input %q", raw)
		assert.Equal(t, 0, list.Total, "input %q", raw)
	}
}

func TestDecodeListBadElementsDegradeToEmpty(t *testing.T) {
	raw := []byte(`{"data":[{"equipment_id":"not-a-number"}],"total":1}`)

	list := DecodeList[domain.EquipmentItem](raw)

	assert.Empty(t, list.Items)
	assert.Equal(t, 0, list.Total)
}
