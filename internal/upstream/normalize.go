package upstream

import (
	"bytes"
	"encoding/json"
)

// List is the uniform shape every list endpoint is normalized into.
type List[T any] struct {
	Items []T
	Total int
}

// DecodeList converts the heterogeneous list payloads the backend serves
// (bare array, paginated {data: [...]}, {items: [...]}) into a List. It is
// pure and total: malformed or unrecognized input degrades to the empty list,
// never an error. Resolution order, first match wins:
//
//  1. bare array                -> items, total = len
//  2. {data: [...]}             -> total from total, meta.total,
//     pagination.total, then len
//  3. {items: [...]}            -> total from total, then len
//  4. anything else             -> empty, total 0
func DecodeList[T any](raw []byte) List[T] {
	if items, ok := decodeArray[T](raw); ok {
		return List[T]{Items: items, Total: len(items)}
	}

	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Items json.RawMessage `json:"items"`
		Total *int            `json:"total"`
		Meta  struct {
			Total *int `json:"total"`
		} `json:"meta"`
		Pagination struct {
			Total *int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return List[T]{Items: []T{}}
	}

	if items, ok := decodeArray[T](envelope.Data); ok {
		total := len(items)
		switch {
		case envelope.Total != nil:
			total = *envelope.Total
		case envelope.Meta.Total != nil:
			total = *envelope.Meta.Total
		case envelope.Pagination.Total != nil:
			total = *envelope.Pagination.Total
		}
		return List[T]{Items: items, Total: total}
	}

	if items, ok := decodeArray[T](envelope.Items); ok {
		total := len(items)
		if envelope.Total != nil {
			total = *envelope.Total
		}
		return List[T]{Items: items, Total: total}
	}

	return List[T]{Items: []T{}}
}

func decodeArray[T any](raw []byte) ([]T, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}
	if items == nil {
		items = []T{}
	}
	return items, true
}
