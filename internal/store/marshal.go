package store

import (
	"encoding/json"
	"fmt"

	"github.com/rubengrill/blocks/internal/piece"
	"github.com/rubengrill/blocks/internal/trace"
)

// storedShape is one entry of the pieces column.
type storedShape struct {
	Kind string  `json:"kind"`
	Rows [][]int `json:"rows"`
}

// MarshalPieces encodes a piece set as canonical JSON TEXT for the pieces
// column. Set order is kept, since random sources depend on it.
func MarshalPieces(set *piece.Set) (string, error) {
	arr := make(trace.Array, set.Len())
	for i := range set.Len() {
		shape := set.At(i)
		rows := shape.Block(piece.Clockwise0).Rows()
		rowValues := make(trace.Array, len(rows))
		for y, row := range rows {
			rowValues[y] = trace.Ints(row)
		}
		arr[i] = trace.Object{
			"kind": trace.String(shape.Kind().String()),
			"rows": rowValues,
		}
	}

	data, err := trace.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal pieces: %w", err)
	}
	return string(data), nil
}

// UnmarshalPieces decodes the pieces column back into a set.
func UnmarshalPieces(text string) (*piece.Set, error) {
	var stored []storedShape
	if err := json.Unmarshal([]byte(text), &stored); err != nil {
		return nil, fmt.Errorf("unmarshal pieces: %w", err)
	}

	shapes := make([]*piece.Shape, 0, len(stored))
	for _, st := range stored {
		kind, err := piece.ParseKind(st.Kind)
		if err != nil {
			return nil, fmt.Errorf("unmarshal pieces: %w", err)
		}
		shape, err := piece.NewShape(kind, st.Rows)
		if err != nil {
			return nil, fmt.Errorf("unmarshal pieces: %w", err)
		}
		shapes = append(shapes, shape)
	}

	set, err := piece.NewSet(shapes...)
	if err != nil {
		return nil, fmt.Errorf("unmarshal pieces: %w", err)
	}
	return set, nil
}

// unmarshalEvent decodes an events.payload value.
func unmarshalEvent(payload string) (trace.Event, error) {
	var e trace.Event
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return trace.Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return e, nil
}
