// Package snapshot reads and writes the persisted card set.
//
// The on-disk form is one JSON array, either a flat list of cards or a list
// of {subset_id, label, cards} groups. Reading is tolerant: anything that is
// not one of those two shapes is reported as Invalid and yields no cards.
// Writing always produces the grouped shape.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/agentstation/riftsync/pkg/cards"
	"github.com/agentstation/riftsync/pkg/errors"
	"github.com/agentstation/riftsync/pkg/logging"
)

// Shape classifies what was found at the snapshot path.
type Shape int

const (
	// ShapeMissing means no file exists at the path.
	ShapeMissing Shape = iota
	// ShapeEmpty means the file is blank or holds an empty array.
	ShapeEmpty
	// ShapeFlat means the file holds a list of cards.
	ShapeFlat
	// ShapeGrouped means the file holds a list of subset groups.
	ShapeGrouped
	// ShapeInvalid means the file could not be read or has another shape.
	ShapeInvalid
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeMissing:
		return "missing"
	case ShapeEmpty:
		return "empty"
	case ShapeFlat:
		return "flat"
	case ShapeGrouped:
		return "grouped"
	case ShapeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Snapshot is the result of loading a persisted card set.
type Snapshot struct {
	Path  string
	Shape Shape
	Cards []cards.Card

	// Err is the read or parse failure behind ShapeInvalid.
	Err error
}

// Load reads the snapshot at path. It never fails: unreadable or malformed
// files are logged and reported as ShapeInvalid with no cards.
func Load(ctx context.Context, path string) Snapshot {
	logger := logging.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug().Str("path", path).Msg("No persisted snapshot")
			return Snapshot{Path: path, Shape: ShapeMissing, Cards: []cards.Card{}}
		}
		err = errors.WrapIO("read", path, err)
		logger.Warn().Err(err).Str("path", path).Msg("Could not read persisted snapshot")
		return Snapshot{Path: path, Shape: ShapeInvalid, Cards: []cards.Card{}, Err: err}
	}

	shape, cs, err := Parse(data)
	snap := Snapshot{Path: path, Shape: shape, Cards: cs}
	if err != nil {
		snap.Err = errors.WrapParse("json", path, err)
		logger.Warn().Err(snap.Err).Str("path", path).Msg("Ignoring unusable persisted snapshot")
		return snap
	}
	logger.Info().
		Str("path", path).
		Str("shape", shape.String()).
		Int("cards", len(cs)).
		Msg("Loaded persisted snapshot")
	return snap
}

// Parse decodes snapshot bytes. The shape is decided by the first element:
// an object with a "cards" key means grouped, any other object means flat.
// Every element must then agree with that shape or the whole snapshot is
// rejected. Comments and trailing commas are accepted.
//
// Cards is never nil. A non-nil error always comes with ShapeInvalid.
func Parse(data []byte) (Shape, []cards.Card, error) {
	empty := []cards.Card{}
	if len(bytes.TrimSpace(data)) == 0 {
		return ShapeEmpty, empty, nil
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return ShapeInvalid, empty, err
	}
	dec := json.NewDecoder(bytes.NewReader(std))
	dec.UseNumber()
	var top any
	if err := dec.Decode(&top); err != nil {
		return ShapeInvalid, empty, err
	}

	list, ok := top.([]any)
	if !ok {
		return ShapeInvalid, empty, errors.New("top-level value is not an array")
	}
	if len(list) == 0 {
		return ShapeEmpty, empty, nil
	}

	first := cards.AsDocument(list[0])
	if first == nil {
		return ShapeInvalid, empty, errors.New("first element is not an object")
	}
	if _, grouped := first["cards"]; grouped {
		cs, err := parseGrouped(list)
		if err != nil {
			return ShapeInvalid, empty, err
		}
		return ShapeGrouped, cs, nil
	}
	cs, err := parseFlat(list)
	if err != nil {
		return ShapeInvalid, empty, err
	}
	return ShapeFlat, cs, nil
}

func parseFlat(list []any) ([]cards.Card, error) {
	out := make([]cards.Card, 0, len(list))
	for i, item := range list {
		doc := cards.AsDocument(item)
		if doc == nil {
			return nil, errors.NewValidationError("cards", i, "element is not an object")
		}
		out = append(out, cards.Normalize(doc))
	}
	return out, nil
}

func parseGrouped(list []any) ([]cards.Card, error) {
	var out []cards.Card
	for i, item := range list {
		group := cards.AsDocument(item)
		if group == nil {
			return nil, errors.NewValidationError("groups", i, "element is not an object")
		}
		members, ok := group.Get("cards").([]any)
		if !ok {
			return nil, errors.NewValidationError("groups", i, "cards is not an array")
		}
		flat, err := parseFlat(members)
		if err != nil {
			return nil, err
		}
		out = append(out, flat...)
	}
	if out == nil {
		out = []cards.Card{}
	}
	return out, nil
}

// Save writes cs to path in the grouped, deterministic encoding. The file is
// replaced atomically so a failed write leaves any previous snapshot intact.
func Save(path string, cs []cards.Card) error {
	data, err := cards.Serialize(cs)
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
