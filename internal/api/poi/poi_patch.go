package poi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

// ErrEmptyPatch is returned for a missing or null patch document.
var ErrEmptyPatch = errors.New("a JSON patch document is required")

var patchablePaths = map[string]bool{
	"/name":        true,
	"/description": true,
}

var patchOps = map[string]bool{
	"add":     true,
	"remove":  true,
	"replace": true,
	"move":    true,
	"copy":    true,
	"test":    true,
}

// Patch is an RFC 6902 document limited to the mutable fields of a point of
// interest.
type Patch struct {
	ops jsonpatch.Patch
}

// Len is the number of operations.
func (p Patch) Len() int {
	return len(p.ops)
}

// DecodePatch parses raw and checks every operation before anything is
// applied, so a bad operation rejects the whole document.
func DecodePatch(raw []byte) (Patch, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Patch{}, ErrEmptyPatch
	}

	ops, err := jsonpatch.DecodePatch(trimmed)
	if err != nil {
		verr := types.NewValidationError()
		verr.Add("", "The patch document must be a JSON array of operations.")
		return Patch{}, verr
	}

	verr := types.NewValidationError()
	for i, op := range ops {
		kind := op.Kind()
		if !patchOps[kind] {
			verr.Add("", fmt.Sprintf("Operation %d has an unsupported op %q.", i, kind))
			continue
		}

		path, err := op.Path()
		if err != nil {
			verr.Add("", fmt.Sprintf("Operation %d is missing a path.", i))
			continue
		}
		if !patchablePaths[path] {
			verr.Add("", fmt.Sprintf("Operation %d targets %q, which cannot be patched.", i, path))
			continue
		}

		switch kind {
		case "move", "copy":
			from, err := op.From()
			if err != nil || !patchablePaths[from] {
				verr.Add("", fmt.Sprintf("Operation %d has an invalid from %q.", i, from))
			}
		case "add", "replace", "test":
			if _, ok := op["value"]; !ok {
				verr.Add("", fmt.Sprintf("Operation %d is missing a value.", i))
			}
		}
	}
	if verr.HasErrors() {
		return Patch{}, verr
	}
	return Patch{ops: ops}, nil
}

// ApplyTo applies the operations in order to a copy of snapshot. The input is
// never modified; a failing operation discards all of them.
func (p Patch) ApplyTo(snapshot types.PointOfInterestForUpdate) (types.PointOfInterestForUpdate, error) {
	doc, err := json.Marshal(snapshot)
	if err != nil {
		return snapshot, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	patched, err := p.ops.Apply(doc)
	if err != nil {
		verr := types.NewValidationError()
		verr.Add("", fmt.Sprintf("The patch document could not be applied: %s.", err))
		return snapshot, verr
	}

	var out types.PointOfInterestForUpdate
	dec := json.NewDecoder(bytes.NewReader(patched))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		verr := types.NewValidationError()
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			verr.Add(typeErr.Field, fmt.Sprintf("The field %s must be a string.", typeErr.Field))
		} else {
			verr.Add("", "The patched point of interest is not valid JSON.")
		}
		return snapshot, verr
	}
	return out, nil
}
