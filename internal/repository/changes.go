package repository

import "github.com/FACorreiaa/go-city-info-api/internal/types"

type changeKind int

const (
	changeInsert changeKind = iota
	changeUpdate
	changeDelete
)

func (k changeKind) String() string {
	switch k {
	case changeInsert:
		return "insert"
	case changeUpdate:
		return "update"
	case changeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

type change struct {
	kind changeKind
	poi  types.PointOfInterest
}

// changeSet is the pending work of one request. It copies the entity at
// staging time, so later edits to the caller's value are not committed
// unless staged again.
type changeSet struct {
	pending []change
}

func (c *changeSet) stage(kind changeKind, poi *types.PointOfInterest) {
	c.pending = append(c.pending, change{kind: kind, poi: *poi})
}

// drain returns the pending changes and empties the set.
func (c *changeSet) drain() []change {
	out := c.pending
	c.pending = nil
	return out
}
