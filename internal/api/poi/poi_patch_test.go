package poi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

var centralPark = types.PointOfInterestForUpdate{Name: "Central Park", Description: "Big park.. in the centre"}

func TestDecodePatch_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"object instead of array", `{"op":"replace","path":"/name","value":"x"}`},
		{"unknown op", `[{"op":"increment","path":"/name","value":"x"}]`},
		{"missing op", `[{"path":"/name","value":"x"}]`},
		{"missing path", `[{"op":"replace","value":"x"}]`},
		{"immutable field", `[{"op":"replace","path":"/id","value":7}]`},
		{"unknown field", `[{"op":"add","path":"/rating","value":5}]`},
		{"missing value", `[{"op":"replace","path":"/name"}]`},
		{"move from immutable field", `[{"op":"move","from":"/id","path":"/name"}]`},
		{"one bad op rejects all", `[{"op":"replace","path":"/name","value":"ok"},{"op":"replace","path":"/cityId","value":2}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePatch([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}
}

func TestDecodePatch_Empty(t *testing.T) {
	for _, raw := range []string{"", "  ", "null"} {
		_, err := DecodePatch([]byte(raw))
		assert.ErrorIs(t, err, ErrEmptyPatch, "raw=%q", raw)
	}
}

func TestPatch_ApplyTo(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want types.PointOfInterestForUpdate
	}{
		{
			name: "replace name keeps description",
			raw:  `[{"op":"replace","path":"/name","value":"Updated - Central Park"}]`,
			want: types.PointOfInterestForUpdate{Name: "Updated - Central Park", Description: centralPark.Description},
		},
		{
			name: "operations apply in order",
			raw:  `[{"op":"replace","path":"/name","value":"A"},{"op":"replace","path":"/name","value":"B"}]`,
			want: types.PointOfInterestForUpdate{Name: "B", Description: centralPark.Description},
		},
		{
			name: "remove description",
			raw:  `[{"op":"remove","path":"/description"}]`,
			want: types.PointOfInterestForUpdate{Name: centralPark.Name},
		},
		{
			name: "copy name into description",
			raw:  `[{"op":"copy","from":"/name","path":"/description"}]`,
			want: types.PointOfInterestForUpdate{Name: centralPark.Name, Description: centralPark.Name},
		},
		{
			name: "empty document leaves snapshot unchanged",
			raw:  `[]`,
			want: centralPark,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodePatch([]byte(tt.raw))
			require.NoError(t, err)

			got, err := p.ApplyTo(centralPark)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPatch_ApplyTo_Failures(t *testing.T) {
	t.Run("failed test op discards the document", func(t *testing.T) {
		p, err := DecodePatch([]byte(`[{"op":"replace","path":"/name","value":"X"},{"op":"test","path":"/description","value":"nope"}]`))
		require.NoError(t, err)

		got, err := p.ApplyTo(centralPark)
		assert.ErrorIs(t, err, types.ErrValidation)
		assert.Equal(t, centralPark, got)
	})

	t.Run("non string value", func(t *testing.T) {
		p, err := DecodePatch([]byte(`[{"op":"replace","path":"/name","value":42}]`))
		require.NoError(t, err)

		_, err = p.ApplyTo(centralPark)
		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "name")
	})
}
