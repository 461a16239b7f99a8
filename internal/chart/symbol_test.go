package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/vizdash/internal/domain"
)

func TestSplitPercent(t *testing.T) {
	tests := []struct {
		name              string
		received, donated float64
		wantR, wantD      float64
	}{
		{name: "donor only", donated: 50, wantR: 0, wantD: 100},
		{name: "recipient only", received: 50, wantR: 100, wantD: 0},
		{name: "tiny inflow stays visible", received: 1, donated: 999, wantR: 1, wantD: 99},
		{name: "tiny outflow stays visible", received: 999, donated: 1, wantR: 99, wantD: 1},
		{name: "even", received: 25, donated: 75, wantR: 25, wantD: 75},
		{name: "no volume", wantR: 0, wantD: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, d := SplitPercent(domain.EntityAggregate{TotalReceived: tc.received, TotalDonated: tc.donated})
			assert.InDelta(t, tc.wantR, r, 1e-9)
			assert.InDelta(t, tc.wantD, d, 1e-9)
			if tc.received+tc.donated > 0 {
				assert.InDelta(t, 100, r+d, 1e-9)
			}
		})
	}
}

func TestSymbolSectors_DonatedFirstZeroDropped(t *testing.T) {
	mixed := SymbolSectors(domain.EntityAggregate{TotalReceived: 25, TotalDonated: 75})
	require.Len(t, mixed, 2)
	assert.Equal(t, FlowDonated, mixed[0].Kind)
	assert.Equal(t, ColorDonated, mixed[0].Color)
	assert.InDelta(t, 1.5*math.Pi, mixed[0].EndAngle, 1e-9)
	assert.Equal(t, mixed[0].EndAngle, mixed[1].StartAngle)
	assert.InDelta(t, 2*math.Pi, mixed[1].EndAngle, 1e-9)

	single := SymbolSectors(domain.EntityAggregate{TotalReceived: 10})
	require.Len(t, single, 1)
	assert.Equal(t, FlowReceived, single[0].Kind)
	assert.InDelta(t, 2*math.Pi, single[0].EndAngle, 1e-9)

	assert.Empty(t, SymbolSectors(domain.EntityAggregate{}))
}

func TestRadiusScale(t *testing.T) {
	s := RadiusScale(map[string]*domain.EntityAggregate{
		"a": {Name: "a", TotalDonated: 10},
		"b": {Name: "b", TotalReceived: 60, TotalDonated: 50},
	})
	assert.InDelta(t, MinSymbolRadius, s.Apply(10), 1e-9)
	assert.InDelta(t, MaxSymbolRadius, s.Apply(110), 1e-9)

	one := RadiusScale(map[string]*domain.EntityAggregate{"a": {Name: "a", TotalDonated: 10}})
	assert.InDelta(t, 8.5, one.Apply(10), 1e-9)
}

func TestPartyColor(t *testing.T) {
	assert.Equal(t, "#fdb462", PartyColor("Bharatiya Janata Party"))
	assert.Equal(t, ColorOtherParty, PartyColor("Independent"))
	assert.Equal(t, ColorOtherParty, PartyColor(""))
	assert.Equal(t, "", FlowColor("other"))
}
