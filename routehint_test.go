package lninvoice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testNodeID1 = "029e03a901b85534ff1e92c43c74431f7ce72046060fcf7a95c37e148f78c77255"
	testNodeID2 = "039e03a901b85534ff1e92c43c74431f7ce72046060fcf7a95c37e148f78c77255"
	testNodeID3 = "03f3311e948feb5115242c4e396c81c448ab7ee5fd24c4e24e66c73533cc4f98b8"
)

func hintThrough(nodeIDs ...string) RouteHint {
	hint := RouteHint{}
	for i, nodeID := range nodeIDs {
		hint.Hops = append(hint.Hops, RouteHintHop{
			SrcNodeID:                  nodeID,
			ShortChannelID:             uint64(i + 1),
			FeesBaseMSat:               1000,
			FeesProportionalMillionths: 100,
			CLTVExpiryDelta:            40,
		})
	}

	return hint
}

// TestMergeRouteHints checks the merge policy for LSP supplied routing
// hints.
func TestMergeRouteHints(t *testing.T) {
	t.Parallel()

	hint1 := hintThrough(testNodeID1)
	hint2 := hintThrough(testNodeID2)
	lspHint := hintThrough(testNodeID3)

	tests := []struct {
		name            string
		existing        []RouteHint
		lspHint         *RouteHint
		includeExisting bool
		merged          []RouteHint
	}{
		{
			name:            "no lsp hint leaves hints untouched",
			existing:        []RouteHint{hint1, hint2},
			lspHint:         nil,
			includeExisting: true,
			merged:          []RouteHint{hint1, hint2},
		},
		{
			name:            "lsp hint replaces existing",
			existing:        []RouteHint{hint1, hint2},
			lspHint:         &lspHint,
			includeExisting: false,
			merged:          []RouteHint{lspHint},
		},
		{
			name:            "lsp hint appended after existing",
			existing:        []RouteHint{hint1, hint2},
			lspHint:         &lspHint,
			includeExisting: true,
			merged:          []RouteHint{hint1, hint2, lspHint},
		},
		{
			name:     "existing hints through lsp nodes dropped",
			existing: []RouteHint{hint1, hint2},
			lspHint: func() *RouteHint {
				h := hintThrough(testNodeID2)
				return &h
			}(),
			includeExisting: true,
			merged:          []RouteHint{hint1, hintThrough(testNodeID2)},
		},
		{
			name: "any hop through an lsp node drops the whole hint",
			existing: []RouteHint{
				hintThrough(testNodeID1, testNodeID3),
				hint2,
			},
			lspHint:         &lspHint,
			includeExisting: true,
			merged:          []RouteHint{hint2, lspHint},
		},
		{
			name: "multi hop lsp hint excludes all of its nodes",
			existing: []RouteHint{
				hint1, hint2,
			},
			lspHint: func() *RouteHint {
				h := hintThrough(testNodeID1, testNodeID2)
				return &h
			}(),
			includeExisting: true,
			merged: []RouteHint{
				hintThrough(testNodeID1, testNodeID2),
			},
		},
		{
			name:            "no existing hints",
			existing:        nil,
			lspHint:         &lspHint,
			includeExisting: true,
			merged:          []RouteHint{lspHint},
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			merged := MergeRouteHints(
				test.existing, test.lspHint,
				test.includeExisting,
			)
			require.Equal(t, test.merged, merged)
		})
	}
}

// TestRouteHintWireConversion checks the conversion between the exported
// route hint form and the fixed-size hop hints of the r tagged field.
func TestRouteHintWireConversion(t *testing.T) {
	t.Parallel()

	htlcMin := uint64(3000)
	htlcMax := uint64(4000)
	hint := RouteHint{
		Hops: []RouteHintHop{
			{
				SrcNodeID:                  testNodeID1,
				ShortChannelID:             1234,
				FeesBaseMSat:               1000,
				FeesProportionalMillionths: 100,
				CLTVExpiryDelta:            2000,
				HTLCMinimumMSat:            &htlcMin,
				HTLCMaximumMSat:            &htlcMax,
			},
		},
	}

	wireHint, err := hint.toWireHint()
	require.NoError(t, err)
	require.Len(t, wireHint, 1)
	require.Equal(t, uint64(1234), wireHint[0].ChannelID)
	require.Equal(t, uint32(1000), wireHint[0].FeeBaseMSat)
	require.Equal(t, uint32(100), wireHint[0].FeeProportionalMillionths)
	require.Equal(t, uint16(2000), wireHint[0].CLTVExpiryDelta)

	roundTripped := routeHintFromWire(wireHint)
	require.Equal(t, hint.Hops[0].SrcNodeID, roundTripped.Hops[0].SrcNodeID)
	require.Equal(t, hint.Hops[0].ShortChannelID,
		roundTripped.Hops[0].ShortChannelID)

	// The HTLC limits have no wire representation and are dropped.
	require.Nil(t, roundTripped.Hops[0].HTLCMinimumMSat)
	require.Nil(t, roundTripped.Hops[0].HTLCMaximumMSat)
}

// TestRouteHintBadNodeID checks that malformed node IDs are rejected when
// converting to the wire form.
func TestRouteHintBadNodeID(t *testing.T) {
	t.Parallel()

	for _, nodeID := range []string{
		"not hex",
		"0102",
		"049e03a901b85534ff1e92c43c74431f7ce72046060fcf7a95c37e148f78c77255",
	} {
		hint := hintThrough(nodeID)
		_, err := hint.toWireHint()
		require.Error(t, err)
	}
}
