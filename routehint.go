package lninvoice

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lnsuite/lninvoice/bolt11"
	"github.com/lnsuite/lninvoice/lnwire"
)

// RouteHintHop is a single hop of a routing hint: a channel leading from the
// named source node towards the payee, along with the forwarding terms a
// payer must honor when routing through it.
type RouteHintHop struct {
	// SrcNodeID is the hex encoded compressed public key of the node at
	// the start of the channel.
	SrcNodeID string `json:"src_node_id"`

	// ShortChannelID is the channel's compact block:tx:output identifier
	// packed into a uint64.
	ShortChannelID uint64 `json:"short_channel_id"`

	// FeesBaseMSat is the flat fee in millisatoshi charged per forwarded
	// HTLC.
	FeesBaseMSat uint32 `json:"fees_base_msat"`

	// FeesProportionalMillionths is the fee charged per millionth of a
	// satoshi forwarded.
	FeesProportionalMillionths uint32 `json:"fees_proportional_millionths"`

	// CLTVExpiryDelta is the number of blocks the source node subtracts
	// from the incoming HTLC's expiry when forwarding.
	CLTVExpiryDelta uint64 `json:"cltv_expiry_delta"`

	// HTLCMinimumMSat is the smallest HTLC the channel will forward, if
	// known.
	HTLCMinimumMSat *uint64 `json:"htlc_minimum_msat"`

	// HTLCMaximumMSat is the largest HTLC the channel will forward, if
	// known.
	HTLCMaximumMSat *uint64 `json:"htlc_maximum_msat"`
}

// RouteHint is an ordered chain of hops ending at the payee.
type RouteHint struct {
	Hops []RouteHintHop `json:"hops"`
}

// containsNode reports whether any hop of the hint originates at a node
// found in the given set of hex encoded node IDs.
func (r *RouteHint) containsNode(nodeIDs map[string]struct{}) bool {
	for _, hop := range r.Hops {
		if _, ok := nodeIDs[hop.SrcNodeID]; ok {
			return true
		}
	}

	return false
}

// MergeRouteHints combines the routing hints of an existing invoice with a
// hint supplied by an LSP. A nil lspHint leaves the existing hints
// untouched. With includeExisting set, existing hints that route through any
// of the LSP hint's source nodes are dropped as stale and the LSP hint is
// appended last. Without it, the LSP hint replaces the existing hints
// entirely.
func MergeRouteHints(existing []RouteHint, lspHint *RouteHint,
	includeExisting bool) []RouteHint {

	if lspHint == nil {
		return existing
	}

	if !includeExisting {
		return []RouteHint{*lspHint}
	}

	lspNodes := make(map[string]struct{}, len(lspHint.Hops))
	for _, hop := range lspHint.Hops {
		lspNodes[hop.SrcNodeID] = struct{}{}
	}

	merged := make([]RouteHint, 0, len(existing)+1)
	for _, hint := range existing {
		if hint.containsNode(lspNodes) {
			log.Debugf("Dropping route hint through LSP node: %v",
				hint.Hops)
			continue
		}
		merged = append(merged, hint)
	}

	return append(merged, *lspHint)
}

// toWireHint converts the hint into the fixed-size hop hints carried by the
// r tagged field. The HTLC minimum and maximum have no wire representation
// and are dropped.
func (r *RouteHint) toWireHint() ([]bolt11.HopHint, error) {
	hops := make([]bolt11.HopHint, 0, len(r.Hops))
	for _, hop := range r.Hops {
		nodeID, err := hex.DecodeString(hop.SrcNodeID)
		if err != nil {
			return nil, fmt.Errorf("invalid hop source node id: %w",
				err)
		}
		pubKey, err := btcec.ParsePubKey(nodeID)
		if err != nil {
			return nil, fmt.Errorf("invalid hop source node id: %w",
				err)
		}

		hops = append(hops, bolt11.HopHint{
			NodeID:                    pubKey,
			ChannelID:                 hop.ShortChannelID,
			FeeBaseMSat:               hop.FeesBaseMSat,
			FeeProportionalMillionths: hop.FeesProportionalMillionths,
			CLTVExpiryDelta:           uint16(hop.CLTVExpiryDelta),
		})
	}

	return hops, nil
}

// routeHintFromWire converts the hop hints of a decoded r tagged field into
// their exported form.
func routeHintFromWire(hops []bolt11.HopHint) RouteHint {
	hint := RouteHint{Hops: make([]RouteHintHop, 0, len(hops))}
	for _, hop := range hops {
		scid := lnwire.NewShortChanIDFromInt(hop.ChannelID)
		log.Tracef("Decoded hop hint through channel %v", scid)

		hint.Hops = append(hint.Hops, RouteHintHop{
			SrcNodeID: hex.EncodeToString(
				hop.NodeID.SerializeCompressed(),
			),
			ShortChannelID:             hop.ChannelID,
			FeesBaseMSat:               hop.FeeBaseMSat,
			FeesProportionalMillionths: hop.FeeProportionalMillionths,
			CLTVExpiryDelta:            uint64(hop.CLTVExpiryDelta),
		})
	}

	return hint
}
