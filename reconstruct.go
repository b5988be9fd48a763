package lninvoice

import (
	"github.com/lnsuite/lninvoice/bolt11"
	"github.com/lnsuite/lninvoice/lnwire"
)

// AddLSPRoutingHints rebuilds a payment request around a routing hint
// supplied by an LSP, returning the unsigned raw invoice for the payee node
// to sign. The payment hash, description, timestamp, expiry, payment secret
// and minimum final CLTV delta of the original invoice are preserved, while
// the amount is replaced with newAmountMsat and the routing hints are merged
// per MergeRouteHints. The input is tolerated in the same forms Parse
// accepts, including a leading "lightning:" URI scheme.
func AddLSPRoutingHints(bolt11Str string, includeExisting bool,
	lspHint *RouteHint,
	newAmountMsat lnwire.MilliSatoshi) (*bolt11.RawInvoice, error) {

	bolt11Str = sanitizeInput(bolt11Str)

	network, err := networkFromHRP(bolt11Str)
	if err != nil {
		return nil, classifyNetworkError(err)
	}

	inv, err := bolt11.Decode(bolt11Str, network.ChainParams())
	if err != nil {
		return nil, classifyDecodeError(err)
	}

	existing := make([]RouteHint, 0, len(inv.RouteHints))
	for _, wireHint := range inv.RouteHints {
		existing = append(existing, routeHintFromWire(wireHint))
	}

	merged := MergeRouteHints(existing, lspHint, includeExisting)

	wireHints := make([][]bolt11.HopHint, 0, len(merged))
	for _, hint := range merged {
		wireHint, err := hint.toWireHint()
		if err != nil {
			return nil, newError(KindValidation, err)
		}
		wireHints = append(wireHints, wireHint)
	}

	log.Debugf("Rebuilding invoice with %d route hints and amount %v",
		len(wireHints), newAmountMsat)

	raw, err := inv.CloneWithHints(&newAmountMsat, wireHints).
		EncodeUnsigned()
	if err != nil {
		return nil, newError(KindGeneric, err)
	}

	return raw, nil
}
