// Package lninvoice parses and reconstructs BOLT-11 Lightning payment
// requests. It exposes a flattened view of a decoded invoice suitable for
// serialization across an API boundary, and supports splicing LSP supplied
// routing hints into an existing invoice.
package lninvoice

import (
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/lnsuite/lninvoice/bolt11"
	"github.com/lnsuite/lninvoice/lnwire"
)

// invoicePrefix matches an optional BIP-21 style URI scheme in front of the
// bech32 payment request.
var invoicePrefix = regexp.MustCompile(`(?i)^lightning:`)

// LNInvoice is the flattened form of a decoded payment request. All byte
// fields are hex encoded so the struct round-trips through JSON without
// custom marshalers.
type LNInvoice struct {
	// Bolt11 is the original bech32 encoded payment request.
	Bolt11 string `json:"bolt11"`

	// Network is the Bitcoin network the invoice was minted for.
	Network Network `json:"network"`

	// PayeePubkey is the hex encoded public key of the payee node, taken
	// from the n tagged field or recovered from the signature.
	PayeePubkey string `json:"payee_pubkey"`

	// PaymentHash is the hex encoded hash whose preimage settles the
	// payment.
	PaymentHash string `json:"payment_hash"`

	// Description is the payment description, nil when the invoice
	// carries a description hash instead.
	Description *string `json:"description"`

	// DescriptionHash is the hex encoded hash of a longer description
	// transmitted out of band, nil when a plain description is present.
	DescriptionHash *string `json:"description_hash"`

	// AmountMsat is the invoice amount in millisatoshi, nil for a
	// zero-amount invoice.
	AmountMsat *uint64 `json:"amount_msat"`

	// Timestamp is the creation time of the invoice in Unix seconds.
	Timestamp uint64 `json:"timestamp"`

	// Expiry is the number of seconds after Timestamp the invoice
	// remains payable.
	Expiry uint64 `json:"expiry"`

	// RoutingHints are the private routing hints of the invoice, in the
	// order they appear in it.
	RoutingHints []RouteHint `json:"routing_hints"`

	// PaymentSecret is the payment secret to include in the final hop's
	// onion payload.
	PaymentSecret []byte `json:"payment_secret"`

	// MinFinalCltvExpiryDelta is the CLTV delta the payee requires on
	// the final hop.
	MinFinalCltvExpiryDelta uint64 `json:"min_final_cltv_expiry_delta"`
}

// sanitizeInput strips surrounding whitespace and an optional "lightning:"
// URI scheme from a raw payment request string.
func sanitizeInput(bolt11Str string) string {
	return invoicePrefix.ReplaceAllString(
		strings.TrimSpace(bolt11Str), "",
	)
}

// Parse decodes a bech32 encoded payment request into its flattened form.
// The input may carry a leading "lightning:" URI scheme and surrounding
// whitespace. The network is sniffed from the human-readable part.
func Parse(bolt11Str string) (*LNInvoice, error) {
	bolt11Str = sanitizeInput(bolt11Str)
	if bolt11Str == "" {
		return nil, errorf(KindEmptyInput, "empty payment request")
	}

	network, err := networkFromHRP(bolt11Str)
	if err != nil {
		return nil, classifyNetworkError(err)
	}

	inv, err := bolt11.Decode(bolt11Str, network.ChainParams())
	if err != nil {
		return nil, classifyDecodeError(err)
	}

	// The payment secret became mandatory with the option_payment_secret
	// feature and every modern sender requires it.
	if inv.PaymentAddr == nil {
		return nil, errorf(KindValidation, "missing payment secret")
	}

	log.Debugf("Parsed invoice with payment hash %x on network %v",
		inv.PaymentHash[:], network)

	return newLNInvoice(bolt11Str, network, inv), nil
}

// newLNInvoice flattens a decoded invoice.
func newLNInvoice(bolt11Str string, network Network,
	inv *bolt11.Invoice) *LNInvoice {

	lnInvoice := &LNInvoice{
		Bolt11:  bolt11Str,
		Network: network,
		PayeePubkey: hex.EncodeToString(
			inv.Destination.SerializeCompressed(),
		),
		PaymentHash:             hex.EncodeToString(inv.PaymentHash[:]),
		Description:             inv.Description,
		Timestamp:               uint64(inv.Timestamp.Unix()),
		Expiry:                  uint64(inv.Expiry().Seconds()),
		PaymentSecret:           inv.PaymentAddr[:],
		MinFinalCltvExpiryDelta: inv.MinFinalCLTVExpiry(),
	}

	if inv.DescriptionHash != nil {
		descHash := hex.EncodeToString(inv.DescriptionHash[:])
		lnInvoice.DescriptionHash = &descHash
	}

	if inv.MilliSat != nil {
		amt := uint64(*inv.MilliSat)
		lnInvoice.AmountMsat = &amt
	}

	for _, wireHint := range inv.RouteHints {
		lnInvoice.RoutingHints = append(
			lnInvoice.RoutingHints, routeHintFromWire(wireHint),
		)
	}

	return lnInvoice
}

// ValidateNetwork checks that the invoice was minted for the expected
// network.
func ValidateNetwork(invoice *LNInvoice, network Network) error {
	if invoice.Network != network {
		return errorf(KindInvalidNetwork, "invoice network %v does "+
			"not match expected network %v", invoice.Network,
			network)
	}

	return nil
}

// AmountMSat returns the invoice amount as a typed millisatoshi value, nil
// for a zero-amount invoice.
func (i *LNInvoice) AmountMSat() *lnwire.MilliSatoshi {
	if i.AmountMsat == nil {
		return nil
	}
	amt := lnwire.MilliSatoshi(*i.AmountMsat)

	return &amt
}
