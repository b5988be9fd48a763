// Package bolt11 implements the BOLT-0011 payment request format: a
// bech32-encoded, checksummed container holding a timestamp, a sequence of
// typed tagged fields, and a recoverable signature over both. The package
// decodes payment requests into an Invoice, re-encodes signed invoices, and
// serializes unsigned raw invoices for external signing.
package bolt11

import (
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lnsuite/lninvoice/lnwire"
)

const (
	// mSatPerBtc is the number of millisatoshis in 1 BTC.
	mSatPerBtc = lnwire.MilliSatoshi(100000000000)

	// maxInvoiceLength is the maximum total length an invoice can have.
	// This is chosen to be the maximum number of bytes that can fit into a
	// single QR code: https://en.wikipedia.org/wiki/QR_code#Storage.
	maxInvoiceLength = 7089

	// DefaultInvoiceExpiry is the default expiry duration from the
	// creation timestamp if expiry is set to zero.
	DefaultInvoiceExpiry = time.Hour

	// DefaultMinFinalCLTVExpiry is the default value to be used as the
	// minimum CLTV delta of the final hop when the c field is omitted
	// from the invoice.
	DefaultMinFinalCLTVExpiry = 18
)

var (
	// ErrInvoiceTooLarge is returned when an invoice exceeds
	// maxInvoiceLength.
	ErrInvoiceTooLarge = errors.New("invoice is too large")

	// ErrInvalidFieldLength is returned when a tagged field was specified
	// with a length larger than the left over bytes of the data field.
	ErrInvalidFieldLength = errors.New("invalid field length")

	// ErrBrokenTaggedField is returned when the last tagged field is
	// incorrectly formatted and doesn't have enough bytes to be read.
	ErrBrokenTaggedField = errors.New("found potentially broken tagged field")
)

const (
	// fieldTypeP is the field containing the payment hash.
	fieldTypeP = 1

	// fieldTypeR contains extra routing information.
	fieldTypeR = 3

	// fieldType9 contains the feature bits vector.
	fieldType9 = 5

	// fieldTypeX contains the expiry in seconds of the invoice.
	fieldTypeX = 6

	// fieldTypeF contains a fallback on-chain address.
	fieldTypeF = 9

	// fieldTypeD contains a short description of the payment.
	fieldTypeD = 13

	// fieldTypeS contains the payment address (payment secret).
	fieldTypeS = 16

	// fieldTypeN contains the pubkey of the target node.
	fieldTypeN = 19

	// fieldTypeH contains the hash of a description of the payment.
	fieldTypeH = 23

	// fieldTypeC contains an optional requested final CLTV delta.
	fieldTypeC = 24

	// fieldTypeM contains the payment metadata.
	fieldTypeM = 27

	// signatureBase32Len is the number of 5-bit groups needed to encode
	// the 512 bit signature + 8 bit recovery ID.
	signatureBase32Len = 104

	// timestampBase32Len is the number of 5-bit groups needed to encode
	// the 35 bit timestamp.
	timestampBase32Len = 7

	// hashBase32Len is the number of 5-bit groups needed to encode a
	// 256 bit hash. Note that the last group will be padded with zeroes.
	hashBase32Len = 52

	// pubKeyBase32Len is the number of 5-bit groups needed to encode a
	// 33 byte compressed pubkey. Note that the last group will be padded
	// with zeroes.
	pubKeyBase32Len = 53

	// hopHintLen is the number of bytes needed to encode the hop hint of a
	// single private route.
	hopHintLen = 51

	// The following byte values correspond to the supported field types.
	// The field name is the character representing that 5-bit value in the
	// bech32 string.

	// fallbackVersionPubkeyHash is the version byte used to encode a
	// fallback pay-to-pubkey-hash address.
	fallbackVersionPubkeyHash = 17

	// fallbackVersionScriptHash is the version byte used to encode a
	// fallback pay-to-script-hash address.
	fallbackVersionScriptHash = 18
)

// MessageSigner is passed to the Encode method to provide a signature
// corresponding to the node's pubkey.
type MessageSigner struct {
	// SignCompact signs the passed msg with the node's privkey. The
	// returned signature should be 65 bytes, where the last 64 are the
	// compact signature, and the first one is a header byte. This is the
	// format returned by ecdsa.SignCompact.
	SignCompact func(msg []byte) ([]byte, error)
}

// Invoice represents a decoded invoice, or to-be-encoded invoice. Some of the
// fields are optional, and will only be non-nil if the invoice this was parsed
// from contains that field. When encoding, only the non-nil fields will be
// added to the encoded invoice.
type Invoice struct {
	// Net specifies what network this Lightning invoice is meant for.
	Net *chaincfg.Params

	// MilliSat specifies the amount of this invoice in millisatoshi.
	// Optional.
	MilliSat *lnwire.MilliSatoshi

	// Timestamp specifies the time this invoice was created.
	// Mandatory
	Timestamp time.Time

	// PaymentHash is the payment hash to be used for a payment to this
	// invoice.
	PaymentHash *[32]byte

	// PaymentAddr is the payment address to be used by payments to
	// prevent probing of the destination.
	PaymentAddr *[32]byte

	// Destination is the public key of the target node. This will always
	// be set after decoding, and can optionally be set before encoding to
	// include the pubkey as an 'n' field. If it is not set before
	// encoding, the pubkey is implied from the signature and left out of
	// the data part.
	Destination *btcec.PublicKey

	// minFinalCLTVExpiry is the value of the c field of the invoice, the
	// minimum CLTV delta the final hop will require. Optional.
	minFinalCLTVExpiry *uint64

	// Description is a short description of the purpose of this invoice.
	// Optional. Non-nil iff DescriptionHash is nil.
	Description *string

	// DescriptionHash is the SHA256 hash of a description of the purpose
	// of this invoice.
	// Optional. Non-nil iff Description is nil.
	DescriptionHash *[32]byte

	// expiry is the value of the x field of the invoice. Optional.
	expiry *time.Duration

	// FallbackAddr is an on-chain address that can be used for payment in
	// case the Lightning payment fails.
	// Optional.
	FallbackAddr btcutil.Address

	// RouteHints represents one or more different route hints. Each route
	// hint can be individually used to reach the destination. These usually
	// represent private routes.
	//
	// NOTE: The order of the route hints is maintained across decoding and
	// encoding.
	RouteHints [][]HopHint

	// Features represents an optional field used to signal optional or
	// required support for features by the receiver. The bits are carried
	// opaquely: no meaning is assigned to any position and the vector is
	// reproduced as-is when re-encoding.
	Features *lnwire.RawFeatureVector

	// Metadata is additional data that is sent along with the payment to
	// the payee.
	Metadata []byte
}

// Amount is a functional option that allows callers of NewInvoice to set the
// amount in millisatoshis that the Invoice should encode.
func Amount(milliSat lnwire.MilliSatoshi) func(*Invoice) {
	return func(i *Invoice) {
		i.MilliSat = &milliSat
	}
}

// Destination is a functional option that allows callers of NewInvoice to
// explicitly set the pubkey of the Invoice's destination node.
func Destination(destination *btcec.PublicKey) func(*Invoice) {
	return func(i *Invoice) {
		i.Destination = destination
	}
}

// Description is a functional option that allows callers of NewInvoice to set
// the payment description of the created Invoice.
//
// NOTE: Must be used if and only if DescriptionHash is not used.
func Description(description string) func(*Invoice) {
	return func(i *Invoice) {
		i.Description = &description
	}
}

// DescriptionHash is a functional option that allows callers of NewInvoice to
// set the payment description hash of the created Invoice.
//
// NOTE: Must be used if and only if Description is not used.
func DescriptionHash(descriptionHash [32]byte) func(*Invoice) {
	return func(i *Invoice) {
		i.DescriptionHash = &descriptionHash
	}
}

// Expiry is a functional option that allows callers of NewInvoice to set the
// expiry of the created Invoice. If not set, a default expiry of 60 min will
// be implied.
func Expiry(expiry time.Duration) func(*Invoice) {
	return func(i *Invoice) {
		i.expiry = &expiry
	}
}

// MinFinalCLTVExpiry is a functional option that allows callers of NewInvoice
// to set the minimum CLTV expiry delta of the final hop. If not set, a
// default of DefaultMinFinalCLTVExpiry will be implied.
func MinFinalCLTVExpiry(delta uint64) func(*Invoice) {
	return func(i *Invoice) {
		i.minFinalCLTVExpiry = &delta
	}
}

// FallbackAddr is a functional option that allows callers of NewInvoice to
// set the Invoice's fallback on-chain address that can be used for payment in
// case the Lightning payment fails.
func FallbackAddr(fallbackAddr btcutil.Address) func(*Invoice) {
	return func(i *Invoice) {
		i.FallbackAddr = fallbackAddr
	}
}

// RouteHint is a functional option that allows callers of NewInvoice to add
// one or more hop hints that represent a private route to the destination.
func RouteHint(routeHint []HopHint) func(*Invoice) {
	return func(i *Invoice) {
		i.RouteHints = append(i.RouteHints, routeHint)
	}
}

// Features is a functional option that allows callers of NewInvoice to set
// the opaque feature bit vector of the created Invoice.
func Features(features *lnwire.RawFeatureVector) func(*Invoice) {
	return func(i *Invoice) {
		i.Features = features
	}
}

// PaymentAddr is a functional option that allows callers of NewInvoice to set
// the desired payment address that is advertised on the invoice.
func PaymentAddr(addr [32]byte) func(*Invoice) {
	return func(i *Invoice) {
		i.PaymentAddr = &addr
	}
}

// Metadata is a functional option that allows callers of NewInvoice to set
// the desired payment metadata that is advertised on the invoice.
func Metadata(metadata []byte) func(*Invoice) {
	return func(i *Invoice) {
		i.Metadata = metadata
	}
}

// NewInvoice creates a new Invoice object. The last parameter is a set of
// variadic arguments for setting optional fields of the invoice.
//
// NOTE: Either Description or DescriptionHash must be provided for the
// Invoice to be considered valid.
func NewInvoice(net *chaincfg.Params, paymentHash [32]byte,
	timestamp time.Time, options ...func(*Invoice)) (*Invoice, error) {

	invoice := &Invoice{
		Net:         net,
		PaymentHash: &paymentHash,
		Timestamp:   timestamp,
	}

	for _, option := range options {
		option(invoice)
	}

	if invoice.Features == nil {
		invoice.Features = lnwire.NewRawFeatureVector()
	}

	if err := validateInvoice(invoice); err != nil {
		return nil, err
	}

	return invoice, nil
}

// CloneWithHints returns a copy of the invoice carrying the given amount and
// routing hints in place of the original ones. The payment hash, timestamp,
// description, expiry, payment address, minimum final CLTV delta and feature
// bits are carried over unchanged. The destination, fallback address and
// metadata are not, as the copy is meant to be re-signed by the payee node
// whose pubkey is then again recoverable from the new signature.
func (invoice *Invoice) CloneWithHints(amount *lnwire.MilliSatoshi,
	routeHints [][]HopHint) *Invoice {

	clone := &Invoice{
		Net:                invoice.Net,
		MilliSat:           amount,
		Timestamp:          invoice.Timestamp,
		PaymentHash:        invoice.PaymentHash,
		PaymentAddr:        invoice.PaymentAddr,
		minFinalCLTVExpiry: invoice.minFinalCLTVExpiry,
		Description:        invoice.Description,
		DescriptionHash:    invoice.DescriptionHash,
		expiry:             invoice.expiry,
		RouteHints:         routeHints,
		Features:           invoice.Features,
	}
	if clone.Features == nil {
		clone.Features = lnwire.NewRawFeatureVector()
	}

	return clone
}

// Expiry returns the invoice's expiry time, or a default expiry time (1 hour)
// if not specified.
func (invoice *Invoice) Expiry() time.Duration {
	if invoice.expiry != nil {
		return *invoice.expiry
	}

	// If no expiry is set for this invoice, default is 3600 seconds.
	return DefaultInvoiceExpiry
}

// MinFinalCLTVExpiry returns the minimum final CLTV expiry delta as specified
// by the creator of the invoice. This value specifies the delta between the
// current height and the expiry height of the HTLC extended in the last hop.
func (invoice *Invoice) MinFinalCLTVExpiry() uint64 {
	if invoice.minFinalCLTVExpiry != nil {
		return *invoice.minFinalCLTVExpiry
	}

	return DefaultMinFinalCLTVExpiry
}

// validateInvoice does a sanity check of the provided Invoice, making sure it
// has all the necessary fields set for it to be considered valid by BOLT-0011.
func validateInvoice(invoice *Invoice) error {
	// The net must be set.
	if invoice.Net == nil {
		return fmt.Errorf("net params not set")
	}

	// The invoice must contain a payment hash.
	if invoice.PaymentHash == nil {
		return fmt.Errorf("no payment hash found")
	}

	// Either Description or DescriptionHash must be set, not both.
	if invoice.Description != nil && invoice.DescriptionHash != nil {
		return fmt.Errorf("both description and description hash set")
	}
	if invoice.Description == nil && invoice.DescriptionHash == nil {
		return fmt.Errorf("neither description nor description hash set")
	}

	// Can have at most 20 unique hop hints per route hint.
	for _, routeHint := range invoice.RouteHints {
		if len(routeHint) > 20 {
			return fmt.Errorf("too many hop hints: %d",
				len(routeHint))
		}
	}

	// Check that we support the field lengths.
	if len(invoice.PaymentHash) != 32 {
		return fmt.Errorf("unsupported payment hash length: %d",
			len(invoice.PaymentHash))
	}

	if invoice.DescriptionHash != nil && len(invoice.DescriptionHash) != 32 {
		return fmt.Errorf("unsupported description hash length: %d",
			len(invoice.DescriptionHash))
	}

	if invoice.Destination != nil &&
		len(invoice.Destination.SerializeCompressed()) != 33 {

		return fmt.Errorf("unsupported pubkey length: %d",
			len(invoice.Destination.SerializeCompressed()))
	}

	return nil
}
