package bolt11

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/lnsuite/lninvoice/lnwire"
)

// SigVerifier abstracts the recoverable-signature operations needed when
// decoding an invoice, so that the cryptographic backend can be swapped
// without touching the codec. Implementations must be stateless and safe for
// concurrent use.
type SigVerifier interface {
	// Verify returns true if sig is a valid signature of digest under
	// pubKey.
	Verify(digest []byte, sig lnwire.Sig, pubKey *btcec.PublicKey) bool

	// Recover recovers the public key that produced the 65-byte compact
	// signature (header byte followed by the 64 signature bytes) over
	// digest.
	Recover(digest []byte, compactSig [65]byte) (*btcec.PublicKey, error)
}

// btcecSigVerifier is the default SigVerifier, backed by btcec.
type btcecSigVerifier struct{}

// Verify checks sig against digest and pubKey using ECDSA verification.
func (btcecSigVerifier) Verify(digest []byte, sig lnwire.Sig,
	pubKey *btcec.PublicKey) bool {

	signature, err := sig.ToSignature()
	if err != nil {
		return false
	}

	return signature.Verify(digest, pubKey)
}

// Recover performs public key recovery on the compact signature.
func (btcecSigVerifier) Recover(digest []byte,
	compactSig [65]byte) (*btcec.PublicKey, error) {

	pubKey, _, err := ecdsa.RecoverCompact(compactSig[:], digest)
	if err != nil {
		return nil, err
	}

	return pubKey, nil
}

// defaultSigVerifier is shared process-wide. It holds no state, so it is
// safe to use from concurrent Decode calls.
var defaultSigVerifier SigVerifier = btcecSigVerifier{}
