package lnwire

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// sigLength is the length in bytes of an encoded wire signature: the r and s
// values of an ECDSA signature, each serialized using 32 bytes.
const sigLength = 64

// ErrSigTooShort is returned when a signature is not the expected wire
// length.
var ErrSigTooShort = errors.New("malformed signature: too short")

// Sig is a fixed-sized ECDSA signature. Unlike Bitcoin, we use fixed sized
// signatures on the wire, instead of DER encoded signatures. This type
// provides several methods to convert to/from a regular Bitcoin DER encoded
// signature (raw field of btcec.Signature).
type Sig struct {
	bytes [sigLength]byte
}

// NewSigFromWireECDSA returns a Sig from a 64-byte serialized r || s ECDSA
// signature as found on the wire.
func NewSigFromWireECDSA(sig []byte) (Sig, error) {
	if len(sig) != sigLength {
		return Sig{}, ErrSigTooShort
	}

	var s Sig
	copy(s.bytes[:], sig)

	return s, nil
}

// NewSigFromSignature creates a new wire signature from the fixed-size
// serialization of an ecdsa.Signature.
func NewSigFromSignature(e *ecdsa.Signature) (Sig, error) {
	if e == nil {
		return Sig{}, fmt.Errorf("cannot decode empty signature")
	}

	var s Sig
	r, sScalar := e.R(), e.S()
	r.PutBytesUnchecked(s.bytes[0:32])
	sScalar.PutBytesUnchecked(s.bytes[32:64])

	return s, nil
}

// RawBytes returns the serialized raw r || s bytes of the signature.
func (s Sig) RawBytes() []byte {
	return s.bytes[:]
}

// ToSignature converts the fixed-size signature into an ecdsa.Signature
// which can be used for signature validation checks.
func (s Sig) ToSignature() (*ecdsa.Signature, error) {
	var r btcec.ModNScalar
	if overflow := r.SetByteSlice(s.bytes[0:32]); overflow {
		return nil, fmt.Errorf("invalid signature: r >= group order")
	}

	var sScalar btcec.ModNScalar
	if overflow := sScalar.SetByteSlice(s.bytes[32:64]); overflow {
		return nil, fmt.Errorf("invalid signature: s >= group order")
	}

	return ecdsa.NewSignature(&r, &sScalar), nil
}
