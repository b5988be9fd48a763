package lninvoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// errUnknownNetwork is returned when an invoice carries the "ln" marker but
// an unrecognized network tag behind it.
var errUnknownNetwork = errors.New("unknown network prefix")

// Network enumerates the Bitcoin networks an invoice can be minted for.
type Network uint8

const (
	// NetworkBitcoin is the main Bitcoin network.
	NetworkBitcoin Network = iota

	// NetworkTestnet is the testnet3 test network.
	NetworkTestnet

	// NetworkSignet is the signet test network.
	NetworkSignet

	// NetworkRegtest is the local regression test network.
	NetworkRegtest
)

// String returns the lowercase name of the network.
func (n Network) String() string {
	switch n {
	case NetworkBitcoin:
		return "bitcoin"
	case NetworkTestnet:
		return "testnet"
	case NetworkSignet:
		return "signet"
	case NetworkRegtest:
		return "regtest"
	default:
		return fmt.Sprintf("unknown<%d>", uint8(n))
	}
}

// ChainParams returns the chaincfg parameters of the network.
func (n Network) ChainParams() *chaincfg.Params {
	switch n {
	case NetworkBitcoin:
		return &chaincfg.MainNetParams
	case NetworkTestnet:
		return &chaincfg.TestNet3Params
	case NetworkSignet:
		return &chaincfg.SigNetParams
	case NetworkRegtest:
		return &chaincfg.RegressionNetParams
	default:
		return nil
	}
}

// MarshalJSON encodes the network as its string name.
func (n Network) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// UnmarshalJSON decodes the network from its string name.
func (n *Network) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "bitcoin":
		*n = NetworkBitcoin
	case "testnet":
		*n = NetworkTestnet
	case "signet":
		*n = NetworkSignet
	case "regtest":
		*n = NetworkRegtest
	default:
		return fmt.Errorf("unknown network: %v", s)
	}

	return nil
}

// networkFromHRP sniffs the network of a bech32 encoded invoice from its
// human-readable part. Longer prefixes are tried first since "tb" is a
// prefix of both "tbs" and nothing else, and "bc" a prefix of "bcrt".
func networkFromHRP(invoice string) (Network, error) {
	invoice = strings.ToLower(invoice)
	if !strings.HasPrefix(invoice, "ln") {
		return 0, fmt.Errorf("not a payment request: missing ln prefix")
	}

	switch {
	case strings.HasPrefix(invoice[2:], "bcrt"):
		return NetworkRegtest, nil
	case strings.HasPrefix(invoice[2:], "bc"):
		return NetworkBitcoin, nil
	case strings.HasPrefix(invoice[2:], "tbs"):
		return NetworkSignet, nil
	case strings.HasPrefix(invoice[2:], "tb"):
		return NetworkTestnet, nil
	default:
		return 0, errUnknownNetwork
	}
}

// classifyNetworkError maps networkFromHRP failures onto error kinds: input
// that is not a payment request at all is a malformed encoding, while a
// well-formed invoice marker with an unrecognized network tag is a
// validation failure.
func classifyNetworkError(err error) *Error {
	if errors.Is(err, errUnknownNetwork) {
		return newError(KindValidation, err)
	}

	return newError(KindMalformedEncoding, err)
}
