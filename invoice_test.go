package lninvoice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	// A mainnet invoice over 110n with an empty description, a payment
	// secret, a 7 day expiry and a final CLTV delta of 6.
	mainnetPayReq = "lnbc110n1p38q3gtpp5ypz09jrd8p993snjwnm68cph4ftwp22le34xd4r8ftspwshxhmnsdqqxqyjw5qcqpxsp5htlg8ydpywvsa7h3u4hdn77ehs4z4e844em0apjyvmqfkzqhhd2q9qgsqqqyssqszpxzxt9uuqzymr7zxcdccj5g69s8q7zzjs7sgxn9ejhnvdh6gqjcy22mss2yexunagm5r2gqczh8k24cwrqml3njskm548aruhpwssq9nvrvz"

	// A testnet invoice over 15u.
	testnetPayReq = "lntb15u1pj53l9tpp5p7kjsjcv3eqa39upytmj6k7ac8rqvdffyqr4um98pq5n4ppwxvnsdpzxysy2umswfjhxum0yppk76twypgxzmnwvyxqrrsscqp79qy9qsqsp53xw4x5ezpzvnheff9mrt0ju72u5a5dnxyh4rq6gtweufv9650d4qwqj3ds5xfg4pxc9h7a2g43fmntr4tt322jzujsycvuvury50u994kzr8539qf658hrp07hyz634qpvkeh378wnvf7lddp2x7yfgyk9cp7f7937"
)

// TestParseInvoice checks that a payment request decodes into the expected
// flattened form.
func TestParseInvoice(t *testing.T) {
	t.Parallel()

	invoice, err := Parse(mainnetPayReq)
	require.NoError(t, err)

	require.Equal(t, mainnetPayReq, invoice.Bolt11)
	require.Equal(t, NetworkBitcoin, invoice.Network)

	require.NotNil(t, invoice.AmountMsat)
	require.Equal(t, uint64(11000), *invoice.AmountMsat)

	require.NotNil(t, invoice.Description)
	require.Equal(t, "", *invoice.Description)
	require.Nil(t, invoice.DescriptionHash)

	require.Equal(t, uint64(1651524875), invoice.Timestamp)
	require.Equal(t, uint64(604800), invoice.Expiry)
	require.Equal(t, uint64(6), invoice.MinFinalCltvExpiryDelta)

	require.Len(t, invoice.PaymentHash, 64)
	require.Len(t, invoice.PayeePubkey, 66)
	require.Len(t, invoice.PaymentSecret, 32)
	require.Empty(t, invoice.RoutingHints)
}

// TestParseInvoiceURIScheme checks that the BIP-21 style URI scheme and
// surrounding whitespace are tolerated.
func TestParseInvoiceURIScheme(t *testing.T) {
	t.Parallel()

	expected, err := Parse(mainnetPayReq)
	require.NoError(t, err)

	for _, input := range []string{
		"lightning:" + mainnetPayReq,
		"LIGHTNING:" + mainnetPayReq,
		"  lightning:" + mainnetPayReq + "\n",
		"\t" + mainnetPayReq + " ",
	} {
		invoice, err := Parse(input)
		require.NoError(t, err)
		require.Equal(t, expected, invoice)
	}
}

// TestParseInvoiceErrors checks the error classification of bad inputs.
func TestParseInvoiceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{
			name:  "empty",
			input: "",
			kind:  KindEmptyInput,
		},
		{
			name:  "whitespace only",
			input: "  \n",
			kind:  KindEmptyInput,
		},
		{
			name:  "scheme only",
			input: "lightning:",
			kind:  KindEmptyInput,
		},
		{
			name:  "not a payment request",
			input: "notaninvoice",
			kind:  KindMalformedEncoding,
		},
		{
			name:  "unknown network prefix",
			input: "lnxx110n1p38q3gt",
			kind:  KindValidation,
		},
		{
			name:  "corrupted checksum",
			input: mainnetPayReq[:len(mainnetPayReq)-4] + "qqqq",
			kind:  KindMalformedEncoding,
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(test.input)
			require.Error(t, err)

			var lnErr *Error
			require.ErrorAs(t, err, &lnErr)
			require.Equal(t, test.kind, lnErr.Kind)
		})
	}
}

// TestValidateNetwork checks network validation against parsed invoices on
// different networks.
func TestValidateNetwork(t *testing.T) {
	t.Parallel()

	mainnet, err := Parse(mainnetPayReq)
	require.NoError(t, err)

	require.NoError(t, ValidateNetwork(mainnet, NetworkBitcoin))

	err = ValidateNetwork(mainnet, NetworkTestnet)
	require.Error(t, err)

	var lnErr *Error
	require.ErrorAs(t, err, &lnErr)
	require.Equal(t, KindInvalidNetwork, lnErr.Kind)

	testnet, err := Parse(testnetPayReq)
	require.NoError(t, err)
	require.Equal(t, NetworkTestnet, testnet.Network)
	require.NotNil(t, testnet.AmountMsat)
	require.Equal(t, uint64(1500000), *testnet.AmountMsat)

	require.NoError(t, ValidateNetwork(testnet, NetworkTestnet))
	require.Error(t, ValidateNetwork(testnet, NetworkBitcoin))
}

// TestNetworkFromHRP checks network sniffing from the human-readable part.
func TestNetworkFromHRP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		invoice string
		network Network
		valid   bool
	}{
		{invoice: "lnbc110n1", network: NetworkBitcoin, valid: true},
		{invoice: "lntb15u1", network: NetworkTestnet, valid: true},
		{invoice: "lntbs20m1", network: NetworkSignet, valid: true},
		{invoice: "lnbcrt1m1", network: NetworkRegtest, valid: true},
		{invoice: "LNBC110N1", network: NetworkBitcoin, valid: true},
		{invoice: "lnxx1", valid: false},
		{invoice: "bc1q", valid: false},
	}

	for _, test := range tests {
		network, err := networkFromHRP(test.invoice)
		if !test.valid {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, test.network, network)
	}
}

// TestNetworkJSON checks the JSON representation of the network enum.
func TestNetworkJSON(t *testing.T) {
	t.Parallel()

	for _, network := range []Network{
		NetworkBitcoin, NetworkTestnet, NetworkSignet, NetworkRegtest,
	} {
		encoded, err := json.Marshal(network)
		require.NoError(t, err)

		var decoded Network
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		require.Equal(t, network, decoded)
	}

	var network Network
	require.Error(t, json.Unmarshal([]byte(`"simnet"`), &network))
}

// TestLNInvoiceJSON checks that a parsed invoice round-trips through its
// JSON representation.
func TestLNInvoiceJSON(t *testing.T) {
	t.Parallel()

	invoice, err := Parse(mainnetPayReq)
	require.NoError(t, err)

	encoded, err := json.Marshal(invoice)
	require.NoError(t, err)

	var decoded LNInvoice
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Equal(t, *invoice, decoded)
}
