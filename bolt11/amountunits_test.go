package bolt11

import (
	"fmt"
	"testing"

	"github.com/lnsuite/lninvoice/lnwire"
	"github.com/stretchr/testify/require"
)

// TestDecodeAmount ensures that the amount string in the human-readable part
// is properly converted to millisatoshis.
func TestDecodeAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount string
		valid  bool
		mSat   lnwire.MilliSatoshi
	}{
		{
			amount: "",
			valid:  false,
		},
		{
			amount: "20n00",
			valid:  false,
		},
		{
			amount: "2000y",
			valid:  false,
		},
		{
			amount: "m",
			valid:  false,
		},
		{
			// Minimum amount in picoBTC is 10p, which is 1 msat.
			amount: "1p",
			valid:  false,
		},
		{
			// picoBTC amounts below 1 msat granularity are not
			// expressible.
			amount: "1109p",
			valid:  false,
		},
		{
			amount: "10p",
			valid:  true,
			mSat:   1,
		},
		{
			amount: "1000p",
			valid:  true,
			mSat:   100,
		},
		{
			amount: "1n",
			valid:  true,
			mSat:   100,
		},
		{
			amount: "9000n",
			valid:  true,
			mSat:   900000,
		},
		{
			amount: "1200u",
			valid:  true,
			mSat:   120000000,
		},
		{
			amount: "2500u",
			valid:  true,
			mSat:   250000000,
		},
		{
			amount: "20m",
			valid:  true,
			mSat:   2000000000,
		},
		{
			amount: "1",
			valid:  true,
			mSat:   100000000000,
		},
		{
			amount: "24",
			valid:  true,
			mSat:   2400000000000,
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.amount, func(t *testing.T) {
			t.Parallel()

			mSat, err := decodeAmount(test.amount)
			if !test.valid {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.mSat, mSat)
		})
	}
}

// TestEncodeAmount ensures that millisatoshi amounts are encoded using the
// shortest possible representation.
func TestEncodeAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mSat   lnwire.MilliSatoshi
		amount string
	}{
		{
			mSat:   1,
			amount: "10p",
		},
		{
			mSat:   120000000,
			amount: "1200u",
		},
		{
			mSat:   250000000,
			amount: "2500u",
		},
		{
			mSat:   2000000000,
			amount: "20m",
		},
		{
			mSat:   100000000000,
			amount: "1",
		},
		{
			mSat:   2400000000000,
			amount: "24",
		},
		{
			// 1 BTC + 1 msat cannot be shortened.
			mSat:   100000000001,
			amount: "1000000000010p",
		},
	}

	for _, test := range tests {
		test := test

		t.Run(fmt.Sprintf("%d", test.mSat), func(t *testing.T) {
			t.Parallel()

			amount, err := encodeAmount(test.mSat)
			require.NoError(t, err)
			require.Equal(t, test.amount, amount)
		})
	}
}

// TestAmountRoundTrip encodes a range of amounts and asserts they decode back
// to the same value.
func TestAmountRoundTrip(t *testing.T) {
	t.Parallel()

	amounts := []lnwire.MilliSatoshi{
		1, 2, 99, 100, 1000, 900000, 120000000,
		2000000000, 100000000000, 100000000001,
	}

	for _, mSat := range amounts {
		encoded, err := encodeAmount(mSat)
		require.NoError(t, err)

		decoded, err := decodeAmount(encoded)
		require.NoError(t, err)
		require.Equal(t, mSat, decoded)
	}
}
