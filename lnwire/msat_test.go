package lnwire

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
)

// TestMilliSatoshiConversion checks that the conversion between satoshi and
// millisatoshi works as expected, with sub-satoshi amounts rounded down.
func TestMilliSatoshiConversion(t *testing.T) {
	t.Parallel()

	require.Equal(t, MilliSatoshi(1000), NewMSatFromSatoshis(1))
	require.Equal(t, MilliSatoshi(2500000), NewMSatFromSatoshis(2500))

	require.Equal(t, btcutil.Amount(1), MilliSatoshi(1000).ToSatoshis())

	// Amounts below a full satoshi are rounded down.
	require.Equal(t, btcutil.Amount(0), MilliSatoshi(999).ToSatoshis())
	require.Equal(t, btcutil.Amount(1), MilliSatoshi(1999).ToSatoshis())

	require.Equal(t, 1.0, MilliSatoshi(100000000000).ToBTC())

	require.Equal(t, "1000 mSAT", MilliSatoshi(1000).String())
}

// TestShortChannelIDEncoding ensures the compact channel ID round-trips
// through its uint64 representation.
func TestShortChannelIDEncoding(t *testing.T) {
	t.Parallel()

	testCases := []ShortChannelID{
		{
			BlockHeight: (1 << 24) - 1,
			TxIndex:     (1 << 24) - 1,
			TxPosition:  (1 << 16) - 1,
		},
		{
			BlockHeight: 2304934,
			TxIndex:     2345,
			TxPosition:  5,
		},
		{
			BlockHeight: 9304934,
			TxIndex:     2345,
			TxPosition:  5233,
		},
	}

	for _, testCase := range testCases {
		chanID := testCase.ToUint64()
		require.Equal(t, testCase, NewShortChanIDFromInt(chanID))
	}

	scid := ShortChannelID{
		BlockHeight: 1,
		TxIndex:     2,
		TxPosition:  3,
	}
	require.Equal(t, "1:2:3", scid.String())
}
