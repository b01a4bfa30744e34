package payuri

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatSol(t *testing.T) {
	require.Equal(t, "1", FormatSol(1_000_000_000))
	require.Equal(t, "1.5", FormatSol(1_500_000_000))
	require.Equal(t, "0.000000001", FormatSol(1))
	require.Equal(t, "0.035714285", FormatSol(35_714_285))
	require.Equal(t, "2", FormatSol(2_000_000_000))
}

func TestEncodeFullRequest(t *testing.T) {
	uri := Request{
		Recipient:      "DestAddr111",
		AmountLamports: 1_500_000_000,
		Reference:      "Ref111",
		Label:          "SolSins",
		Message:        "PPV • creator-1",
	}.Encode()

	require.True(t, strings.HasPrefix(uri, "solana:DestAddr111?"))

	params, err := url.ParseQuery(strings.SplitN(uri, "?", 2)[1])
	require.NoError(t, err)
	require.Equal(t, "1.5", params.Get("amount"))
	require.Equal(t, "Ref111", params.Get("reference"))
	require.Equal(t, "SolSins", params.Get("label"))
	require.Equal(t, "PPV • creator-1", params.Get("message"))
}

func TestEncodeWithoutParams(t *testing.T) {
	uri := Request{Recipient: "DestAddr111"}.Encode()
	require.Equal(t, "solana:DestAddr111", uri)
}
