package signer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/coachpo/bybitconn/errs"
)

var testCreds = Credentials{Key: "B2Rou0PLPpGqcU0Vu2", Secret: "t7T0YlFnYXk0Fx3JswQsDrViLg1Gh3DUU5Mr"}

func TestCanonicalSortsAndDropsSignAndNil(t *testing.T) {
	params := Params{
		"symbol":    "BTCUSD",
		"side":      "Buy",
		"sign":      "stale",
		"price":     nil,
		"qty":       int64(1),
		"leverage":  2.5,
		"reduce":    true,
		"order_qty": decimal.RequireFromString("0.010"),
	}
	require.Equal(t,
		"leverage=2.5&order_qty=0.01&qty=1&reduce=True&side=Buy&symbol=BTCUSD",
		Canonical(params, StyleQuery))
	require.Equal(t,
		"leverage=2.5&order_qty=0.01&qty=1&reduce=true&side=Buy&symbol=BTCUSD",
		Canonical(params, StyleBody))
}

func TestSignInjectsAuthFieldsWithoutMutatingInput(t *testing.T) {
	params := Params{"symbol": "BTCUSD"}
	signed, signature, err := Sign(testCreds, params, 1542434791000, 5000, StyleQuery)
	require.NoError(t, err)
	require.Len(t, params, 1)
	require.Equal(t, testCreds.Key, signed[KeyAPIKey])
	require.EqualValues(t, 5000, signed[KeyRecvWindow])
	require.EqualValues(t, 1542434791000, signed[KeyTimestamp])

	payload := "api_key=B2Rou0PLPpGqcU0Vu2&recv_window=5000&symbol=BTCUSD&timestamp=1542434791000"
	require.Equal(t, payload, Canonical(signed, StyleQuery))
	require.Equal(t, Digest(testCreds.Secret, payload), signature)
	require.Len(t, signature, 64)
}

func TestSignIsDeterministic(t *testing.T) {
	params := Params{"symbol": "ETHUSD", "qty": 3, "close_on_trigger": false}
	_, first, err := Sign(testCreds, params, 1700000000000, 5000, StyleBody)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, again, err := Sign(testCreds, params, 1700000000000, 5000, StyleBody)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}

	other := Credentials{Key: testCreds.Key, Secret: testCreds.Secret + "x"}
	_, different, err := Sign(other, params, 1700000000000, 5000, StyleBody)
	require.NoError(t, err)
	require.NotEqual(t, first, different)

	_, shifted, err := Sign(testCreds, params, 1700000000001, 5000, StyleBody)
	require.NoError(t, err)
	require.NotEqual(t, first, shifted)
}

func TestSignRequiresBothCredentials(t *testing.T) {
	for _, creds := range []Credentials{{}, {Key: "k"}, {Secret: "s"}} {
		_, _, err := Sign(creds, Params{}, 1, 5000, StyleQuery)
		require.Error(t, err)
		require.True(t, errs.Is(err, errs.CodeConfiguration))
	}
}

func TestDigestKnownVector(t *testing.T) {
	// RFC 4231 test case 2
	require.Equal(t,
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		Digest("Jefe", "what do ya want for nothing?"))
}

func TestAuthSignatureUsesRealtimeTemplate(t *testing.T) {
	require.Equal(t, Digest("secret", "GET/realtime1662350400000"), AuthSignature("secret", 1662350400000))
}

func TestFormatValueFloats(t *testing.T) {
	require.Equal(t, "0.1", FormatValue(0.1, StyleQuery))
	require.Equal(t, "0.00001", FormatValue(0.00001, StyleQuery))
	require.Equal(t, "25000", FormatValue(25000.0, StyleQuery))
	require.Equal(t, "7", FormatValue(uint64(7), StyleBody))
}
