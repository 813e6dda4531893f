package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "eosoracle/internal/errors"
)

func TestSecurityType_RoundTrip(t *testing.T) {
	for _, info := range SecurityTypes() {
		t.Run(string(info.Type), func(t *testing.T) {
			index, err := SecurityType(string(info.Type)).Index()
			require.NoError(t, err)
			assert.Equal(t, info.Index, index)

			back, err := SecurityTypeFromIndex(index)
			require.NoError(t, err)
			assert.Equal(t, info.Type, back)
		})
	}
}

func TestSecurityTypes_FixedRegistry(t *testing.T) {
	types := SecurityTypes()
	require.Len(t, types, 4)
	assert.Equal(t, SecurityTypeSpotCryptos, types[0].Type)
	assert.Equal(t, "Spot Cryptos", types[0].Description)
	assert.Equal(t, SecurityTypeForex, types[1].Type)
	assert.Equal(t, SecurityTypeEquity, types[2].Type)
	assert.Equal(t, SecurityTypeIndex, types[3].Type)

	types[0].Description = "mutated"
	assert.Equal(t, "Spot Cryptos", SecurityTypes()[0].Description)
}

func TestSecurityType_Unknown(t *testing.T) {
	_, err := SecurityType("bonds").Index()
	assert.ErrorIs(t, err, apperrors.ErrUnknownSecurityType)

	_, err = SecurityTypeFromIndex(4)
	assert.ErrorIs(t, err, apperrors.ErrUnknownSecurityType)

	assert.False(t, SecurityType("").IsValid())
	assert.True(t, SecurityTypeForex.IsValid())
}

func decodeRow(t *testing.T, raw string) SecurityRow {
	t.Helper()
	var row SecurityRow
	require.NoError(t, json.Unmarshal([]byte(raw), &row))
	return row
}

func TestSecurityRow_ToPrice(t *testing.T) {
	t.Run("formats_price_with_eight_decimals", func(t *testing.T) {
		row := decodeRow(t, `{"key":3,"symbol":"BTC","exchange_name":"binance","quote_currency":"USDT","security_type":0,"price":"64123.50000000000000000","time_stamp":"1700000000000"}`)

		price, err := row.ToPrice()
		require.NoError(t, err)
		assert.Equal(t, uint64(3), price.SecurityID)
		assert.Equal(t, SecurityTypeSpotCryptos, price.SecurityType)
		assert.Equal(t, "64123.50000000", price.LastTradedPrice)
		assert.Equal(t, uint64(1700000000000), price.Timestamp)
	})

	t.Run("zero_price_is_absent", func(t *testing.T) {
		row := decodeRow(t, `{"key":3,"symbol":"BTC","security_type":0,"price":"0.00000000000000000","time_stamp":0}`)

		_, err := row.ToPrice()
		assert.ErrorIs(t, err, apperrors.ErrNoPriceRecorded)
	})

	t.Run("unknown_type_index_fails", func(t *testing.T) {
		row := decodeRow(t, `{"key":3,"symbol":"BTC","security_type":9,"price":"1.5","time_stamp":1}`)

		_, err := row.ToPrice()
		assert.ErrorIs(t, err, apperrors.ErrUnknownSecurityType)
	})
}

func TestSecurityRow_ToSecurity(t *testing.T) {
	row := decodeRow(t, `{"key":"12","symbol":"EURUSD","exchange_name":"","quote_currency":"USD","security_type":"1","price":"0","time_stamp":0}`)

	sec, err := row.ToSecurity()
	require.NoError(t, err)
	assert.Equal(t, Security{
		SecurityID:    12,
		Symbol:        "EURUSD",
		ExchangeName:  "",
		SecurityType:  SecurityTypeForex,
		QuoteCurrency: "USD",
	}, sec)
}
