package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := Transaction{
		Date:        time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Description: "pago",
		Amount:      decimal.RequireFromString("4.00"),
		Source:      "banco",
	}
	b := a
	b.Amount = decimal.RequireFromString("4.0")
	assert.Equal(t, a.Key(), b.Key(), "trailing zeros do not split the key")

	c := a
	c.Source = "otro"
	assert.NotEqual(t, a.Key(), c.Key(), "source is part of the key")
}

func TestTransactionJSON_BalanceOmittedWhenAbsent(t *testing.T) {
	txn := Transaction{
		Date:        time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Description: "pago",
		Amount:      decimal.RequireFromString("-120"),
		Source:      "banco",
	}

	data, err := json.Marshal(txn)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"balance"`)

	bal := decimal.RequireFromString("980.50")
	txn.Balance = &bal
	data, err = json.Marshal(txn)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "980.5", decoded["balance"])
}
