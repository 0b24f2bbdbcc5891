package wallet

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, "{}", string(got))
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("b", 1)
		w.Append("a", "hello")
		got, err := w.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, `{"b":1,"a":"hello"}`, string(got))
	})

	t.Run("optional and conditional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Optional("empty", "").
			Optional("set", "x").
			If(false, func(w *jsonObjectWriter) { w.Append("skipped", 1) }).
			If(true, func(w *jsonObjectWriter) { w.Append("kept", true) })
		got, err := w.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, `{"set":"x","kept":true}`, string(got))
	})

	t.Run("marshal error is sticky", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("bad", func() {})
		w.Append("good", 1)
		_, err := w.MarshalJSON()
		assert.Error(t, err)
	})
}

func TestTradeJSON(t *testing.T) {
	opened := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	open := Trade{
		ID: "t1", PortfolioID: "p1", StockName: "COMI",
		PurchasePrice: A(10), TradeValue: A(1000), StopLoss: A(9), TakeProfit: A(12),
		Status: StatusOpen, OpenDate: opened,
	}

	b, err := json.Marshal(open)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "closePrice")
	assert.NotContains(t, string(b), "notes")
	assert.Contains(t, string(b), `"tradeValue":1000`)

	closed := open
	closed.Status = StatusClosed
	closed.ClosePrice = A(12)
	closed.CloseDate = opened.Add(24 * time.Hour)
	closed.Outcome = OutcomeProfit
	b, err = json.Marshal(closed)
	require.NoError(t, err)

	var back Trade
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.ClosePrice.Equal(A(12)))
	assert.Equal(t, OutcomeProfit, back.Outcome)
	assert.True(t, back.CloseDate.Equal(closed.CloseDate))
	assert.True(t, back.TradeValue.Equal(A(1000)))
}
