package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"SGSTrader/internal/model"
)

func TestDefaultSymbol(t *testing.T) {
	assert.Equal(t, "EURUSD=X", DefaultSymbol(model.MarketForex))
	assert.Equal(t, "^NSEI", DefaultSymbol(model.MarketIndices))
	assert.Equal(t, "RELIANCE.NS", DefaultSymbol(model.MarketStocks))
	assert.Equal(t, "GC=F", DefaultSymbol(model.MarketFutures))
	assert.Equal(t, "", DefaultSymbol("bonds"))
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(model.MarketForex, "GBPUSD=X"))
	assert.False(t, Allowed(model.MarketForex, "AAPL"))
	assert.True(t, Allowed(model.MarketStocks, "AAPL"))
	assert.True(t, Allowed(model.MarketFutures, "CL=F"))
	assert.False(t, Allowed(model.MarketStocks, ""))
	assert.False(t, Allowed("bonds", "X"))
}

func TestAll_Order(t *testing.T) {
	all := All()
	if assert.Len(t, all, 4) {
		assert.Equal(t, model.MarketForex, all[0].Kind)
		assert.Equal(t, model.MarketFutures, all[3].Kind)
	}
}
