package trade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCalculateFees(t *testing.T) {
	req := require.New(t)

	gas := decimal.NewFromFloat(0.002)
	fees := CalculateFees(decimal.NewFromInt(1000), gas)

	req.Equal("25", fees.Platform)
	req.Equal("10", fees.Royalty)
	req.Equal("0.002", fees.Gas)
	req.Equal("0", fees.Processing)
	req.Equal("35.002", fees.Total)
}

func TestFeesTotalIsSumOfParts(t *testing.T) {
	req := require.New(t)

	gas := decimal.NewFromFloat(0.002)
	values := []int64{0, 1, 99, 1000, 25000, 1250000}
	for _, v := range values {
		fees := CalculateFees(decimal.NewFromInt(v), gas)

		platform, err := decimal.NewFromString(fees.Platform)
		req.NoError(err)
		royalty, err := decimal.NewFromString(fees.Royalty)
		req.NoError(err)
		gasPart, err := decimal.NewFromString(fees.Gas)
		req.NoError(err)
		processing, err := decimal.NewFromString(fees.Processing)
		req.NoError(err)

		sum := platform.Add(royalty).Add(gasPart).Add(processing)
		req.True(sum.Equal(fees.TotalDecimal()), "value %d", v)
	}
}

func TestNetProceeds(t *testing.T) {
	req := require.New(t)

	totalValue := decimal.NewFromInt(1000)
	fees := CalculateFees(totalValue, decimal.Zero)
	net := NetProceeds(totalValue, fees)

	req.True(net.Equal(decimal.NewFromInt(965)))
}

func TestZeroValueTrade(t *testing.T) {
	req := require.New(t)

	fees := CalculateFees(decimal.Zero, decimal.Zero)
	req.True(fees.TotalDecimal().IsZero())
}
