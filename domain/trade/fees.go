package trade

import (
	"github.com/shopspring/decimal"
)

var (
	// PlatformFeeRate is charged on every settled trade
	PlatformFeeRate = decimal.NewFromFloat(0.025)
	// RoyaltyFeeRate goes to the originating deed issuer
	RoyaltyFeeRate = decimal.NewFromFloat(0.01)
)

// Fees is the per trade fee breakdown, decimal strings in the trade currency.
// Fees are deducted from seller proceeds, the buyer pays TotalValue as is.
type Fees struct {
	Platform   string `json:"platform" bson:"platform"`
	Royalty    string `json:"royalty" bson:"royalty"`
	Gas        string `json:"gas" bson:"gas"`
	Processing string `json:"processing" bson:"processing"`
	Total      string `json:"total" bson:"total"`
}

func (f Fees) TotalDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(f.Total)
	return d
}

// CalculateFees computes the fee breakdown for a trade of the given total
// value. Pure, no lookups; gasEstimate is the flat estimate configured for
// the settlement contract call.
func CalculateFees(totalValue, gasEstimate decimal.Decimal) Fees {
	platform := totalValue.Mul(PlatformFeeRate)
	royalty := totalValue.Mul(RoyaltyFeeRate)
	processing := decimal.Zero
	total := platform.Add(royalty).Add(gasEstimate).Add(processing)

	return Fees{
		Platform:   platform.String(),
		Royalty:    royalty.String(),
		Gas:        gasEstimate.String(),
		Processing: processing.String(),
		Total:      total.String(),
	}
}

// NetProceeds is what the seller receives once fees are deducted
func NetProceeds(totalValue decimal.Decimal, fees Fees) decimal.Decimal {
	return totalValue.Sub(fees.TotalDecimal())
}
