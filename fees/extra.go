package fees

import (
	"github.com/shopspring/decimal"

	"github.com/sunnypayments/core/payment"
)

// ConversionFee is the cost of converting between two currencies.
type ConversionFee struct {
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Percentage   decimal.Decimal `json:"percentage"`
	Fee          decimal.Decimal `json:"fee"`
	NetAmount    decimal.Decimal `json:"net_amount"`
}

var conversionPercentages = map[Tier]decimal.Decimal{
	TierStandard:   decimal.RequireFromString("2.0"),
	TierPremium:    decimal.RequireFromString("1.5"),
	TierEnterprise: decimal.RequireFromString("1.0"),
}

// CalculateConversion computes the currency conversion fee for a tier.
func CalculateConversion(amount decimal.Decimal, fromCurrency, toCurrency string, tier Tier) (c ConversionFee) {
	percentage, ok := conversionPercentages[tier]
	if !ok {
		percentage = conversionPercentages[TierStandard]
	}

	c.FromCurrency = fromCurrency
	c.ToCurrency = toCurrency
	c.Percentage = percentage
	c.Fee = amount.Mul(percentage).Div(hundred).Round(precision(toCurrency))
	c.NetAmount = amount.Sub(c.Fee)
	return c
}

// RefundFee is the fixed cost of refunding a charge. Only card refunds
// carry a fee, waived entirely for enterprise merchants.
type RefundFee struct {
	Currency  string          `json:"currency"`
	FixedFee  decimal.Decimal `json:"fixed_fee"`
	NetRefund decimal.Decimal `json:"net_refund"`
}

func CalculateRefund(amount decimal.Decimal, currency string, method payment.Method, tier Tier) (r RefundFee) {
	fixed := decimal.Zero
	if method == payment.MethodCard {
		switch tier {
		case TierPremium:
			fixed = decimal.RequireFromString("0.20")
		case TierEnterprise:
			fixed = decimal.Zero
		default:
			fixed = decimal.RequireFromString("0.30")
		}
	}

	r.Currency = currency
	r.FixedFee = fixed.Round(precision(currency))
	r.NetRefund = amount.Sub(r.FixedFee)
	return r
}
