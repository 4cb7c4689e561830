package fees

import (
	"github.com/shopspring/decimal"

	"github.com/sunnypayments/core/payment"
)

// Tier is the merchant pricing tier.
type Tier string

const (
	TierStandard   Tier = "standard"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

// Details is the transparent breakdown of processing fees for one charge.
// It is derived once per request and never mutated afterwards.
type Details struct {
	// Fee at the method's base rate, before discounts and adjustments
	BaseFee decimal.Decimal `json:"base_fee"`
	// Percentage component at the final rate
	PercentageFee decimal.Decimal `json:"percentage_fee"`
	// Fixed component
	FixedFee decimal.Decimal `json:"fixed_fee"`
	// PercentageFee + FixedFee
	TotalFee decimal.Decimal `json:"total_fee"`
	// Amount remaining after fees
	NetAmount decimal.Decimal `json:"net_amount"`
	// Currency the fees are denominated in
	Currency string `json:"currency"`
}

type rate struct {
	percentage decimal.Decimal
	fixed      decimal.Decimal
}

func mustRate(percentage, fixed string) rate {
	return rate{
		percentage: decimal.RequireFromString(percentage),
		fixed:      decimal.RequireFromString(fixed),
	}
}

// Base rate per payment method. Fixed components are in major units.
var baseRates = map[payment.Method]rate{
	payment.MethodCard:         mustRate("2.9", "0.30"),
	payment.MethodBankTransfer: mustRate("0.8", "0.25"),
	payment.MethodMobileMoney:  mustRate("2.5", "0.15"),
	payment.MethodWallet:       mustRate("2.9", "0.30"),
	payment.MethodCrypto:       mustRate("1.0", "0"),
	payment.MethodUPI:          mustRate("1.8", "0.10"),
}

// Documented fallback for unknown (method, tier) combinations.
var defaultRate = mustRate("3.0", "0.30")

var tierDiscounts = map[Tier]rate{
	TierStandard:   mustRate("0", "0"),
	TierPremium:    mustRate("0.3", "0.05"),
	TierEnterprise: mustRate("0.5", "0.10"),
}

var regionalAdjustments = map[string]rate{
	"US": mustRate("0", "0"),
	"CA": mustRate("0.1", "0"),
	"GB": mustRate("0.1", "0"),
	"EU": mustRate("0.2", "0"),
	"IN": mustRate("-0.5", "-0.05"),
	"NG": mustRate("-0.3", "-0.05"),
	"KE": mustRate("-0.3", "-0.05"),
	"BR": mustRate("0.3", "0.05"),
	"JP": mustRate("0.2", "0.05"),
}

var euCountries = map[string]struct{}{
	"DE": {}, "FR": {}, "IT": {}, "ES": {}, "NL": {}, "BE": {}, "PT": {},
	"IE": {}, "AT": {}, "FI": {}, "SE": {}, "DK": {}, "PL": {}, "CZ": {},
	"HU": {}, "RO": {}, "BG": {}, "GR": {}, "HR": {},
}

// Exponent of the currency's minor unit. Most currencies carry two
// decimal places.
var minorUnits = map[string]int32{
	"JPY": 0, "KRW": 0, "VND": 0, "CLP": 0,
	"BHD": 3, "KWD": 3, "OMR": 3,
}

func precision(currency string) int32 {
	if p, ok := minorUnits[currency]; ok {
		return p
	}
	return 2
}

var hundred = decimal.NewFromInt(100)

// Calculate computes the fee breakdown for a charge. Pure and
// deterministic: identical inputs always produce identical output. Fees
// round half-up to the currency's minor unit and never go negative.
func Calculate(amount decimal.Decimal, currency string, method payment.Method, country string, tier Tier) (d Details) {
	base, ok := baseRates[method]
	if !ok {
		base = defaultRate
	}

	discount, ok := tierDiscounts[tier]
	if !ok {
		discount = tierDiscounts[TierStandard]
	}

	adjustment := regionalAdjustment(country)

	finalPercentage := base.percentage.Sub(discount.percentage).Add(adjustment.percentage)
	if finalPercentage.IsNegative() {
		finalPercentage = decimal.Zero
	}
	finalFixed := base.fixed.Sub(discount.fixed).Add(adjustment.fixed)
	if finalFixed.IsNegative() {
		finalFixed = decimal.Zero
	}

	prec := precision(currency)

	d.Currency = currency
	d.BaseFee = amount.Mul(base.percentage).Div(hundred).Round(prec)
	d.PercentageFee = amount.Mul(finalPercentage).Div(hundred).Round(prec)
	d.FixedFee = finalFixed.Round(prec)
	d.TotalFee = d.PercentageFee.Add(d.FixedFee)
	d.NetAmount = amount.Sub(d.TotalFee)
	return d
}

func regionalAdjustment(country string) rate {
	if _, ok := euCountries[country]; ok {
		return regionalAdjustments["EU"]
	}
	if adj, ok := regionalAdjustments[country]; ok {
		return adj
	}
	return rate{percentage: decimal.Zero, fixed: decimal.Zero}
}
