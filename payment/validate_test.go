package payment_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sunnypayments/core/payment"
)

func Test_Validate(t *testing.T) {
	valid := payment.Request{
		Amount:   decimal.RequireFromString("100.00"),
		Currency: "USD",
		Method:   payment.MethodCard,
	}

	t.Run("Valid", func(t *testing.T) {
		assertions := assert.New(t)

		v := payment.Validate(&valid)
		assertions.True(v.Valid())
		assertions.Empty(v.Message())
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		assertions := assert.New(t)

		r := valid
		r.Amount = decimal.Zero
		v := payment.Validate(&r)
		assertions.False(v.Valid())
		assertions.Contains(v.Message(), "amount")
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		assertions := assert.New(t)

		r := valid
		r.Amount = decimal.RequireFromString("-5")
		v := payment.Validate(&r)
		assertions.False(v.Valid())
	})

	t.Run("MissingCurrency", func(t *testing.T) {
		assertions := assert.New(t)

		r := valid
		r.Currency = ""
		v := payment.Validate(&r)
		assertions.False(v.Valid())
		assertions.Contains(v.Message(), "currency is required")
	})

	t.Run("BadCurrency", func(t *testing.T) {
		assertions := assert.New(t)

		r := valid
		r.Currency = "usd"
		v := payment.Validate(&r)
		assertions.False(v.Valid())
	})

	t.Run("NilRequest", func(t *testing.T) {
		assertions := assert.New(t)

		v := payment.Validate(nil)
		assertions.False(v.Valid())
	})
}

func Test_Validate_Splits(t *testing.T) {
	base := payment.Request{
		Amount:   decimal.RequireFromString("100.00"),
		Currency: "USD",
		Method:   payment.MethodCard,
	}

	t.Run("WithinTotal", func(t *testing.T) {
		assertions := assert.New(t)

		r := base
		r.Splits = []payment.SplitTarget{
			{Destination: "acct_1", Amount: decimal.RequireFromString("60"), Currency: "USD"},
			{Destination: "acct_2", Amount: decimal.RequireFromString("40"), Currency: "USD"},
		}
		v := payment.Validate(&r)
		assertions.True(v.Valid())
	})

	t.Run("OverCommitted", func(t *testing.T) {
		assertions := assert.New(t)

		r := base
		r.Splits = []payment.SplitTarget{
			{Destination: "acct_1", Amount: decimal.RequireFromString("80"), Currency: "USD"},
			{Destination: "acct_2", Amount: decimal.RequireFromString("40"), Currency: "USD"},
		}
		v := payment.Validate(&r)
		assertions.False(v.Valid())
		assertions.Contains(v.Message(), "exceeds payment amount")
	})

	t.Run("MissingDestination", func(t *testing.T) {
		assertions := assert.New(t)

		r := base
		r.Splits = []payment.SplitTarget{
			{Amount: decimal.RequireFromString("10"), Currency: "USD"},
		}
		v := payment.Validate(&r)
		assertions.False(v.Valid())
	})

	t.Run("CurrencyMismatch", func(t *testing.T) {
		assertions := assert.New(t)

		r := base
		r.Splits = []payment.SplitTarget{
			{Destination: "acct_1", Amount: decimal.RequireFromString("10"), Currency: "EUR"},
		}
		v := payment.Validate(&r)
		assertions.False(v.Valid())
	})
}

func Test_KnownMethod(t *testing.T) {
	assertions := assert.New(t)

	assertions.True(payment.KnownMethod(payment.MethodCard))
	assertions.True(payment.KnownMethod(payment.MethodUPI))
	assertions.False(payment.KnownMethod(payment.Method("UNKNOWN_RAIL")))
}
