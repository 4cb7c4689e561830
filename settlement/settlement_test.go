package settlement_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sunnypayments/core/payment"
	"github.com/sunnypayments/core/settlement"
)

func request() settlement.Request {
	return settlement.Request{
		TransactionID:      "tx-1",
		Amount:             decimal.RequireFromString("100.00"),
		Currency:           "USD",
		MerchantID:         "m-1",
		Method:             payment.MethodCard,
		DestinationAccount: "acct_merchant",
	}
}

func Test_Instant_Settle(t *testing.T) {
	assertions := assert.New(t)

	svc := settlement.NewInstant(settlement.Config{})
	result, err := svc.Settle(context.Background(), request())

	assertions.Nil(err, "failed to settle")
	assertions.Equal(settlement.StatusCompleted, result.Status)
	assertions.Equal("tx-1", result.TransactionID)
	assertions.NotEmpty(result.SettlementID)
	assertions.False(result.SettledAt.IsZero())
	// card settlement fee is 1.0%
	assertions.True(result.Fee.Equal(decimal.RequireFromString("1.00")), "got %s", result.Fee)
	assertions.True(result.SettledAmount.Equal(decimal.RequireFromString("99.00")), "got %s", result.SettledAmount)
}

func Test_Instant_FeeByMethod(t *testing.T) {
	assertions := assert.New(t)

	svc := settlement.NewInstant(settlement.Config{})

	req := request()
	req.Method = payment.MethodCrypto
	result, err := svc.Settle(context.Background(), req)

	assertions.Nil(err)
	assertions.True(result.Fee.Equal(decimal.RequireFromString("0.25")), "got %s", result.Fee)
}

func Test_Instant_Validation(t *testing.T) {
	svc := settlement.NewInstant(settlement.Config{})
	ctx := context.Background()

	t.Run("MissingDestination", func(t *testing.T) {
		assertions := assert.New(t)

		req := request()
		req.DestinationAccount = ""
		_, err := svc.Settle(ctx, req)
		assertions.ErrorIs(err, settlement.ErrMissingDestination)
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		assertions := assert.New(t)

		req := request()
		req.Amount = decimal.Zero
		_, err := svc.Settle(ctx, req)
		assertions.NotNil(err)
	})

	t.Run("MissingIds", func(t *testing.T) {
		assertions := assert.New(t)

		req := request()
		req.TransactionID = ""
		_, err := svc.Settle(ctx, req)
		assertions.NotNil(err)
	})
}

func Test_Instant_UniqueSettlementIds(t *testing.T) {
	assertions := assert.New(t)

	svc := settlement.NewInstant(settlement.Config{})
	ctx := context.Background()

	a, err := svc.Settle(ctx, request())
	assertions.Nil(err)
	b, err := svc.Settle(ctx, request())
	assertions.Nil(err)

	assertions.NotEqual(a.SettlementID, b.SettlementID)
}
