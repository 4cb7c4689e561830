package processors_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sunnypayments/core/payment"
	"github.com/sunnypayments/core/processors"
	"github.com/sunnypayments/core/security"
)

func encryption(t *testing.T) *security.Service {
	t.Helper()
	svc, err := security.New("processor-test-secret")
	assert.Nil(t, err, "failed to build encryption service")
	return svc
}

func Test_Registry(t *testing.T) {
	assertions := assert.New(t)

	registry := processors.Default(encryption(t))

	for _, method := range []payment.Method{
		payment.MethodCard,
		payment.MethodBankTransfer,
		payment.MethodMobileMoney,
		payment.MethodWallet,
		payment.MethodCrypto,
		payment.MethodUPI,
	} {
		p, ok := registry.Get(method)
		assertions.True(ok, "missing processor for %s", method)
		assertions.Equal(method, p.Method())
	}

	_, ok := registry.Get(payment.Method("UNKNOWN_RAIL"))
	assertions.False(ok)
	assertions.Len(registry.Methods(), 6)
}

func cardRequest() *payment.Request {
	return &payment.Request{
		Amount:   decimal.RequireFromString("100.00"),
		Currency: "USD",
		Method:   payment.MethodCard,
		Card: &payment.Card{
			Number:      "4242424242424242",
			CVV:         "123",
			ExpiryMonth: 12,
			ExpiryYear:  2030,
		},
	}
}

func Test_Card_Process(t *testing.T) {
	assertions := assert.New(t)

	card := processors.NewCard(encryption(t))
	result, err := card.Process(context.Background(), cardRequest(), "tx-1")

	assertions.Nil(err, "failed to process")
	assertions.True(result.Success)
	assertions.Equal(payment.StatusCompleted, result.Status)
	assertions.Equal("SunnyDirect", result.ProcessorResponse["processorName"])
	assertions.Equal("VISA", result.ProcessorResponse["cardNetwork"])
	assertions.Equal("4242", result.ProcessorResponse["last4"])
	assertions.NotEmpty(result.ProcessorResponse["authorizationCode"])

	// raw card data never appears in the echo
	for _, v := range result.ProcessorResponse {
		s, ok := v.(string)
		if !ok {
			continue
		}
		assertions.NotContains(s, "4242424242424242")
		assertions.NotContains(s, "123")
	}
}

func Test_Card_Declines(t *testing.T) {
	card := processors.NewCard(encryption(t))
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*payment.Request)
	}{
		{"MissingCard", func(r *payment.Request) { r.Card = nil }},
		{"LuhnFailure", func(r *payment.Request) { r.Card.Number = "4242424242424241" }},
		{"ShortNumber", func(r *payment.Request) { r.Card.Number = "4242" }},
		{"BadCVV", func(r *payment.Request) { r.Card.CVV = "12" }},
		{"Expired", func(r *payment.Request) { r.Card.ExpiryYear = 2020 }},
		{"BadMonth", func(r *payment.Request) { r.Card.ExpiryMonth = 13 }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assertions := assert.New(t)

			req := cardRequest()
			test.mutate(req)

			result, err := card.Process(ctx, req, "tx-1")
			assertions.Nil(err)
			assertions.False(result.Success)
			assertions.Equal(payment.StatusFailed, result.Status)
			assertions.Equal(processors.CodeInvalidCard, result.Err)
		})
	}
}

func Test_BankTransfer_Process(t *testing.T) {
	assertions := assert.New(t)

	bt := processors.NewBankTransfer()
	result, err := bt.Process(context.Background(), &payment.Request{}, "tx-1")

	assertions.Nil(err)
	assertions.True(result.Success)
	assertions.Equal(payment.StatusProcessing, result.Status, "bank transfers settle asynchronously")
	assertions.Equal("SunnyClearing", result.ProcessorResponse["processorName"])
}

func Test_MobileMoney_Process(t *testing.T) {
	mm := processors.NewMobileMoney()
	ctx := context.Background()

	t.Run("ValidPhone", func(t *testing.T) {
		assertions := assert.New(t)

		result, err := mm.Process(ctx, &payment.Request{
			Customer: &payment.Customer{Phone: "+254 712 345 678"},
		}, "tx-1")
		assertions.Nil(err)
		assertions.True(result.Success)
		assertions.Equal("SunnyMobile", result.ProcessorResponse["processorName"])
	})

	t.Run("MissingPhone", func(t *testing.T) {
		assertions := assert.New(t)

		result, err := mm.Process(ctx, &payment.Request{}, "tx-1")
		assertions.Nil(err)
		assertions.False(result.Success)
		assertions.Equal(processors.CodeInvalidMobileNumber, result.Err)
	})
}

func Test_Wallet_Process(t *testing.T) {
	assertions := assert.New(t)

	w := processors.NewWallet()
	result, err := w.Process(context.Background(), &payment.Request{
		Metadata: map[string]any{"wallet_provider": "google_pay"},
	}, "tx-1")

	assertions.Nil(err)
	assertions.True(result.Success)
	assertions.Equal("google_pay", result.ProcessorResponse["walletProvider"])
}

func Test_Crypto_Process(t *testing.T) {
	assertions := assert.New(t)

	c := processors.NewCrypto()
	result, err := c.Process(context.Background(), &payment.Request{}, "tx-1")

	assertions.Nil(err)
	assertions.True(result.Success)
	assertions.Contains(result.ProcessorResponse["txHash"], "0x")
}

func Test_UPI_Process(t *testing.T) {
	upi := processors.NewUPI()
	ctx := context.Background()

	t.Run("ValidVPA", func(t *testing.T) {
		assertions := assert.New(t)

		result, err := upi.Process(ctx, &payment.Request{
			Metadata: map[string]any{"vpa": "jo@upi"},
		}, "tx-1")
		assertions.Nil(err)
		assertions.True(result.Success)
	})

	t.Run("MissingVPA", func(t *testing.T) {
		assertions := assert.New(t)

		result, err := upi.Process(ctx, &payment.Request{}, "tx-1")
		assertions.Nil(err)
		assertions.False(result.Success)
		assertions.Equal(processors.CodeInvalidVPA, result.Err)
	})
}
