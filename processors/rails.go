package processors

import (
	"context"
	"strings"

	"github.com/sunnypayments/core/payment"
	"github.com/sunnypayments/core/random"
)

const (
	CodeInvalidMobileNumber payment.ErrorCode = "INVALID_MOBILE_NUMBER"
	CodeInvalidVPA          payment.ErrorCode = "INVALID_VPA"
)

// BankTransfer initiates a credit transfer. Transfers settle
// asynchronously, so a successful initiation reports StatusProcessing
// rather than StatusCompleted.
type BankTransfer struct{}

func NewBankTransfer() (b *BankTransfer) {
	return &BankTransfer{}
}

func (*BankTransfer) Method() payment.Method {
	return payment.MethodBankTransfer
}

func (*BankTransfer) Process(ctx context.Context, req *payment.Request, transactionID string) (result Result, err error) {
	if err = ctx.Err(); err != nil {
		return result, err
	}

	r := random.CryptoRand()
	result = Result{
		Success: true,
		Status:  payment.StatusProcessing,
		Message: "transfer initiated, settlement is asynchronous",
		ProcessorResponse: map[string]any{
			"processorTransactionId": random.Reference(r, "bt_", 16),
			"processorName":          "SunnyClearing",
		},
	}
	return result, nil
}

// MobileMoney charges a subscriber wallet keyed by phone number.
type MobileMoney struct{}

func NewMobileMoney() (m *MobileMoney) {
	return &MobileMoney{}
}

func (*MobileMoney) Method() payment.Method {
	return payment.MethodMobileMoney
}

func (*MobileMoney) Process(ctx context.Context, req *payment.Request, transactionID string) (result Result, err error) {
	if err = ctx.Err(); err != nil {
		return result, err
	}

	phone := ""
	if req.Customer != nil {
		phone = digitsOnly(req.Customer.Phone)
	}
	if len(phone) < 10 || len(phone) > 15 {
		result = Result{
			Status:  payment.StatusFailed,
			Err:     CodeInvalidMobileNumber,
			Message: "invalid mobile number",
		}
		return result, nil
	}

	r := random.CryptoRand()
	result = Result{
		Success: true,
		Status:  payment.StatusCompleted,
		ProcessorResponse: map[string]any{
			"mobileMoneyId":     random.Reference(r, "MM_", 16),
			"providerReference": strings.ToUpper(random.String(r, random.CharsetHex, 20)),
			"processorName":     "SunnyMobile",
		},
	}
	return result, nil
}

// Wallet charges a digital wallet (apple_pay, google_pay, ...). The
// provider is taken from request metadata.
type Wallet struct{}

func NewWallet() (w *Wallet) {
	return &Wallet{}
}

func (*Wallet) Method() payment.Method {
	return payment.MethodWallet
}

func (*Wallet) Process(ctx context.Context, req *payment.Request, transactionID string) (result Result, err error) {
	if err = ctx.Err(); err != nil {
		return result, err
	}

	provider, _ := req.Metadata["wallet_provider"].(string)
	if provider == "" {
		provider = "apple_pay"
	}

	r := random.CryptoRand()
	result = Result{
		Success: true,
		Status:  payment.StatusCompleted,
		ProcessorResponse: map[string]any{
			"walletTransactionId": random.Reference(r, "wt_", 16),
			"walletProvider":      provider,
			"processorName":       "SunnyWallet",
		},
	}
	return result, nil
}

// Crypto charges an on-chain payment.
type Crypto struct{}

func NewCrypto() (c *Crypto) {
	return &Crypto{}
}

func (*Crypto) Method() payment.Method {
	return payment.MethodCrypto
}

func (*Crypto) Process(ctx context.Context, req *payment.Request, transactionID string) (result Result, err error) {
	if err = ctx.Err(); err != nil {
		return result, err
	}

	r := random.CryptoRand()
	result = Result{
		Success: true,
		Status:  payment.StatusCompleted,
		ProcessorResponse: map[string]any{
			"txHash":        random.Reference(r, "0x", 64),
			"processorName": "SunnyChain",
		},
	}
	return result, nil
}

// UPI charges an Indian UPI virtual payment address.
type UPI struct{}

func NewUPI() (u *UPI) {
	return &UPI{}
}

func (*UPI) Method() payment.Method {
	return payment.MethodUPI
}

func (*UPI) Process(ctx context.Context, req *payment.Request, transactionID string) (result Result, err error) {
	if err = ctx.Err(); err != nil {
		return result, err
	}

	vpa, _ := req.Metadata["vpa"].(string)
	if !strings.Contains(vpa, "@") {
		result = Result{
			Status:  payment.StatusFailed,
			Err:     CodeInvalidVPA,
			Message: "invalid virtual payment address",
		}
		return result, nil
	}

	r := random.CryptoRand()
	result = Result{
		Success: true,
		Status:  payment.StatusCompleted,
		ProcessorResponse: map[string]any{
			"upiTransactionId": random.Reference(r, "upi_", 16),
			"processorName":    "SunnyUPI",
		},
	}
	return result, nil
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
