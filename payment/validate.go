package payment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

var knownMethods = map[Method]struct{}{
	MethodCard:         {},
	MethodBankTransfer: {},
	MethodMobileMoney:  {},
	MethodWallet:       {},
	MethodCrypto:       {},
	MethodUPI:          {},
}

// KnownMethod reports whether m is part of the supported method set.
func KnownMethod(m Method) bool {
	_, ok := knownMethods[m]
	return ok
}

type Validation struct {
	Errors []string
}

func (v *Validation) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validation) Message() string {
	return strings.Join(v.Errors, ", ")
}

func (v *Validation) add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks a request structurally and semantically. It is pure: no
// I/O, no side effects. A request passing Validate may still be rejected
// later by fraud screening or the processor itself.
func Validate(r *Request) (v Validation) {
	if r == nil {
		v.add("payment request is required")
		return v
	}

	if !r.Amount.IsPositive() {
		v.add("amount must be a positive number")
	}

	if r.Currency == "" {
		v.add("currency is required")
	} else if !currencyPattern.MatchString(r.Currency) {
		v.add("currency must be a 3-letter ISO code")
	}

	if r.Method == "" {
		v.add("payment method is required")
	}

	v.validateSplits(r)
	return v
}

// Split invariant: every split carries a destination and a positive
// amount, and split totals never exceed the parent amount.
func (v *Validation) validateSplits(r *Request) {
	if len(r.Splits) == 0 {
		return
	}

	total := decimal.Zero
	for i, split := range r.Splits {
		if split.Destination == "" {
			v.add("split %d: destination is required", i)
		}
		if !split.Amount.IsPositive() {
			v.add("split %d: amount must be a positive number", i)
		}
		if split.Currency != "" && split.Currency != r.Currency {
			v.add("split %d: currency %s does not match payment currency", i, split.Currency)
		}
		total = total.Add(split.Amount)
	}

	if total.GreaterThan(r.Amount) {
		v.add("split total %s exceeds payment amount %s", total, r.Amount)
	}
}
