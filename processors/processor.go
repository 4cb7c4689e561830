package processors

import (
	"context"
	"sync"

	"github.com/sunnypayments/core/payment"
	"github.com/sunnypayments/core/security"
)

// Result is the partial outcome a processor hands back to the
// orchestrator. Transaction id and fees are owned by the orchestrator
// and deliberately absent.
type Result struct {
	Success bool
	// Terminal status of the charge on this rail. Asynchronous rails
	// return StatusProcessing instead of StatusCompleted.
	Status payment.Status
	// Error code on failure
	Err payment.ErrorCode
	// Human readable outcome
	Message string
	// Rail-specific echo used purely for traceability. Must never carry
	// plaintext sensitive fields.
	ProcessorResponse map[string]any
}

// Processor handles charges for one payment rail. Processors never log
// transactions themselves; the orchestrator owns the single terminal log
// entry per attempt.
type Processor interface {
	Method() (method payment.Method)
	Process(ctx context.Context, req *payment.Request, transactionID string) (result Result, err error)
}

// Registry maps payment methods to their processors. New rails register
// an implementation instead of growing a central switch.
type Registry struct {
	mu         sync.RWMutex
	processors map[payment.Method]Processor
}

func NewRegistry() (r *Registry) {
	return &Registry{processors: make(map[payment.Method]Processor)}
}

func (r *Registry) Register(p Processor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processors[p.Method()] = p
}

func (r *Registry) Get(method payment.Method) (p Processor, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok = r.processors[method]
	return p, ok
}

func (r *Registry) Methods() (methods []payment.Method) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for method := range r.processors {
		methods = append(methods, method)
	}
	return methods
}

// Default builds a registry with every built-in rail registered.
func Default(enc *security.Service) (r *Registry) {
	r = NewRegistry()
	r.Register(NewCard(enc))
	r.Register(NewBankTransfer())
	r.Register(NewMobileMoney())
	r.Register(NewWallet())
	r.Register(NewCrypto())
	r.Register(NewUPI())
	return r
}
