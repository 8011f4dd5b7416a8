package wizard

import (
	"context"
	"fmt"

	"github.com/angelmondragon/sonumarket-core/internal/cart"
	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	"github.com/angelmondragon/sonumarket-core/internal/payments"
	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"github.com/google/uuid"
)

// Request is what a flow hands to its submitter when it leaves the last content step.
type Request struct {
	ID         uuid.UUID
	Flow       enums.WizardFlow
	Amount     int64
	Channel    enums.PaymentChannel
	Steps      []StepID
	Selections Selections
}

// Result is the discriminated outcome of a submission. Anything other than a nil Err
// with a success outcome sends the flow back to its last content step.
type Result struct {
	Outcome enums.ChargeOutcome `json:"outcome,omitempty"`
	Err     error               `json:"-"`
}

// Succeeded reports whether the flow may complete.
func (r Result) Succeeded() bool {
	return r.Err == nil && r.Outcome == enums.ChargeOutcomeSuccess
}

// Submitter is the asynchronous collaborator invoked on the final action.
type Submitter interface {
	Submit(ctx context.Context, req Request) Result
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, req Request) Result

func (f SubmitterFunc) Submit(ctx context.Context, req Request) Result {
	return f(ctx, req)
}

// ChargeSubmitter charges the flow amount on the selected channel.
func ChargeSubmitter(charger payments.Charger) Submitter {
	return SubmitterFunc(func(ctx context.Context, req Request) Result {
		if charger == nil {
			return Result{Err: pkgerrors.New(pkgerrors.CodeInternal, "charger is not configured")}
		}
		if !req.Channel.IsValid() {
			return Result{Err: pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported payment channel %q", req.Channel))}
		}
		outcome, err := charger.Charge(ctx, req.Amount, req.Channel)
		return Result{Outcome: outcome, Err: err}
	})
}

// CartSubmitter adds every selected product to the cart in step order.
func CartSubmitter(engine *cart.Engine) Submitter {
	return SubmitterFunc(func(_ context.Context, req Request) Result {
		if engine == nil {
			return Result{Err: pkgerrors.New(pkgerrors.CodeInternal, "cart engine is not configured")}
		}
		products := make([]catalog.Product, 0, len(req.Steps))
		for _, id := range req.Steps {
			if p, ok := Value[catalog.Product](req.Selections, id); ok {
				products = append(products, p)
			}
		}
		engine.AddMany(products)
		return Result{Outcome: enums.ChargeOutcomeSuccess}
	})
}

// Submission is the in-flight final action of a flow.
type Submission struct {
	ID     uuid.UUID
	done   chan struct{}
	result Result
}

func newSubmission(id uuid.UUID) *Submission {
	return &Submission{ID: id, done: make(chan struct{})}
}

func (s *Submission) finish(r Result) {
	s.result = r
	close(s.done)
}

// Done is closed once the submitter has answered and the machine has applied the result.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the submission settles or ctx ends. Ending ctx does not abort it.
func (s *Submission) Wait(ctx context.Context) (Result, error) {
	select {
	case <-s.done:
		return s.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
