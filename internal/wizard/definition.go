package wizard

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
)

// StepID names one step of a flow.
type StepID string

// Selections maps each step to its stored value. Missing entries mean "nothing selected".
type Selections map[StepID]any

// Has reports whether step holds a non-nil value.
func (s Selections) Has(step StepID) bool {
	v, ok := s[step]
	return ok && v != nil
}

func (s Selections) clone() Selections {
	out := make(Selections, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Value returns the selection for step when it holds a T.
func Value[T any](sel Selections, step StepID) (T, bool) {
	var zero T
	raw, ok := sel[step]
	if !ok || raw == nil {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

// StepOptions configure a content step.
type StepOptions struct {
	// Validate accepts or rejects a value for the step. Nil accepts any non-nil value.
	Validate func(value any) bool
	// CanAdvance gates leaving the step. Nil requires a selection unless Optional is set.
	CanAdvance func(sel Selections) bool
	// Optional lets the default gate pass without a selection.
	Optional bool
	// Decode turns a client payload into the step's value type.
	Decode func(raw json.RawMessage) (any, error)
}

type step struct {
	id   StepID
	opts StepOptions
}

func (s step) accepts(value any) bool {
	if value == nil {
		return false
	}
	if s.opts.Validate == nil {
		return true
	}
	return s.opts.Validate(value)
}

func (s step) gate(sel Selections) bool {
	if s.opts.CanAdvance != nil {
		return s.opts.CanAdvance(sel)
	}
	return s.opts.Optional || sel.Has(s.id)
}

// Definition is the immutable step table of one flow.
type Definition struct {
	flow        enums.WizardFlow
	steps       []step
	terminal    StepID
	autoAdvance bool
	amount      func(Selections) int64
	channel     func(Selections) enums.PaymentChannel
}

func (d *Definition) Flow() enums.WizardFlow {
	return d.flow
}

// StepIDs lists content steps followed by the terminal step, if any.
func (d *Definition) StepIDs() []StepID {
	out := make([]StepID, 0, len(d.steps)+1)
	for _, s := range d.steps {
		out = append(out, s.id)
	}
	if d.terminal != "" {
		out = append(out, d.terminal)
	}
	return out
}

func (d *Definition) lastContent() int {
	return len(d.steps) - 1
}

func (d *Definition) indexOf(id StepID) int {
	for i, s := range d.steps {
		if s.id == id {
			return i
		}
	}
	return -1
}

// Decode converts a raw payload for step into its value type.
func (d *Definition) Decode(id StepID, raw json.RawMessage) (any, error) {
	idx := d.indexOf(id)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown step %q for flow %s", id, d.flow))
	}
	decode := d.steps[idx].opts.Decode
	if decode == nil {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid selection payload")
		}
		return v, nil
	}
	v, err := decode(raw)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid selection payload")
	}
	return v, nil
}

// Builder assembles a Definition.
type Builder struct {
	def  Definition
	errs []string
}

func NewBuilder(flow enums.WizardFlow) *Builder {
	b := &Builder{def: Definition{flow: flow}}
	if !flow.IsValid() {
		b.errs = append(b.errs, fmt.Sprintf("unknown flow %q", flow))
	}
	return b
}

// Step appends a content step.
func (b *Builder) Step(id StepID, opts StepOptions) *Builder {
	if strings.TrimSpace(string(id)) == "" {
		b.errs = append(b.errs, "step id is required")
		return b
	}
	if b.def.indexOf(id) >= 0 || id == b.def.terminal {
		b.errs = append(b.errs, fmt.Sprintf("duplicate step %q", id))
		return b
	}
	b.def.steps = append(b.def.steps, step{id: id, opts: opts})
	return b
}

// Terminal names the success step shown once the flow completes.
func (b *Builder) Terminal(id StepID) *Builder {
	if b.def.indexOf(id) >= 0 {
		b.errs = append(b.errs, fmt.Sprintf("terminal step %q duplicates a content step", id))
		return b
	}
	b.def.terminal = id
	return b
}

// AutoAdvance moves to the next step after a successful select on the current step.
func (b *Builder) AutoAdvance() *Builder {
	b.def.autoAdvance = true
	return b
}

// Amount computes the submitted amount from the selections.
func (b *Builder) Amount(fn func(Selections) int64) *Builder {
	b.def.amount = fn
	return b
}

// Channel extracts the payment channel from the selections.
func (b *Builder) Channel(fn func(Selections) enums.PaymentChannel) *Builder {
	b.def.channel = fn
	return b
}

func (b *Builder) Build() (*Definition, error) {
	if len(b.def.steps) == 0 {
		b.errs = append(b.errs, "at least one step is required")
	}
	if len(b.errs) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid wizard definition").
			WithDetails(map[string]any{"flow": b.def.flow, "errors": b.errs})
	}
	def := b.def
	def.steps = append([]step(nil), b.def.steps...)
	return &def, nil
}
