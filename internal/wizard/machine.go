package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"github.com/angelmondragon/sonumarket-core/pkg/logger"
	"github.com/angelmondragon/sonumarket-core/pkg/metrics"
	"github.com/google/uuid"
)

// AdvanceOutcome tells the caller what Advance did.
type AdvanceOutcome string

const (
	AdvanceRejected  AdvanceOutcome = "rejected"
	AdvanceMoved     AdvanceOutcome = "moved"
	AdvanceSubmitted AdvanceOutcome = "submitted"
)

// AdvanceResult carries the submission future when Advance entered submitting.
type AdvanceResult struct {
	Outcome    AdvanceOutcome
	Submission *Submission
}

// RetreatResult tells the caller whether to leave the flow.
type RetreatResult string

const (
	RetreatMoved    RetreatResult = "moved"
	RetreatExit     RetreatResult = "exit"
	RetreatRejected RetreatResult = "rejected"
)

// State is a read-only view of a machine.
type State struct {
	Flow          enums.WizardFlow    `json:"flow"`
	Steps         []StepID            `json:"steps"`
	CurrentIndex  int                 `json:"current_index"`
	Current       StepID              `json:"current_step"`
	Selections    map[StepID]any      `json:"selections"`
	Status        enums.WizardStatus  `json:"status"`
	Amount        int64               `json:"amount"`
	CanAdvance    bool                `json:"can_advance"`
	ReadyToSubmit bool                `json:"ready_to_submit"`
	SubmissionID  *uuid.UUID          `json:"submission_id,omitempty"`
	LastOutcome   enums.ChargeOutcome `json:"last_outcome,omitempty"`
	LastError     string              `json:"last_error,omitempty"`
}

// Options wires optional collaborators into a Machine.
type Options struct {
	Logger  *logger.Logger
	Metrics *metrics.WizardMetrics
}

// Machine runs one flow instance. Invalid calls leave it unchanged and report false
// rather than failing.
type Machine struct {
	mu         sync.Mutex
	def        *Definition
	submitter  Submitter
	logg       *logger.Logger
	metrics    *metrics.WizardMetrics
	index      int
	selections Selections
	status     enums.WizardStatus
	inflight   *Submission
	lastResult *Result
}

func NewMachine(def *Definition, submitter Submitter, opts Options) (*Machine, error) {
	if def == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wizard definition is required")
	}
	if submitter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wizard submitter is required")
	}
	return &Machine{
		def:        def,
		submitter:  submitter,
		logg:       opts.Logger,
		metrics:    opts.Metrics,
		selections: Selections{},
		status:     enums.WizardStatusInProgress,
	}, nil
}

func (m *Machine) Definition() *Definition {
	return m.def
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// Current returns the id of the current step.
func (m *Machine) Current() StepID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentLocked()
}

// CanAdvance reports whether Advance would do something.
func (m *Machine) CanAdvance() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canAdvanceLocked()
}

// IsSelectionValid reports whether Select(id, value) would be accepted right now:
// the machine is in progress, the step is reachable and the value passes the
// step's validator without breaking an earlier gate.
func (m *Machine) IsSelectionValid(id StepID, value any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, _, ok := m.checkSelectLocked(id, value)
	return ok
}

func (m *Machine) checkSelectLocked(id StepID, value any) (Selections, int, bool) {
	if m.status != enums.WizardStatusInProgress {
		return nil, -1, false
	}
	idx := m.def.indexOf(id)
	if idx < 0 || idx > m.index || !m.def.steps[idx].accepts(value) {
		return nil, -1, false
	}
	next := m.selections.clone()
	next[id] = value
	if !m.priorGatesHold(next, m.index) {
		return nil, -1, false
	}
	return next, idx, true
}

// ReadyToSubmit reports whether every content step's gate holds.
func (m *Machine) ReadyToSubmit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readyLocked()
}

// Amount is the amount the flow would submit with the current selections.
func (m *Machine) Amount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.amountLocked()
}

// Select stores value under step. The step must be reachable and the value valid.
// With auto-advance, selecting on the current step moves to the next content step.
func (m *Machine) Select(id StepID, value any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, idx, ok := m.checkSelectLocked(id, value)
	if !ok {
		return false
	}
	m.selections = next
	m.lastResult = nil
	m.metrics.IncTransition(m.def.flow.String(), "select")

	if m.def.autoAdvance && idx == m.index && idx < m.def.lastContent() {
		m.index++
		m.metrics.IncTransition(m.def.flow.String(), "auto_advance")
	}
	return true
}

// Clear removes the value stored under step, as long as every step before the current
// one still passes its gate afterwards.
func (m *Machine) Clear(id StepID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != enums.WizardStatusInProgress {
		return false
	}
	idx := m.def.indexOf(id)
	if idx < 0 || idx > m.index || !m.selections.Has(id) {
		return false
	}
	next := m.selections.clone()
	delete(next, id)
	if !m.priorGatesHold(next, m.index) {
		return false
	}
	m.selections = next
	m.metrics.IncTransition(m.def.flow.String(), "clear")
	return true
}

// Advance moves to the next step when the current gate holds. On the last content step
// it enters submitting and starts the submitter detached from ctx cancellation.
func (m *Machine) Advance(ctx context.Context) AdvanceResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.canAdvanceLocked() {
		m.metrics.IncTransition(m.def.flow.String(), "advance_rejected")
		return AdvanceResult{Outcome: AdvanceRejected}
	}
	if m.index < m.def.lastContent() {
		m.index++
		m.metrics.IncTransition(m.def.flow.String(), "advance")
		return AdvanceResult{Outcome: AdvanceMoved}
	}

	req := Request{
		ID:         uuid.New(),
		Flow:       m.def.flow,
		Amount:     m.amountLocked(),
		Channel:    m.channelLocked(),
		Steps:      m.def.StepIDs(),
		Selections: m.selections.clone(),
	}
	sub := newSubmission(req.ID)
	m.status = enums.WizardStatusSubmitting
	m.inflight = sub
	m.lastResult = nil
	m.metrics.IncTransition(m.def.flow.String(), "submit")

	ctx = m.logg.WithFields(ctx, map[string]any{
		"flow":          m.def.flow.String(),
		"submission_id": req.ID.String(),
		"amount":        req.Amount,
	})
	m.logg.Info(ctx, "wizard submission started")

	go m.runSubmission(context.WithoutCancel(ctx), req, sub)
	return AdvanceResult{Outcome: AdvanceSubmitted, Submission: sub}
}

func (m *Machine) runSubmission(ctx context.Context, req Request, sub *Submission) {
	start := time.Now()
	result := m.callSubmitter(ctx, req)

	m.mu.Lock()
	if result.Succeeded() {
		m.status = enums.WizardStatusComplete
		if m.def.terminal != "" {
			m.index = len(m.def.steps)
		}
		m.metrics.IncTransition(m.def.flow.String(), "complete")
		m.logg.Info(ctx, "wizard submission completed")
	} else {
		m.status = enums.WizardStatusInProgress
		m.index = m.def.lastContent()
		m.metrics.IncTransition(m.def.flow.String(), "submit_failed")
		if result.Err != nil {
			m.logg.Error(ctx, "wizard submission failed", result.Err)
		} else {
			m.logg.Warn(m.logg.WithField(ctx, "outcome", result.Outcome.String()), "wizard submission not confirmed")
		}
	}
	m.lastResult = &result
	m.inflight = nil
	m.mu.Unlock()

	m.metrics.ObserveSubmission(m.def.flow.String(), outcomeLabel(result), time.Since(start))
	sub.finish(result)
}

func (m *Machine) callSubmitter(ctx context.Context, req Request) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = Result{Err: pkgerrors.New(pkgerrors.CodeInternal, "submitter panicked").WithDetails(map[string]any{"panic": rec})}
		}
	}()
	return m.submitter.Submit(ctx, req)
}

// Retreat steps back. At step 0, or once complete, it tells the caller to leave the flow.
func (m *Machine) Retreat() RetreatResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.status {
	case enums.WizardStatusSubmitting:
		return RetreatRejected
	case enums.WizardStatusComplete:
		m.metrics.IncTransition(m.def.flow.String(), "exit")
		return RetreatExit
	}
	if m.index == 0 {
		m.metrics.IncTransition(m.def.flow.String(), "exit")
		return RetreatExit
	}
	m.index--
	m.metrics.IncTransition(m.def.flow.String(), "retreat")
	return RetreatMoved
}

// Reset clears every selection and returns to the first step. Only while in progress.
func (m *Machine) Reset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != enums.WizardStatusInProgress {
		return false
	}
	m.index = 0
	m.selections = Selections{}
	m.lastResult = nil
	m.metrics.IncTransition(m.def.flow.String(), "reset")
	return true
}

// JumpTo makes content step i current when every step before it passes its gate.
func (m *Machine) JumpTo(i int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != enums.WizardStatusInProgress || i < 0 || i > m.def.lastContent() {
		return false
	}
	if !m.priorGatesHold(m.selections, i) {
		return false
	}
	m.index = i
	m.metrics.IncTransition(m.def.flow.String(), "jump")
	return true
}

func (m *Machine) stateLocked() State {
	steps := m.def.StepIDs()
	selections := make(map[StepID]any, len(m.def.steps))
	for _, s := range m.def.steps {
		selections[s.id] = m.selections[s.id]
	}
	st := State{
		Flow:          m.def.flow,
		Steps:         steps,
		CurrentIndex:  m.index,
		Current:       m.currentLocked(),
		Selections:    selections,
		Status:        m.status,
		Amount:        m.amountLocked(),
		CanAdvance:    m.canAdvanceLocked(),
		ReadyToSubmit: m.readyLocked(),
	}
	if m.inflight != nil {
		id := m.inflight.ID
		st.SubmissionID = &id
	}
	if m.lastResult != nil {
		st.LastOutcome = m.lastResult.Outcome
		if m.lastResult.Err != nil {
			st.LastError = m.lastResult.Err.Error()
		}
	}
	return st
}

func (m *Machine) currentLocked() StepID {
	if m.index >= len(m.def.steps) {
		return m.def.terminal
	}
	return m.def.steps[m.index].id
}

func (m *Machine) canAdvanceLocked() bool {
	if m.status != enums.WizardStatusInProgress || m.index > m.def.lastContent() {
		return false
	}
	if !m.def.steps[m.index].gate(m.selections) {
		return false
	}
	if m.index == m.def.lastContent() {
		return m.readyLocked()
	}
	return true
}

func (m *Machine) readyLocked() bool {
	return m.priorGatesHold(m.selections, len(m.def.steps))
}

// priorGatesHold checks the gates of steps [0, upTo).
func (m *Machine) priorGatesHold(sel Selections, upTo int) bool {
	for i := 0; i < upTo && i < len(m.def.steps); i++ {
		if !m.def.steps[i].gate(sel) {
			return false
		}
	}
	return true
}

func (m *Machine) amountLocked() int64 {
	if m.def.amount == nil {
		return 0
	}
	return m.def.amount(m.selections)
}

func (m *Machine) channelLocked() enums.PaymentChannel {
	if m.def.channel == nil {
		return ""
	}
	return m.def.channel(m.selections)
}

func outcomeLabel(r Result) string {
	if r.Err != nil {
		return "error"
	}
	return r.Outcome.String()
}
