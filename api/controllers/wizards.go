package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/sonumarket-core/api/responses"
	"github.com/angelmondragon/sonumarket-core/api/validators"
	"github.com/angelmondragon/sonumarket-core/internal/session"
	"github.com/angelmondragon/sonumarket-core/internal/wizard"
	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"github.com/angelmondragon/sonumarket-core/pkg/logger"
)

type wizardResponse struct {
	State   wizard.State `json:"state"`
	Outcome string       `json:"outcome,omitempty"`
}

type jumpRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

func parseFlow(r *http.Request) (enums.WizardFlow, error) {
	raw := chi.URLParam(r, "flow")
	flow, err := enums.ParseWizardFlow(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown wizard flow").
			WithDetails(map[string]any{"flow": raw})
	}
	return flow, nil
}

// withMachine resolves the session and the open machine for the flow in the URL.
func withMachine(logg *logger.Logger, fn func(w http.ResponseWriter, r *http.Request, s *session.Session, m *wizard.Machine)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		flow, err := parseFlow(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m, open := s.Wizard(flow)
		if !open {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "wizard not open"))
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithFlow(ctx, flow.String())
		}
		fn(w, r.WithContext(ctx), s, m)
	}
}

func rejected(action string, st wizard.State) error {
	return pkgerrors.Rejected(action, string(st.Current), st.Status.String())
}

// WizardOpen starts a fresh instance of the flow, discarding any previous one.
func WizardOpen(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		flow, err := parseFlow(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m, err := s.OpenWizard(flow)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, wizardResponse{State: m.State()})
	}
}

func WizardState(logg *logger.Logger) http.HandlerFunc {
	return withMachine(logg, func(w http.ResponseWriter, r *http.Request, _ *session.Session, m *wizard.Machine) {
		responses.WriteSuccess(w, wizardResponse{State: m.State()})
	})
}

// WizardClose discards the open machine.
func WizardClose(logg *logger.Logger) http.HandlerFunc {
	return withMachine(logg, func(w http.ResponseWriter, r *http.Request, s *session.Session, m *wizard.Machine) {
		s.CloseWizard(m.Definition().Flow())
		w.WriteHeader(http.StatusNoContent)
	})
}

// WizardSelect decodes the body for the step in the URL and records it.
func WizardSelect(logg *logger.Logger) http.HandlerFunc {
	return withMachine(logg, func(w http.ResponseWriter, r *http.Request, _ *session.Session, m *wizard.Machine) {
		raw, err := validators.ReadRawJSON(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		step := wizard.StepID(chi.URLParam(r, "step"))
		value, err := m.Definition().Decode(step, raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !m.Select(step, value) {
			responses.WriteError(r.Context(), logg, w, rejected("selection", m.State()))
			return
		}
		responses.WriteSuccess(w, wizardResponse{State: m.State()})
	})
}

func WizardClear(logg *logger.Logger) http.HandlerFunc {
	return withMachine(logg, func(w http.ResponseWriter, r *http.Request, _ *session.Session, m *wizard.Machine) {
		if !m.Clear(wizard.StepID(chi.URLParam(r, "step"))) {
			responses.WriteError(r.Context(), logg, w, rejected("clear", m.State()))
			return
		}
		responses.WriteSuccess(w, wizardResponse{State: m.State()})
	})
}

// WizardAdvance moves forward or starts the submission. With ?wait=true the
// response is held until the submission settles or the request ends; otherwise
// it returns 202 and the caller polls the state.
func WizardAdvance(logg *logger.Logger) http.HandlerFunc {
	return withMachine(logg, func(w http.ResponseWriter, r *http.Request, _ *session.Session, m *wizard.Machine) {
		wait, err := validators.ParseQueryBool(r, "wait")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res := m.Advance(r.Context())
		switch res.Outcome {
		case wizard.AdvanceRejected:
			responses.WriteError(r.Context(), logg, w, rejected("advance", m.State()))
			return
		case wizard.AdvanceMoved:
			responses.WriteSuccess(w, wizardResponse{State: m.State(), Outcome: string(res.Outcome)})
			return
		}

		if !wait {
			responses.WriteSuccessStatus(w, http.StatusAccepted, wizardResponse{State: m.State(), Outcome: string(res.Outcome)})
			return
		}
		result, err := res.Submission.Wait(r.Context())
		if err != nil {
			// the request ended first; the submission keeps running
			responses.WriteSuccessStatus(w, http.StatusAccepted, wizardResponse{State: m.State(), Outcome: string(res.Outcome)})
			return
		}
		outcome := "completed"
		if !result.Succeeded() {
			outcome = "failed"
		}
		responses.WriteSuccess(w, wizardResponse{State: m.State(), Outcome: outcome})
	})
}

// WizardRetreat steps back; outcome "exit" tells the client to leave the flow.
func WizardRetreat(logg *logger.Logger) http.HandlerFunc {
	return withMachine(logg, func(w http.ResponseWriter, r *http.Request, _ *session.Session, m *wizard.Machine) {
		res := m.Retreat()
		if res == wizard.RetreatRejected {
			responses.WriteError(r.Context(), logg, w, rejected("retreat", m.State()))
			return
		}
		responses.WriteSuccess(w, wizardResponse{State: m.State(), Outcome: string(res)})
	})
}

func WizardReset(logg *logger.Logger) http.HandlerFunc {
	return withMachine(logg, func(w http.ResponseWriter, r *http.Request, _ *session.Session, m *wizard.Machine) {
		if !m.Reset() {
			responses.WriteError(r.Context(), logg, w, rejected("reset", m.State()))
			return
		}
		responses.WriteSuccess(w, wizardResponse{State: m.State()})
	})
}

// WizardJump is the progress bar: jump to any step whose predecessors are satisfied.
func WizardJump(logg *logger.Logger) http.HandlerFunc {
	return withMachine(logg, func(w http.ResponseWriter, r *http.Request, _ *session.Session, m *wizard.Machine) {
		var payload jumpRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !m.JumpTo(*payload.Index) {
			responses.WriteError(r.Context(), logg, w, rejected("jump", m.State()))
			return
		}
		responses.WriteSuccess(w, wizardResponse{State: m.State()})
	})
}
