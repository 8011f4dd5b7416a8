package session

import (
	"sync"

	"github.com/angelmondragon/sonumarket-core/internal/cart"
	"github.com/angelmondragon/sonumarket-core/internal/profile"
	"github.com/angelmondragon/sonumarket-core/internal/wizard"
	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
)

// Session groups the per-visitor engines: one cart, one profile and at most
// one machine per wizard flow.
type Session struct {
	ID      string
	Cart    *cart.Engine
	Profile *profile.Manager

	manager *Manager
	mu      sync.Mutex
	wizards map[enums.WizardFlow]*wizard.Machine
}

// OpenWizard starts a fresh machine for flow, replacing any existing one.
func (s *Session) OpenWizard(flow enums.WizardFlow) (*wizard.Machine, error) {
	if !flow.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown wizard flow").
			WithDetails(map[string]string{"flow": string(flow)})
	}

	opts := s.manager.opts
	wopts := wizard.Options{Logger: opts.Logger, Metrics: opts.WizardMetrics}

	var (
		machine *wizard.Machine
		err     error
	)
	switch flow {
	case enums.WizardFlowConfigurator:
		machine, err = wizard.NewConfigurator(opts.Catalog, wizard.CartSubmitter(s.Cart), wopts)
	case enums.WizardFlowCVPurchase:
		machine, err = wizard.NewCVPurchase(opts.Catalog, wizard.ChargeSubmitter(opts.Charger), wopts)
	case enums.WizardFlowRedactionRequest:
		machine, err = wizard.NewRedactionRequest(opts.Catalog, wizard.ChargeSubmitter(opts.Charger), wopts)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build wizard")
	}

	s.mu.Lock()
	s.wizards[flow] = machine
	s.mu.Unlock()
	return machine, nil
}

// Wizard returns the open machine for flow.
func (s *Session) Wizard(flow enums.WizardFlow) (*wizard.Machine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.wizards[flow]
	return m, ok
}

// CloseWizard discards the machine for flow. A running submission still completes.
func (s *Session) CloseWizard(flow enums.WizardFlow) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wizards[flow]; !ok {
		return false
	}
	delete(s.wizards, flow)
	return true
}
