package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/sonumarket-core/pkg/config"
	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"github.com/angelmondragon/sonumarket-core/pkg/logger"
)

// Charger collects an amount over a mobile-money channel. Only the outcome matters to
// callers; an error means the charge could not be attempted or failed outright.
type Charger interface {
	Charge(ctx context.Context, amount int64, channel enums.PaymentChannel) (enums.ChargeOutcome, error)
}

// ChargerFunc adapts a function to Charger.
type ChargerFunc func(ctx context.Context, amount int64, channel enums.PaymentChannel) (enums.ChargeOutcome, error)

func (f ChargerFunc) Charge(ctx context.Context, amount int64, channel enums.PaymentChannel) (enums.ChargeOutcome, error) {
	return f(ctx, amount, channel)
}

// Simulated stands in for the mobile-money providers: it waits a fixed delay and
// reports a configured outcome.
type Simulated struct {
	delay   time.Duration
	outcome enums.ChargeOutcome
	logg    *logger.Logger
}

// NewSimulated builds a simulated charger from configuration.
func NewSimulated(cfg config.PaymentsConfig, logg *logger.Logger) (*Simulated, error) {
	outcome := enums.ChargeOutcomeSuccess
	if cfg.SimulatedOutcome != "" {
		parsed, err := enums.ParseChargeOutcome(cfg.SimulatedOutcome)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid simulated charge outcome")
		}
		outcome = parsed
	}
	if cfg.SimulatedDelay < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "simulated charge delay must be >= 0")
	}
	return &Simulated{delay: cfg.SimulatedDelay, outcome: outcome, logg: logg}, nil
}

// Charge implements Charger.
func (s *Simulated) Charge(ctx context.Context, amount int64, channel enums.PaymentChannel) (enums.ChargeOutcome, error) {
	if err := validateCharge(amount, channel); err != nil {
		return "", err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"amount": amount, "channel": channel.String()})
	s.logg.Info(ctx, "simulated charge started")

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "charge interrupted")
		case <-timer.C:
		}
	}

	s.logg.Info(s.logg.WithField(ctx, "outcome", s.outcome.String()), "simulated charge finished")
	return s.outcome, nil
}

func validateCharge(amount int64, channel enums.PaymentChannel) error {
	if amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("charge amount must be >= 0, got %d", amount))
	}
	if !channel.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported payment channel %q", channel))
	}
	return nil
}
