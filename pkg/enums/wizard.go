package enums

import "fmt"

// WizardFlow names one of the guided multi-step flows.
type WizardFlow string

const (
	WizardFlowConfigurator     WizardFlow = "configurator"
	WizardFlowCVPurchase       WizardFlow = "cv_purchase"
	WizardFlowRedactionRequest WizardFlow = "redaction_request"
)

var validWizardFlows = []WizardFlow{
	WizardFlowConfigurator,
	WizardFlowCVPurchase,
	WizardFlowRedactionRequest,
}

// String implements fmt.Stringer.
func (w WizardFlow) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WizardFlow.
func (w WizardFlow) IsValid() bool {
	for _, candidate := range validWizardFlows {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWizardFlow converts raw input into a WizardFlow.
func ParseWizardFlow(value string) (WizardFlow, error) {
	for _, candidate := range validWizardFlows {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wizard flow %q", value)
}

// WizardStatus tracks where a guided flow is in its lifecycle.
type WizardStatus string

const (
	WizardStatusInProgress WizardStatus = "in_progress"
	WizardStatusSubmitting WizardStatus = "submitting"
	WizardStatusComplete   WizardStatus = "complete"
)

var validWizardStatuses = []WizardStatus{
	WizardStatusInProgress,
	WizardStatusSubmitting,
	WizardStatusComplete,
}

// String implements fmt.Stringer.
func (w WizardStatus) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WizardStatus.
func (w WizardStatus) IsValid() bool {
	for _, candidate := range validWizardStatuses {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWizardStatus converts raw input into a WizardStatus.
func ParseWizardStatus(value string) (WizardStatus, error) {
	for _, candidate := range validWizardStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wizard status %q", value)
}
