package enums

import "fmt"

// PaymentMethodType is the kind of payment method saved on a profile.
type PaymentMethodType string

const (
	PaymentMethodTypeMoMo   PaymentMethodType = "momo"
	PaymentMethodTypeAirtel PaymentMethodType = "airtel"
	PaymentMethodTypeCard   PaymentMethodType = "card"
)

var validPaymentMethodTypes = []PaymentMethodType{
	PaymentMethodTypeMoMo,
	PaymentMethodTypeAirtel,
	PaymentMethodTypeCard,
}

// Channel maps a mobile-money method onto the charge channel. Cards have none.
func (p PaymentMethodType) Channel() (PaymentChannel, bool) {
	switch p {
	case PaymentMethodTypeMoMo:
		return PaymentChannelMTNMoMo, true
	case PaymentMethodTypeAirtel:
		return PaymentChannelAirtelMoney, true
	}
	return "", false
}

// String implements fmt.Stringer.
func (p PaymentMethodType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethodType.
func (p PaymentMethodType) IsValid() bool {
	for _, candidate := range validPaymentMethodTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethodType converts raw input into a PaymentMethodType.
func ParsePaymentMethodType(value string) (PaymentMethodType, error) {
	for _, candidate := range validPaymentMethodTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method type %q", value)
}
