package enums

import "fmt"

// PaymentChannel is the mobile-money provider used to settle a guided purchase.
type PaymentChannel string

const (
	PaymentChannelMTNMoMo     PaymentChannel = "mtn_momo"
	PaymentChannelAirtelMoney PaymentChannel = "airtel_money"
)

var validPaymentChannels = []PaymentChannel{
	PaymentChannelMTNMoMo,
	PaymentChannelAirtelMoney,
}

// String implements fmt.Stringer.
func (p PaymentChannel) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentChannel.
func (p PaymentChannel) IsValid() bool {
	for _, candidate := range validPaymentChannels {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentChannel converts raw input into a PaymentChannel.
func ParsePaymentChannel(value string) (PaymentChannel, error) {
	for _, candidate := range validPaymentChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment channel %q", value)
}
